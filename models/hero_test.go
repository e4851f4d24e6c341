package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeroIsComplete(t *testing.T) {
	full := HeroInfo{
		Name:          "JOHN DOE",
		ServiceBranch: "Army",
		PhotoPath:     "wix:image://v1/abc.jpg",
		SponsorName:   "Jane Doe",
		SponsorEmail:  "jane@example.com",
	}
	ok, missing := full.IsComplete()
	assert.True(t, ok)
	assert.Empty(t, missing)

	ok, missing = HeroInfo{Name: "JOHN DOE", SponsorName: "  "}.IsComplete()
	assert.False(t, ok)
	assert.Equal(t, []string{FieldServiceBranch, FieldPhotoPath, FieldSponsorName, FieldSponsorEmail}, missing)

	ok, missing = HeroInfo{}.IsComplete()
	assert.False(t, ok)
	assert.Equal(t, []string{FieldName, FieldServiceBranch, FieldPhotoPath, FieldSponsorName, FieldSponsorEmail}, missing)
}

func TestHeroOptionalFieldsIgnored(t *testing.T) {
	h := HeroInfo{
		Name: "A", ServiceBranch: "Navy", PhotoPath: "wix:x", SponsorName: "B", SponsorEmail: "b@example.com",
	}
	ok, _ := h.IsComplete()
	assert.True(t, ok, "rank, years and phone are optional")
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "$95.00", FormatCents(9500))
	assert.Equal(t, "$0.00", FormatCents(0))
	assert.Equal(t, "$150.50", PaymentInfo{AmountCents: 15050}.Amount())
	assert.False(t, PaymentInfo{}.IsPaid())
	assert.True(t, PaymentInfo{AmountCents: 1}.IsPaid())
}
