package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hometownhero/bannerdesk/models"
)

func TestUpdateFieldSetsBooleanAndText(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seed(t, store, "John Doe", "Jane Doe", nil)
	svc := NewBannerService(store, nil)

	b, err := svc.UpdateField(ctx, "john", "photo_verified", "YES")
	require.NoError(t, err)
	assert.True(t, b.PhotoVerified)

	b, err = svc.UpdateField(ctx, "JOHN DOE", "pole_location", "Main St #12")
	require.NoError(t, err)
	assert.Equal(t, "Main St #12", b.PoleLocation)

	b, err = svc.UpdateField(ctx, "doe", "photo_verified", "nope")
	require.NoError(t, err)
	assert.False(t, b.PhotoVerified)

	stored, err := store.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main St #12", stored.PoleLocation)
	assert.False(t, stored.PhotoVerified)
}

func TestUpdateFieldDocumentsAndPhotoMakeReady(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seed(t, store, "John Doe", "Jane Doe", func(b *models.BannerRecord) {
		b.InfoComplete = true
		b.PaymentVerified = true
	})
	svc := NewBannerService(store, nil)

	_, err := svc.UpdateField(ctx, "John", "documents_verified", "true")
	require.NoError(t, err)
	b, err := svc.UpdateField(ctx, "John", "photo_verified", "1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusReadyToSendProof, b.Status())
	assert.True(t, b.ReadyForProof())
}

func TestUpdateFieldRejections(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seed(t, store, "John Doe", "Jane Doe", nil)
	seed(t, store, "Johnny Appleseed", "Ann Seed", nil)
	svc := NewBannerService(store, nil)

	_, err := svc.UpdateField(ctx, "John Doe", "payment_verified", "true")
	var unknown *UnknownFieldError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "payment_verified", unknown.Field)
	assert.Equal(t, UpdatableFields, unknown.Valid)

	_, err = svc.UpdateField(ctx, "Nobody", "notes", "x")
	assert.True(t, errors.Is(err, ErrNoMatchingBanner))

	_, err = svc.UpdateField(ctx, "john", "notes", "x")
	var ambiguous *AmbiguousBannerError
	require.ErrorAs(t, err, &ambiguous)
	assert.Len(t, ambiguous.Candidates, 2)
	assert.Contains(t, err.Error(), "Johnny Appleseed (Sponsor: Ann Seed)")

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	for _, b := range all {
		assert.Empty(t, b.Notes, "rejected updates change nothing")
	}
}

func TestListAndSearch(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seed(t, store, "John Doe", "Jane Doe", func(b *models.BannerRecord) { b.InfoComplete = true })
	seed(t, store, "Bill Smith", "Bob Smith", func(b *models.BannerRecord) { b.PaymentVerified = true })
	svc := NewBannerService(store, nil)

	all, err := svc.List(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := svc.List(ctx, "payment pending")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "John Doe", pending[0].HeroName)

	found, err := svc.Search(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Bill Smith", found[0].HeroName)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seed(t, store, "A", "S1", ready)
	seed(t, store, "B", "S2", ready)
	seed(t, store, "C", "S3", func(b *models.BannerRecord) { b.PaymentVerified = true })
	seed(t, store, "D", "S4", func(b *models.BannerRecord) { b.PrintApproved = true })
	seed(t, store, "E", "S5", nil)
	svc := NewBannerService(store, nil)

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Total)
	assert.Equal(t, 3, sum.Paid)
	assert.Equal(t, 2, sum.ReadyToSend)
	assert.Equal(t, 1, sum.ApprovedForPrint)
	assert.Equal(t, []StatusCount{
		{models.StatusApprovedForPrinting, 1},
		{models.StatusIncomplete, 1},
		{models.StatusPaidInfoIncomplete, 1},
		{models.StatusReadyToSendProof, 2},
	}, sum.ByStatus)

	empty, err := NewBannerService(newStore(t), nil).Summary(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.Empty(t, empty.ByStatus)
}
