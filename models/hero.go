// models/hero.go
package models

import "strings"

// HeroInfo is one published row of the hero CMS export.
type HeroInfo struct {
	Name          string
	ServiceBranch string
	Rank          string
	YearsServed   string // "Service Details" free text
	PhotoPath     string // only wix: asset URIs are kept
	SponsorName   string
	SponsorEmail  string
	SponsorPhone  string
}

// Field names reported by IsComplete, in declaration order.
const (
	FieldName          = "name"
	FieldServiceBranch = "service_branch"
	FieldPhotoPath     = "photo_path"
	FieldSponsorName   = "sponsor_name"
	FieldSponsorEmail  = "sponsor_email"
)

// IsComplete reports whether every field needed to produce a banner is present.
// The missing list follows the fixed field order above.
func (h HeroInfo) IsComplete() (bool, []string) {
	required := []struct {
		name  string
		value string
	}{
		{FieldName, h.Name},
		{FieldServiceBranch, h.ServiceBranch},
		{FieldPhotoPath, h.PhotoPath},
		{FieldSponsorName, h.SponsorName},
		{FieldSponsorEmail, h.SponsorEmail},
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return len(missing) == 0, missing
}
