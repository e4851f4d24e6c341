// services/errors.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hometownhero/bannerdesk/models"
)

// ErrNoMatchingBanner means a hero-name fragment matched nothing.
var ErrNoMatchingBanner = errors.New("no banner matches")

// AmbiguousBannerError means a hero-name fragment matched more than one banner.
// Nothing was changed.
type AmbiguousBannerError struct {
	Fragment   string
	Candidates []models.BannerRecord
}

func (e *AmbiguousBannerError) Error() string {
	names := make([]string, 0, len(e.Candidates))
	for _, b := range e.Candidates {
		names = append(names, fmt.Sprintf("%s (Sponsor: %s)", b.HeroName, b.SponsorName))
	}
	return fmt.Sprintf("multiple banners match %q, be more specific: %s", e.Fragment, strings.Join(names, "; "))
}

// UnknownFieldError rejects an update of a field that cannot be edited by hand.
type UnknownFieldError struct {
	Field string
	Valid []string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q, available fields: %s", e.Field, strings.Join(e.Valid, ", "))
}
