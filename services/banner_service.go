// services/banner_service.go
package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/hometownhero/bannerdesk/models"
	"github.com/hometownhero/bannerdesk/utils"
)

// Fields an operator may set by hand, in the order they are listed to users.
var UpdatableFields = []string{
	"pole_location",
	"notes",
	"documents_verified",
	"photo_verified",
	"proof_approved",
	"print_approved",
	"submitted_to_printer",
	"thank_you_sent",
}

// BannerService answers questions about banners and applies manual edits.
type BannerService struct {
	banners BannerStore
	log     *zap.Logger
}

func NewBannerService(banners BannerStore, log *zap.Logger) *BannerService {
	if log == nil {
		log = zap.NewNop()
	}
	return &BannerService{banners: banners, log: log.Named("banners")}
}

// List returns every banner, or only those whose status contains statusFilter.
func (s *BannerService) List(ctx context.Context, statusFilter string) ([]models.BannerRecord, error) {
	if strings.TrimSpace(statusFilter) == "" {
		return s.banners.ListAll(ctx)
	}
	return s.banners.ListByStatus(ctx, statusFilter)
}

// Search finds banners by hero or sponsor name.
func (s *BannerService) Search(ctx context.Context, text string) ([]models.BannerRecord, error) {
	return s.banners.Search(ctx, text)
}

// UpdateField sets one field on the single banner whose hero name contains
// heroFragment. Boolean fields take true/yes/1 as true and anything else as
// false. Zero or several matches, or an unknown field, change nothing.
func (s *BannerService) UpdateField(ctx context.Context, heroFragment, field, value string) (*models.BannerRecord, error) {
	set, ok := fieldSetters[field]
	if !ok {
		return nil, &UnknownFieldError{Field: field, Valid: append([]string(nil), UpdatableFields...)}
	}

	matches, err := s.banners.FindByHeroName(ctx, heroFragment)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w %q", ErrNoMatchingBanner, heroFragment)
	case 1:
	default:
		return nil, &AmbiguousBannerError{Fragment: heroFragment, Candidates: matches}
	}

	banner := matches[0]
	set(&banner, value)
	if err := s.banners.Update(ctx, &banner); err != nil {
		return nil, err
	}

	s.log.Info("banner updated",
		zap.String("hero", banner.HeroName),
		zap.String("field", field),
		zap.String("value", value),
		zap.String("status", banner.Status()))
	return &banner, nil
}

var fieldSetters = map[string]func(b *models.BannerRecord, value string){
	"pole_location":        func(b *models.BannerRecord, v string) { b.PoleLocation = v },
	"notes":                func(b *models.BannerRecord, v string) { b.Notes = v },
	"documents_verified":   func(b *models.BannerRecord, v string) { b.DocumentsVerified = utils.ParseBool(v) },
	"photo_verified":       func(b *models.BannerRecord, v string) { b.PhotoVerified = utils.ParseBool(v) },
	"proof_approved":       func(b *models.BannerRecord, v string) { b.ProofApproved = utils.ParseBool(v) },
	"print_approved":       func(b *models.BannerRecord, v string) { b.PrintApproved = utils.ParseBool(v) },
	"submitted_to_printer": func(b *models.BannerRecord, v string) { b.SubmittedToPrinter = utils.ParseBool(v) },
	"thank_you_sent":       func(b *models.BannerRecord, v string) { b.ThankYouSent = utils.ParseBool(v) },
}

// StatusCount is one line of the summary breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Summary holds the dashboard figures.
type Summary struct {
	Total            int           `json:"total"`
	ByStatus         []StatusCount `json:"by_status"` // sorted by status label
	Paid             int           `json:"paid"`
	ReadyToSend      int           `json:"ready_to_send"`
	ApprovedForPrint int           `json:"approved_for_print"`
}

func (s *BannerService) Summary(ctx context.Context) (*Summary, error) {
	all, err := s.banners.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	sum := &Summary{Total: len(all), ByStatus: []StatusCount{}}
	for _, b := range all {
		counts[b.Status()]++
		if b.PaymentVerified {
			sum.Paid++
		}
		if b.ReadyForProof() {
			sum.ReadyToSend++
		}
		if b.PrintApproved {
			sum.ApprovedForPrint++
		}
	}
	for status, n := range counts {
		sum.ByStatus = append(sum.ByStatus, StatusCount{Status: status, Count: n})
	}
	sort.Slice(sum.ByStatus, func(i, j int) bool { return sum.ByStatus[i].Status < sum.ByStatus[j].Status })
	return sum, nil
}
