// services/import_service.go
package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hometownhero/bannerdesk/csvimport"
	"github.com/hometownhero/bannerdesk/models"
	"github.com/hometownhero/bannerdesk/reconcile"
)

// UnknownSponsor stands in for a blank sponsor name in a banner identity.
const UnknownSponsor = "Unknown"

// HeroOutcome is what one import did to one hero's banner.
type HeroOutcome struct {
	BannerID        int64    `json:"banner_id"`
	HeroName        string   `json:"hero_name"`
	SponsorName     string   `json:"sponsor_name"`
	MissingFields   []string `json:"missing_fields,omitempty"`
	PaymentVerified bool     `json:"payment_verified"`
	AmountCents     int64    `json:"amount_cents"`
	Status          string   `json:"status"`
}

type ImportResult struct {
	RunID          string               `json:"run_id"`
	Report         models.ImportReport  `json:"report"`
	HeroStats      csvimport.ParseStats `json:"hero_stats"`
	PaymentStats   csvimport.ParseStats `json:"payment_stats"`
	Heroes         []HeroOutcome        `json:"heroes"`
	BannersUpdated int                  `json:"banners_updated"`
}

// ImportService loads the two exports, reconciles them and records the
// outcome on each hero's banner.
type ImportService struct {
	banners    BannerStore
	runs       ImportRunStore
	parser     *csvimport.Parser
	downloader *csvimport.Downloader
	log        *zap.Logger
	newID      func() string
}

// NewImportService wires the import pipeline. exportDir receives exports
// fetched from URLs for the duration of one import.
func NewImportService(banners BannerStore, runs ImportRunStore, exportDir string, log *zap.Logger) *ImportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ImportService{
		banners:    banners,
		runs:       runs,
		parser:     csvimport.NewParser(log),
		downloader: csvimport.NewDownloader(exportDir, log),
		log:        log.Named("import"),
		newID:      uuid.NewString,
	}
}

// Import reads heroSource and paymentSource (paths or http(s) URLs),
// reconciles them and updates one banner per hero. A bad row never stops the
// import; a storage failure does.
func (s *ImportService) Import(ctx context.Context, heroSource, paymentSource string) (*ImportResult, error) {
	heroPath, cleanupHero, err := s.downloader.Resolve(ctx, heroSource)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hero export: %w", err)
	}
	defer cleanupHero()

	paymentPath, cleanupPayment, err := s.downloader.Resolve(ctx, paymentSource)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment export: %w", err)
	}
	defer cleanupPayment()

	heroes, heroStats, err := s.parser.ParseHeroFile(heroPath)
	if err != nil {
		return nil, err
	}
	payments, paymentStats, err := s.parser.ParsePaymentFile(paymentPath)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		RunID:        s.newID(),
		Report:       reconcile.BuildReport(heroes, payments),
		HeroStats:    heroStats,
		PaymentStats: paymentStats,
		Heroes:       make([]HeroOutcome, 0, len(heroes)),
	}

	for _, hero := range heroes {
		outcome, err := s.applyHero(ctx, hero, payments)
		if err != nil {
			return nil, fmt.Errorf("import stopped at %s after %d banners: %w", hero.Name, result.BannersUpdated, err)
		}
		result.Heroes = append(result.Heroes, outcome)
		result.BannersUpdated++
	}

	run := &models.ImportRun{
		ID:                   result.RunID,
		HeroSource:           sourceLabel(heroSource),
		PaymentSource:        sourceLabel(paymentSource),
		HeroDataHash:         s.hash(heroPath),
		PaymentDataHash:      s.hash(paymentPath),
		TotalHeroes:          result.Report.TotalHeroes,
		TotalPayments:        result.Report.TotalPayments,
		HeroesWithPayment:    result.Report.HeroesWithPayment,
		HeroesWithoutPayment: result.Report.HeroesWithoutPayment,
		PaymentsWithoutHero:  result.Report.PaymentsWithoutHero,
		BannersUpdated:       result.BannersUpdated,
	}
	if err := s.runs.RecordImportRun(ctx, run); err != nil {
		// Banners are already updated; a missing history row is only logged.
		s.log.Error("import finished but was not recorded", zap.String("run", run.ID), zap.Error(err))
	}

	s.log.Info("import complete",
		zap.String("run", result.RunID),
		zap.Int("heroes", result.Report.TotalHeroes),
		zap.Int("payments", result.Report.TotalPayments),
		zap.Int("with_payment", result.Report.HeroesWithPayment),
		zap.Int("without_payment", result.Report.HeroesWithoutPayment),
		zap.Int("orphan_payments", result.Report.PaymentsWithoutHero),
		zap.Strings("duplicates", result.Report.DuplicatePayments))
	return result, nil
}

func (s *ImportService) applyHero(ctx context.Context, hero models.HeroInfo, payments []models.PaymentInfo) (HeroOutcome, error) {
	sponsor := hero.SponsorName
	if sponsor == "" {
		sponsor = UnknownSponsor
	}

	banner, err := s.banners.GetOrCreate(ctx, hero.Name, sponsor)
	if err != nil {
		return HeroOutcome{}, err
	}

	complete, missing := hero.IsComplete()
	verified, payment := reconcile.Match(hero, payments)

	banner.InfoComplete = complete
	banner.SponsorEmail = hero.SponsorEmail
	banner.PaymentVerified = verified
	if err := s.banners.Update(ctx, banner); err != nil {
		return HeroOutcome{}, err
	}

	outcome := HeroOutcome{
		BannerID:        banner.ID,
		HeroName:        banner.HeroName,
		SponsorName:     banner.SponsorName,
		MissingFields:   missing,
		PaymentVerified: verified,
		Status:          banner.Status(),
	}
	if verified {
		outcome.AmountCents = payment.AmountCents
	}

	s.log.Debug("hero processed",
		zap.String("hero", hero.Name),
		zap.Bool("info_complete", complete),
		zap.Strings("missing", missing),
		zap.Bool("payment_verified", verified),
		zap.String("status", outcome.Status))
	return outcome, nil
}

// ListImportRuns returns the import history, newest first.
func (s *ImportService) ListImportRuns(ctx context.Context, limit int) ([]models.ImportRun, error) {
	return s.runs.ListImportRuns(ctx, limit)
}

func (s *ImportService) hash(path string) string {
	sum, err := csvimport.FileHash(path)
	if err != nil {
		s.log.Warn("could not hash export", zap.String("path", path), zap.Error(err))
		return ""
	}
	return sum
}

// sourceLabel keeps URLs whole and local files as their base name.
func sourceLabel(source string) string {
	if csvimport.IsURL(source) {
		return source
	}
	return filepath.Base(source)
}
