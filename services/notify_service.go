// services/notify_service.go
package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hometownhero/bannerdesk/models"
	"github.com/hometownhero/bannerdesk/notifications"
)

// Reminder kinds accepted by Remind.
const (
	ReminderPayment = "payment"
	ReminderPrint   = "print"
)

// NotifyResult counts what a notification pass did.
type NotifyResult struct {
	Matched  int      `json:"matched"`
	Notified []string `json:"notified"` // hero names, in processing order
	Skipped  int      `json:"skipped"`
}

// NotifyService writes sponsor notices to the notifications file.
type NotifyService struct {
	banners BannerStore
	writer  *notifications.Writer
	log     *zap.Logger
}

func NewNotifyService(banners BannerStore, writer *notifications.Writer, log *zap.Logger) *NotifyService {
	if log == nil {
		log = zap.NewNop()
	}
	return &NotifyService{banners: banners, writer: writer, log: log.Named("notify")}
}

// Notify selects banners whose status contains statusFilter and writes a
// proof-ready notice for each one that is ready for proof, marking it
// proof_sent. Banners that are not ready are counted as skipped.
func (s *NotifyService) Notify(ctx context.Context, statusFilter string) (*NotifyResult, error) {
	matched, err := s.banners.ListByStatus(ctx, statusFilter)
	if err != nil {
		return nil, err
	}

	result := &NotifyResult{Matched: len(matched), Notified: []string{}}
	for i := range matched {
		b := &matched[i]
		if !b.ReadyForProof() {
			result.Skipped++
			continue
		}
		if err := s.writer.Save(s.writer.ProofReady(*b)); err != nil {
			return result, err
		}
		b.ProofSent = true
		if err := s.banners.Update(ctx, b); err != nil {
			return result, fmt.Errorf("notice written for %s but proof_sent not saved: %w", b.HeroName, err)
		}
		result.Notified = append(result.Notified, b.HeroName)
		s.log.Info("proof-ready notice saved", zap.String("hero", b.HeroName), zap.String("file", s.writer.Path()))
	}
	return result, nil
}

// Remind writes payment-pending or print-approved notices for banners whose
// status contains statusFilter. No flag changes.
func (s *NotifyService) Remind(ctx context.Context, kind, statusFilter string) (*NotifyResult, error) {
	var (
		want   func(models.BannerRecord) bool
		render func(models.BannerRecord) string
	)
	switch kind {
	case ReminderPayment:
		want = func(b models.BannerRecord) bool { return b.InfoComplete && !b.PaymentVerified }
		render = s.writer.PaymentPending
	case ReminderPrint:
		want = func(b models.BannerRecord) bool { return b.PrintApproved && !b.SubmittedToPrinter }
		render = s.writer.PrintApproved
	default:
		return nil, fmt.Errorf("unknown reminder kind %q (want %s or %s)", kind, ReminderPayment, ReminderPrint)
	}

	matched, err := s.banners.ListByStatus(ctx, statusFilter)
	if err != nil {
		return nil, err
	}

	result := &NotifyResult{Matched: len(matched), Notified: []string{}}
	for _, b := range matched {
		if !want(b) {
			result.Skipped++
			continue
		}
		if err := s.writer.Save(render(b)); err != nil {
			return result, err
		}
		result.Notified = append(result.Notified, b.HeroName)
	}
	s.log.Info("reminders saved", zap.String("kind", kind), zap.Int("count", len(result.Notified)))
	return result, nil
}

// NotifyIncomplete writes an incomplete-information notice for every hero of
// an import that is missing required fields.
func (s *NotifyService) NotifyIncomplete(ctx context.Context, outcomes []HeroOutcome) (*NotifyResult, error) {
	result := &NotifyResult{Matched: len(outcomes), Notified: []string{}}
	for _, o := range outcomes {
		if len(o.MissingFields) == 0 {
			result.Skipped++
			continue
		}
		b, err := s.banners.Get(ctx, o.BannerID)
		if err != nil {
			return result, fmt.Errorf("failed to load banner for %s: %w", o.HeroName, err)
		}
		if err := s.writer.Save(s.writer.IncompleteInfo(*b, o.MissingFields)); err != nil {
			return result, err
		}
		result.Notified = append(result.Notified, o.HeroName)
	}
	return result, nil
}
