// services/email_service.go
package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hometownhero/bannerdesk/mail"
	"github.com/hometownhero/bannerdesk/models"
)

// ProofMailer is the mailbox the email service works through; *mail.Client satisfies it.
type ProofMailer interface {
	SendProofReady(ctx context.Context, b models.BannerRecord, proofURL string) (string, error)
	ListRecentMessages(ctx context.Context, since time.Time, limit int) ([]mail.Message, error)
	MarkRead(ctx context.Context, id string) error
}

const (
	approvalKeyword = "APPROVE"
	proofSubjectTag = "Hometown Hero Banner Proof"
	inboxScanLimit  = 100
)

// BulkResult counts one bulk send. Failures never stop the batch.
type BulkResult struct {
	Sent    int               `json:"sent"`
	Failed  int               `json:"failed"`
	Skipped int               `json:"skipped"`
	Errors  map[string]string `json:"errors,omitempty"` // hero name -> reason
}

// ApprovalUpdate is one banner changed by an inbox reply.
type ApprovalUpdate struct {
	HeroName     string    `json:"hero_name"`
	SponsorEmail string    `json:"sponsor_email"`
	MessageID    string    `json:"message_id"`
	ReceivedAt   time.Time `json:"received_at"`
}

type EmailService struct {
	banners  BannerStore
	mailer   ProofMailer
	proofURL string
	log      *zap.Logger
	now      func() time.Time
}

func NewEmailService(banners BannerStore, mailer ProofMailer, proofURL string, log *zap.Logger) *EmailService {
	if log == nil {
		log = zap.NewNop()
	}
	return &EmailService{
		banners:  banners,
		mailer:   mailer,
		proofURL: proofURL,
		log:      log.Named("email"),
		now:      time.Now,
	}
}

// SendBulk mails a proof notice to every banner that is ready for proof and
// marks proof_sent on each success. Banners not ready are skipped.
func (s *EmailService) SendBulk(ctx context.Context, banners []models.BannerRecord) (*BulkResult, error) {
	result := &BulkResult{Errors: map[string]string{}}
	for i := range banners {
		b := &banners[i]
		if !b.ReadyForProof() {
			result.Skipped++
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if _, err := s.mailer.SendProofReady(ctx, *b, s.proofURL); err != nil {
			result.Failed++
			result.Errors[b.HeroName] = err.Error()
			s.log.Warn("proof notice failed", zap.String("hero", b.HeroName), zap.Error(err))
			continue
		}

		b.ProofSent = true
		if err := s.banners.Update(ctx, b); err != nil {
			// The sponsor has the mail; report it so the flag can be set by hand.
			result.Failed++
			result.Errors[b.HeroName] = "sent but proof_sent not saved: " + err.Error()
			continue
		}
		result.Sent++
	}
	return result, nil
}

// SendReady runs SendBulk over the banners whose status contains statusFilter.
func (s *EmailService) SendReady(ctx context.Context, statusFilter string) (*BulkResult, error) {
	banners, err := s.banners.ListByStatus(ctx, statusFilter)
	if err != nil {
		return nil, err
	}
	return s.SendBulk(ctx, banners)
}

// CheckApprovals scans replies received in the last days days. A reply
// approves when APPROVE appears in its subject or opens its body; every
// not-yet-approved banner of the sender's email gets proof_approved.
func (s *EmailService) CheckApprovals(ctx context.Context, days int) ([]ApprovalUpdate, error) {
	if days <= 0 {
		days = 7
	}
	since := s.now().AddDate(0, 0, -days)

	messages, err := s.mailer.ListRecentMessages(ctx, since, inboxScanLimit)
	if err != nil {
		return nil, err
	}

	updates := []ApprovalUpdate{}
	for _, m := range messages {
		if !isProofReply(m) || !isApproval(m) || m.From == "" {
			continue
		}

		banners, err := s.banners.FindBySponsorEmail(ctx, m.From)
		if err != nil {
			return updates, err
		}

		changed := false
		for i := range banners {
			b := &banners[i]
			if b.ProofApproved {
				continue
			}
			b.ProofApproved = true
			if err := s.banners.Update(ctx, b); err != nil {
				return updates, err
			}
			changed = true
			updates = append(updates, ApprovalUpdate{
				HeroName:     b.HeroName,
				SponsorEmail: m.From,
				MessageID:    m.ID,
				ReceivedAt:   m.ReceivedAt,
			})
			s.log.Info("proof approved by reply", zap.String("hero", b.HeroName), zap.String("from", m.From))
		}

		if changed && !m.IsRead {
			if err := s.mailer.MarkRead(ctx, m.ID); err != nil {
				s.log.Warn("could not mark approval read", zap.String("message", m.ID), zap.Error(err))
			}
		}
	}
	return updates, nil
}

var (
	// approvalWord captures a leading negation so "not approved" and
	// "disapprove" can be told apart from a plain approval.
	approvalWord = regexp.MustCompile(`(?i)(\bnot\s+|\bnever\s+|n't\s+)?\b(dis|un)?approve[sd]?\b`)
	approvalLead = regexp.MustCompile(`(?i)^\W*approve[sd]?\b`)
)

func isProofReply(m mail.Message) bool {
	return strings.Contains(m.Subject, proofSubjectTag) || strings.Contains(strings.ToUpper(m.Subject), approvalKeyword)
}

func isApproval(m mail.Message) bool {
	return mentionsApproval(m.Subject) || approvalLead.MatchString(mail.FirstLine(m.Body))
}

// mentionsApproval reports whether text carries an approve word that is not negated.
func mentionsApproval(text string) bool {
	for _, match := range approvalWord.FindAllStringSubmatch(text, -1) {
		if match[1] == "" && match[2] == "" {
			return true
		}
	}
	return false
}
