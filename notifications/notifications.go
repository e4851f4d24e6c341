// Package notifications renders sponsor notices and appends them to a plain
// text log that volunteers read and forward by hand.
package notifications

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hometownhero/bannerdesk/models"
)

const rule = "========================================"

// Writer renders notices and appends them to a single file.
type Writer struct {
	path     string
	proofURL string
	now      func() time.Time
	log      *zap.Logger

	mu sync.Mutex
}

func NewWriter(path, proofURL string, log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{
		path:     path,
		proofURL: proofURL,
		now:      time.Now,
		log:      log.Named("notifications"),
	}
}

// Path is the file notices are appended to.
func (w *Writer) Path() string { return w.path }

// ProofReady tells the sponsor a proof is waiting for review.
func (w *Writer) ProofReady(b models.BannerRecord) string {
	var sb strings.Builder
	w.header(&sb, "PROOF READY NOTIFICATION")
	writeContact(&sb, b)
	sb.WriteString("\nYour banner proof is ready for review on the website.\n")
	if w.proofURL != "" {
		fmt.Fprintf(&sb, "Please visit: %s\n", w.proofURL)
	}
	sb.WriteString("\nOnce you review the proof, please provide your approval so we can proceed with printing.\n")
	sb.WriteString("\nIf you have any questions or need changes, please contact us.\n")
	sb.WriteString("\nThank you for supporting our hometown heroes!\n")
	sb.WriteString(rule + "\n")
	return sb.String()
}

// IncompleteInfo lists the fields still missing for a banner.
func (w *Writer) IncompleteInfo(b models.BannerRecord, missing []string) string {
	var sb strings.Builder
	w.header(&sb, "INCOMPLETE INFORMATION")
	writeContact(&sb, b)
	sb.WriteString("\nThe following information is missing for this banner:\n")
	for _, field := range missing {
		fmt.Fprintf(&sb, "  - %s\n", field)
	}
	sb.WriteString("\nPlease provide the missing information to proceed.\n")
	sb.WriteString(rule + "\n")
	return sb.String()
}

func (w *Writer) PaymentPending(b models.BannerRecord) string {
	var sb strings.Builder
	w.header(&sb, "PAYMENT PENDING")
	writeContact(&sb, b)
	sb.WriteString("\nWe have received your banner information, but payment has not been verified.\n")
	sb.WriteString("\nPlease complete payment to proceed with banner production.\n")
	sb.WriteString(rule + "\n")
	return sb.String()
}

func (w *Writer) PrintApproved(b models.BannerRecord) string {
	pole := b.PoleLocation
	if pole == "" {
		pole = "Not assigned"
	}

	var sb strings.Builder
	w.header(&sb, "APPROVED FOR PRINTING")
	fmt.Fprintf(&sb, "Hero Name: %s\nSponsor: %s\nPole Location: %s\n", b.HeroName, b.SponsorName, pole)
	sb.WriteString("\nThis banner has been approved and is ready for printing.\n")
	sb.WriteString(rule + "\n")
	return sb.String()
}

// Save appends one notice block to the file, creating it if needed.
func (w *Writer) Save(message string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open notifications file %s: %w", w.path, err)
	}
	if _, err := f.WriteString(message + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("failed to write notification: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close notifications file: %w", err)
	}
	w.log.Debug("notification saved", zap.String("file", w.path))
	return nil
}

func (w *Writer) header(sb *strings.Builder, title string) {
	fmt.Fprintf(sb, "\n%s\n%s\n%s\nDate: %s\n\n", rule, title, rule, w.now().Format("2006-01-02 15:04:05"))
}

func writeContact(sb *strings.Builder, b models.BannerRecord) {
	fmt.Fprintf(sb, "Hero Name: %s\nSponsor: %s\nEmail: %s\n", b.HeroName, b.SponsorName, b.SponsorEmail)
}
