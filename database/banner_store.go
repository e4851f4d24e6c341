// database/banner_store.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hometownhero/bannerdesk/models"
)

const bannerColumns = `id, hero_name, sponsor_name, sponsor_email,
	info_complete, payment_verified, documents_verified, photo_verified,
	proof_sent, proof_approved, print_approved, submitted_to_printer, thank_you_sent,
	pole_location, notes, created_at, updated_at`

// GetOrCreate returns the banner for the exact (heroName, sponsorName) pair,
// inserting one with every flag false when none exists. Repeated calls with
// the same pair return the same row.
func (s *Store) GetOrCreate(ctx context.Context, heroName, sponsorName string) (*models.BannerRecord, error) {
	b, err := s.findByIdentity(ctx, heroName, sponsorName)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := s.now()
	res, err := s.db.ExecContext(ctx,
		s.dialect.insertIgnore+` INTO banners (hero_name, sponsor_name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		heroName, sponsorName, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create banner for %s / %s: %w", heroName, sponsorName, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.log.Debug("created banner", zap.String("hero", heroName), zap.String("sponsor", sponsorName))
	}

	b, err = s.findByIdentity(ctx, heroName, sponsorName)
	if err != nil {
		return nil, fmt.Errorf("failed to read back banner for %s / %s: %w", heroName, sponsorName, err)
	}
	return b, nil
}

// Get loads one banner by id.
func (s *Store) Get(ctx context.Context, id int64) (*models.BannerRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bannerColumns+` FROM banners WHERE id = ?`, id)
	b, err := scanBanner(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load banner %d: %w", id, err)
	}
	return b, nil
}

// Update writes every mutable field of b by id and refreshes updated_at.
// An id with no row is not an error; nothing is written.
func (s *Store) Update(ctx context.Context, b *models.BannerRecord) error {
	now := s.now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE banners SET
			sponsor_email = ?,
			info_complete = ?, payment_verified = ?, documents_verified = ?, photo_verified = ?,
			proof_sent = ?, proof_approved = ?, print_approved = ?, submitted_to_printer = ?, thank_you_sent = ?,
			pole_location = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		b.SponsorEmail,
		b.InfoComplete, b.PaymentVerified, b.DocumentsVerified, b.PhotoVerified,
		b.ProofSent, b.ProofApproved, b.PrintApproved, b.SubmittedToPrinter, b.ThankYouSent,
		b.PoleLocation, b.Notes, now,
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update banner %d: %w", b.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		s.log.Debug("update matched no banner", zap.Int64("id", b.ID))
		return nil
	}
	b.UpdatedAt = now
	return nil
}

// ListAll returns every banner, most recently updated first.
func (s *Store) ListAll(ctx context.Context) ([]models.BannerRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+bannerColumns+` FROM banners ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query banners: %w", err)
	}
	defer rows.Close()

	banners := []models.BannerRecord{}
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan banner row: %w", err)
		}
		banners = append(banners, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating banner rows: %w", err)
	}
	return banners, nil
}

// ListByStatus keeps banners whose derived status contains text, ignoring case.
// Status is never stored, so the filter runs over ListAll.
func (s *Store) ListByStatus(ctx context.Context, text string) ([]models.BannerRecord, error) {
	return s.filter(ctx, func(b models.BannerRecord) bool {
		return containsFold(b.Status(), text)
	})
}

// FindByHeroName returns banners whose hero name contains fragment, ignoring case.
func (s *Store) FindByHeroName(ctx context.Context, fragment string) ([]models.BannerRecord, error) {
	return s.filter(ctx, func(b models.BannerRecord) bool {
		return containsFold(b.HeroName, fragment)
	})
}

// Search matches text against hero and sponsor names, ignoring case.
func (s *Store) Search(ctx context.Context, text string) ([]models.BannerRecord, error) {
	return s.filter(ctx, func(b models.BannerRecord) bool {
		return containsFold(b.HeroName, text) || containsFold(b.SponsorName, text)
	})
}

// FindBySponsorEmail returns banners whose sponsor email equals email, ignoring case.
func (s *Store) FindBySponsorEmail(ctx context.Context, email string) ([]models.BannerRecord, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return []models.BannerRecord{}, nil
	}
	return s.filter(ctx, func(b models.BannerRecord) bool {
		return strings.EqualFold(strings.TrimSpace(b.SponsorEmail), email)
	})
}

func (s *Store) findByIdentity(ctx context.Context, heroName, sponsorName string) (*models.BannerRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bannerColumns+` FROM banners WHERE hero_name = ? AND sponsor_name = ?`,
		heroName, sponsorName,
	)
	b, err := scanBanner(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up banner for %s / %s: %w", heroName, sponsorName, err)
	}
	return b, nil
}

func (s *Store) filter(ctx context.Context, keep func(models.BannerRecord) bool) ([]models.BannerRecord, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.BannerRecord{}
	for _, b := range all {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBanner(row rowScanner) (*models.BannerRecord, error) {
	var (
		b                    models.BannerRecord
		email, pole, notes   sql.NullString
		createdAt, updatedAt dbTime
	)
	err := row.Scan(
		&b.ID, &b.HeroName, &b.SponsorName, &email,
		&b.InfoComplete, &b.PaymentVerified, &b.DocumentsVerified, &b.PhotoVerified,
		&b.ProofSent, &b.ProofApproved, &b.PrintApproved, &b.SubmittedToPrinter, &b.ThankYouSent,
		&pole, &notes, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.SponsorEmail = email.String
	b.PoleLocation = pole.String
	b.Notes = notes.String
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time
	return &b, nil
}

// dbTime scans the timestamp shapes both drivers and older databases produce.
type dbTime struct {
	time.Time
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999 -0700 MST",
}

func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("cannot scan %T into a timestamp", src)
	}
}

func (t *dbTime) parse(s string) error {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}
