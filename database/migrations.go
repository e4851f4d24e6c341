// database/migrations.go
package database

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/hometownhero/bannerdesk/models"
)

type dialect struct {
	name         string
	insertIgnore string
	createTables map[string]string
	columnExists string
	indexExists  string
}

var sqliteDialect = dialect{
	name:         DriverSQLite,
	insertIgnore: "INSERT OR IGNORE",
	columnExists: `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
	indexExists:  `SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND tbl_name = ? AND name = ?`,
	createTables: map[string]string{
		"schema_migrations": `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version INTEGER PRIMARY KEY,
				name TEXT NOT NULL,
				applied_at DATETIME NOT NULL
			)`,
		"banners": `
			CREATE TABLE IF NOT EXISTS banners (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				hero_name TEXT NOT NULL,
				sponsor_name TEXT NOT NULL,
				sponsor_email TEXT,
				info_complete BOOLEAN NOT NULL DEFAULT 0,
				payment_verified BOOLEAN NOT NULL DEFAULT 0,
				proof_sent BOOLEAN NOT NULL DEFAULT 0,
				proof_approved BOOLEAN NOT NULL DEFAULT 0,
				print_approved BOOLEAN NOT NULL DEFAULT 0,
				pole_location TEXT,
				notes TEXT,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		"import_runs": `
			CREATE TABLE IF NOT EXISTS import_runs (
				id TEXT PRIMARY KEY,
				hero_source TEXT NOT NULL,
				payment_source TEXT NOT NULL,
				hero_data_hash TEXT,
				payment_data_hash TEXT,
				total_heroes INTEGER NOT NULL DEFAULT 0,
				total_payments INTEGER NOT NULL DEFAULT 0,
				heroes_with_payment INTEGER NOT NULL DEFAULT 0,
				heroes_without_payment INTEGER NOT NULL DEFAULT 0,
				payments_without_hero INTEGER NOT NULL DEFAULT 0,
				banners_updated INTEGER NOT NULL DEFAULT 0,
				imported_at DATETIME NOT NULL
			)`,
	},
}

var mysqlDialect = dialect{
	name:         DriverMySQL,
	insertIgnore: "INSERT IGNORE",
	columnExists: `SELECT COUNT(*) FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND COLUMN_NAME = ?`,
	indexExists:  `SELECT COUNT(*) FROM information_schema.STATISTICS WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND INDEX_NAME = ?`,
	createTables: map[string]string{
		"schema_migrations": `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version INT PRIMARY KEY,
				name VARCHAR(100) NOT NULL,
				applied_at DATETIME(6) NOT NULL
			)`,
		"banners": `
			CREATE TABLE IF NOT EXISTS banners (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				hero_name VARCHAR(255) COLLATE utf8mb4_bin NOT NULL,
				sponsor_name VARCHAR(255) COLLATE utf8mb4_bin NOT NULL,
				sponsor_email VARCHAR(255) NULL,
				info_complete BOOLEAN NOT NULL DEFAULT 0,
				payment_verified BOOLEAN NOT NULL DEFAULT 0,
				proof_sent BOOLEAN NOT NULL DEFAULT 0,
				proof_approved BOOLEAN NOT NULL DEFAULT 0,
				print_approved BOOLEAN NOT NULL DEFAULT 0,
				pole_location VARCHAR(255) NULL,
				notes TEXT NULL,
				created_at DATETIME(6) NOT NULL,
				updated_at DATETIME(6) NOT NULL
			) DEFAULT CHARSET=utf8mb4`,
		"import_runs": `
			CREATE TABLE IF NOT EXISTS import_runs (
				id CHAR(36) PRIMARY KEY,
				hero_source VARCHAR(1024) NOT NULL,
				payment_source VARCHAR(1024) NOT NULL,
				hero_data_hash CHAR(64) NULL,
				payment_data_hash CHAR(64) NULL,
				total_heroes INT NOT NULL DEFAULT 0,
				total_payments INT NOT NULL DEFAULT 0,
				heroes_with_payment INT NOT NULL DEFAULT 0,
				heroes_without_payment INT NOT NULL DEFAULT 0,
				payments_without_hero INT NOT NULL DEFAULT 0,
				banners_updated INT NOT NULL DEFAULT 0,
				imported_at DATETIME(6) NOT NULL
			) DEFAULT CHARSET=utf8mb4`,
	},
}

type migration struct {
	version int
	name    string
	apply   func(ctx context.Context, s *Store) error
}

// migrations only ever grow. Each step must be safe to rerun against a
// database that was created by an older build without schema_migrations.
var migrations = []migration{
	{1, "create banners", func(ctx context.Context, s *Store) error {
		return s.createTable(ctx, "banners")
	}},
	{2, "add verification flags", func(ctx context.Context, s *Store) error {
		return s.addFlagColumns(ctx, "documents_verified", "photo_verified")
	}},
	{3, "add production flags", func(ctx context.Context, s *Store) error {
		return s.addFlagColumns(ctx, "submitted_to_printer", "thank_you_sent")
	}},
	{4, "create import runs", func(ctx context.Context, s *Store) error {
		return s.createTable(ctx, "import_runs")
	}},
	{5, "unique banner identity", func(ctx context.Context, s *Store) error {
		if err := s.mergeDuplicateBanners(ctx); err != nil {
			return err
		}
		return s.createIdentityIndex(ctx)
	}},
}

const identityIndex = "uq_banners_identity"

// LatestSchemaVersion is the version Migrate brings a database to.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// Migrate applies every migration newer than the recorded schema version.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.createTable(ctx, "schema_migrations"); err != nil {
		return err
	}

	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := m.apply(ctx, s); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.name, err)
		}
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
			m.version, m.name, s.now(),
		); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
		s.log.Info("applied schema migration", zap.Int("version", m.version), zap.String("name", m.name))
	}
	return nil
}

// SchemaVersion returns the highest applied migration, 0 for a fresh database.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

func (s *Store) createTable(ctx context.Context, table string) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.createTables[table]); err != nil {
		return fmt.Errorf("failed to create %s table: %w", table, err)
	}
	return nil
}

func (s *Store) addFlagColumns(ctx context.Context, columns ...string) error {
	for _, column := range columns {
		exists, err := s.columnExists(ctx, "banners", column)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE banners ADD COLUMN %s BOOLEAN NOT NULL DEFAULT 0", column)
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to add column %s: %w", column, err)
		}
		s.log.Debug("added banner column", zap.String("column", column))
	}
	return nil
}

func (s *Store) columnExists(ctx context.Context, table, column string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, s.dialect.columnExists, table, column).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to inspect %s.%s: %w", table, column, err)
	}
	return n > 0, nil
}

func (s *Store) createIdentityIndex(ctx context.Context) error {
	var n int
	if err := s.db.QueryRowContext(ctx, s.dialect.indexExists, "banners", identityIndex).Scan(&n); err != nil {
		return fmt.Errorf("failed to inspect index %s: %w", identityIndex, err)
	}
	if n > 0 {
		return nil
	}
	stmt := fmt.Sprintf("CREATE UNIQUE INDEX %s ON banners (hero_name, sponsor_name)", identityIndex)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create index %s: %w", identityIndex, err)
	}
	return nil
}

type bannerIdentity struct {
	hero, sponsor string
}

// mergeDuplicateBanners folds rows sharing a (hero_name, sponsor_name) pair
// into the oldest one. Databases written before the identity index existed
// can hold such rows.
func (s *Store) mergeDuplicateBanners(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hero_name, sponsor_name FROM banners
		GROUP BY hero_name, sponsor_name
		HAVING COUNT(*) > 1`)
	if err != nil {
		return fmt.Errorf("failed to look for duplicate banners: %w", err)
	}
	var pairs []bannerIdentity
	for rows.Next() {
		var p bannerIdentity
		if err := rows.Scan(&p.hero, &p.sponsor); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan duplicate banner pair: %w", err)
		}
		pairs = append(pairs, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating duplicate banner pairs: %w", err)
	}

	for _, p := range pairs {
		if err := s.mergeIdentity(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) mergeIdentity(ctx context.Context, p bannerIdentity) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bannerColumns+` FROM banners WHERE hero_name = ? AND sponsor_name = ? ORDER BY id`,
		p.hero, p.sponsor)
	if err != nil {
		return fmt.Errorf("failed to load duplicates of %s / %s: %w", p.hero, p.sponsor, err)
	}
	var dups []models.BannerRecord
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan duplicate banner: %w", err)
		}
		dups = append(dups, *b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating duplicate banners: %w", err)
	}
	if len(dups) < 2 {
		return nil
	}

	kept := mergeBanners(dups)
	if err := s.Update(ctx, &kept); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM banners WHERE hero_name = ? AND sponsor_name = ? AND id <> ?`,
		p.hero, p.sponsor, kept.ID,
	); err != nil {
		return fmt.Errorf("failed to remove duplicates of %s / %s: %w", p.hero, p.sponsor, err)
	}

	s.log.Warn("merged duplicate banners",
		zap.String("hero", p.hero),
		zap.String("sponsor", p.sponsor),
		zap.Int64("kept", kept.ID),
		zap.Int("removed", len(dups)-1))
	return nil
}

// mergeBanners combines rows of one identity, oldest first. Flags set on any
// row stay set; empty text fields take the first non-empty value from a later
// row; distinct notes are joined.
func mergeBanners(dups []models.BannerRecord) models.BannerRecord {
	kept := dups[0]
	notes := []string{}
	if kept.Notes != "" {
		notes = append(notes, kept.Notes)
	}
	for _, d := range dups[1:] {
		kept.InfoComplete = kept.InfoComplete || d.InfoComplete
		kept.PaymentVerified = kept.PaymentVerified || d.PaymentVerified
		kept.DocumentsVerified = kept.DocumentsVerified || d.DocumentsVerified
		kept.PhotoVerified = kept.PhotoVerified || d.PhotoVerified
		kept.ProofSent = kept.ProofSent || d.ProofSent
		kept.ProofApproved = kept.ProofApproved || d.ProofApproved
		kept.PrintApproved = kept.PrintApproved || d.PrintApproved
		kept.SubmittedToPrinter = kept.SubmittedToPrinter || d.SubmittedToPrinter
		kept.ThankYouSent = kept.ThankYouSent || d.ThankYouSent
		if kept.SponsorEmail == "" {
			kept.SponsorEmail = d.SponsorEmail
		}
		if kept.PoleLocation == "" {
			kept.PoleLocation = d.PoleLocation
		}
		if d.Notes != "" && !slices.Contains(notes, d.Notes) {
			notes = append(notes, d.Notes)
		}
	}
	kept.Notes = strings.Join(notes, "; ")
	return kept
}
