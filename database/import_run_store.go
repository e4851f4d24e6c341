// database/import_run_store.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/hometownhero/bannerdesk/models"
)

// RecordImportRun logs one import of a hero export and a payment export,
// including the file hashes so a rerun of identical files can be spotted.
func (s *Store) RecordImportRun(ctx context.Context, run *models.ImportRun) error {
	if run.ImportedAt.IsZero() {
		run.ImportedAt = s.now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO import_runs (
			id, hero_source, payment_source, hero_data_hash, payment_data_hash,
			total_heroes, total_payments, heroes_with_payment, heroes_without_payment,
			payments_without_hero, banners_updated, imported_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.HeroSource, run.PaymentSource,
		nullString(run.HeroDataHash), nullString(run.PaymentDataHash),
		run.TotalHeroes, run.TotalPayments, run.HeroesWithPayment, run.HeroesWithoutPayment,
		run.PaymentsWithoutHero, run.BannersUpdated, run.ImportedAt,
	)
	if err != nil {
		s.log.Error("failed to record import run", zap.String("id", run.ID), zap.Error(err))
		return fmt.Errorf("failed to record import run %s: %w", run.ID, err)
	}

	s.log.Info("recorded import run",
		zap.String("id", run.ID),
		zap.Int("heroes", run.TotalHeroes),
		zap.Int("payments", run.TotalPayments),
		zap.Int("banners_updated", run.BannersUpdated))
	return nil
}

// ListImportRuns returns recorded imports, newest first. limit <= 0 means all.
func (s *Store) ListImportRuns(ctx context.Context, limit int) ([]models.ImportRun, error) {
	query := `
		SELECT id, hero_source, payment_source, hero_data_hash, payment_data_hash,
		       total_heroes, total_payments, heroes_with_payment, heroes_without_payment,
		       payments_without_hero, banners_updated, imported_at
		FROM import_runs
		ORDER BY imported_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query import_runs: %w", err)
	}
	defer rows.Close()

	runs := []models.ImportRun{}
	for rows.Next() {
		var (
			r                 models.ImportRun
			heroHash, payHash sql.NullString
			importedAt        dbTime
		)
		err := rows.Scan(
			&r.ID, &r.HeroSource, &r.PaymentSource, &heroHash, &payHash,
			&r.TotalHeroes, &r.TotalPayments, &r.HeroesWithPayment, &r.HeroesWithoutPayment,
			&r.PaymentsWithoutHero, &r.BannersUpdated, &importedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import run row: %w", err)
		}
		r.HeroDataHash = heroHash.String
		r.PaymentDataHash = payHash.String
		r.ImportedAt = importedAt.Time
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating import run rows: %w", err)
	}
	return runs, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
