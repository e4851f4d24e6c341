package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hometownhero/bannerdesk/models"
)

func TestImportRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	older := &models.ImportRun{
		ID:                   "run-1",
		HeroSource:           "heroes-may.csv",
		PaymentSource:        "payments-may.csv",
		HeroDataHash:         "aaa",
		TotalHeroes:          56,
		TotalPayments:        40,
		HeroesWithPayment:    40,
		HeroesWithoutPayment: 16,
		BannersUpdated:       56,
		ImportedAt:           time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC),
	}
	newer := &models.ImportRun{
		ID:            "run-2",
		HeroSource:    "heroes-june.csv",
		PaymentSource: "payments-june.csv",
	}
	require.NoError(t, s.RecordImportRun(ctx, older))
	require.NoError(t, s.RecordImportRun(ctx, newer))
	assert.False(t, newer.ImportedAt.IsZero(), "zero timestamp is filled from the clock")

	runs, err := s.ListImportRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "run-1", runs[1].ID)
	assert.Equal(t, "aaa", runs[1].HeroDataHash)
	assert.Equal(t, "", runs[1].PaymentDataHash)
	assert.Equal(t, 56, runs[1].TotalHeroes)
	assert.Equal(t, 16, runs[1].HeroesWithoutPayment)
	assert.True(t, runs[1].ImportedAt.Equal(older.ImportedAt))

	limited, err := s.ListImportRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "run-2", limited[0].ID)
}

func TestImportRunDuplicateIDFails(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	run := &models.ImportRun{ID: "same", HeroSource: "h.csv", PaymentSource: "p.csv"}
	require.NoError(t, s.RecordImportRun(ctx, run))
	err := s.RecordImportRun(ctx, run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "same")
}
