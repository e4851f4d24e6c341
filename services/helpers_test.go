package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hometownhero/bannerdesk/database"
	"github.com/hometownhero/bannerdesk/models"
)

const (
	heroHeader    = "Status,Name of Buyer,Service Name,Branch,Rank,Service Details,Email,Phone,Image\n"
	paymentHeader = "Your Name,Status,One Banner,Created date,Id\n"
)

func newStore(t *testing.T) *database.Store {
	t.Helper()
	s, err := database.Open(context.Background(), database.DriverSQLite, filepath.Join(t.TempDir(), "hh.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// seed creates a banner and applies mutate before saving it.
func seed(t *testing.T, s *database.Store, hero, sponsor string, mutate func(b *models.BannerRecord)) *models.BannerRecord {
	t.Helper()
	ctx := context.Background()
	b, err := s.GetOrCreate(ctx, hero, sponsor)
	require.NoError(t, err)
	if mutate != nil {
		mutate(b)
	}
	require.NoError(t, s.Update(ctx, b))
	return b
}

func ready(b *models.BannerRecord) {
	b.SponsorEmail = "sponsor@example.com"
	b.InfoComplete = true
	b.PaymentVerified = true
	b.DocumentsVerified = true
	b.PhotoVerified = true
}
