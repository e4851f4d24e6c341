// services/stores.go
package services

import (
	"context"

	"github.com/hometownhero/bannerdesk/models"
)

// BannerStore is the persistence the services need; *database.Store satisfies it.
type BannerStore interface {
	GetOrCreate(ctx context.Context, heroName, sponsorName string) (*models.BannerRecord, error)
	Get(ctx context.Context, id int64) (*models.BannerRecord, error)
	Update(ctx context.Context, b *models.BannerRecord) error
	ListAll(ctx context.Context) ([]models.BannerRecord, error)
	ListByStatus(ctx context.Context, text string) ([]models.BannerRecord, error)
	FindByHeroName(ctx context.Context, fragment string) ([]models.BannerRecord, error)
	Search(ctx context.Context, text string) ([]models.BannerRecord, error)
	FindBySponsorEmail(ctx context.Context, email string) ([]models.BannerRecord, error)
}

// ImportRunStore keeps the import history.
type ImportRunStore interface {
	RecordImportRun(ctx context.Context, run *models.ImportRun) error
	ListImportRuns(ctx context.Context, limit int) ([]models.ImportRun, error)
}
