// handlers/admin_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hometownhero/bannerdesk/models"
	"github.com/hometownhero/bannerdesk/services"
)

// BannerReader is the part of the banner service the API exposes.
type BannerReader interface {
	List(ctx context.Context, statusFilter string) ([]models.BannerRecord, error)
	Search(ctx context.Context, text string) ([]models.BannerRecord, error)
	Summary(ctx context.Context) (*services.Summary, error)
}

// ImportHistory lists recorded import runs.
type ImportHistory interface {
	ListImportRuns(ctx context.Context, limit int) ([]models.ImportRun, error)
}

// Pinger reports whether the banner database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// API serves the read-only dashboard endpoints.
type API struct {
	banners BannerReader
	imports ImportHistory
	db      Pinger
	log     *zap.Logger
}

func NewAPI(banners BannerReader, imports ImportHistory, db Pinger, log *zap.Logger) *API {
	if log == nil {
		log = zap.NewNop()
	}
	return &API{banners: banners, imports: imports, db: db, log: log.Named("api")}
}

// Routes registers every endpoint on a new mux.
func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", a.HealthHandler)
	mux.HandleFunc("GET /api/banners", a.ListBannersHandler)
	mux.HandleFunc("GET /api/summary", a.SummaryHandler)
	mux.HandleFunc("GET /api/imports", a.ListImportsHandler)
	return mux
}

// HealthHandler answers 200 while the database is reachable.
func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := a.db.Ping(ctx); err != nil {
		a.log.Warn("health check failed", zap.Error(err))
		a.respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "error",
			"message": "database connection error",
		})
		return
	}
	a.respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		a.log.Error("failed to marshal JSON response", zap.Error(err))
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func (a *API) respondWithError(w http.ResponseWriter, code int, message string) {
	a.log.Warn("API error", zap.Int("code", code), zap.String("message", message))
	a.respondWithJSON(w, code, map[string]string{"error": message})
}
