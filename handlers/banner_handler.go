// handlers/banner_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/hometownhero/bannerdesk/models"
)

type bannerView struct {
	models.BannerRecord
	Status string `json:"status"`
}

func withStatus(banners []models.BannerRecord) []bannerView {
	out := make([]bannerView, 0, len(banners))
	for _, b := range banners {
		out = append(out, bannerView{BannerRecord: b, Status: b.Status()})
	}
	return out
}

// ListBannersHandler returns banners with their derived status.
// ?status= filters by status substring, ?q= by hero or sponsor name.
func (a *API) ListBannersHandler(w http.ResponseWriter, r *http.Request) {
	var (
		banners []models.BannerRecord
		err     error
	)
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		banners, err = a.banners.Search(r.Context(), q)
	} else {
		banners, err = a.banners.List(r.Context(), r.URL.Query().Get("status"))
	}
	if err != nil {
		a.respondWithError(w, http.StatusInternalServerError, "Failed to load banners: "+err.Error())
		return
	}
	a.respondWithJSON(w, http.StatusOK, withStatus(banners))
}

func (a *API) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	sum, err := a.banners.Summary(r.Context())
	if err != nil {
		a.respondWithError(w, http.StatusInternalServerError, "Failed to build summary: "+err.Error())
		return
	}
	a.respondWithJSON(w, http.StatusOK, sum)
}

// ListImportsHandler returns the import history, newest first. ?limit= caps it.
func (a *API) ListImportsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			a.respondWithError(w, http.StatusBadRequest, "Invalid limit '"+raw+"'. Use a non-negative integer.")
			return
		}
		limit = n
	}

	runs, err := a.imports.ListImportRuns(r.Context(), limit)
	if err != nil {
		a.respondWithError(w, http.StatusInternalServerError, "Failed to load import history: "+err.Error())
		return
	}
	a.respondWithJSON(w, http.StatusOK, runs)
}
