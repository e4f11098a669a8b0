package handler

import (
	"net/http"

	"github.com/PSilyDev/survease/internal/analytics"
	"github.com/PSilyDev/survease/internal/model"
	"github.com/PSilyDev/survease/internal/service"
)

// AnalyticsHandler handles aggregate and export endpoints
type AnalyticsHandler struct {
	analyticsSvc *service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsSvc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

// Aggregate handles GET /analytics-api/aggregate. With ?category= and
// ?survey= it narrows the index to that one survey's aggregate.
func (h *AnalyticsHandler) Aggregate(w http.ResponseWriter, r *http.Request) {
	idx, err := h.analyticsSvc.Index(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	category := r.URL.Query().Get("category")
	survey := r.URL.Query().Get("survey")
	if category != "" && survey != "" {
		key := category + "::" + survey
		agg, ok := idx[key]
		if !ok {
			writeError(w, http.StatusNotFound, "no responses for survey")
			return
		}
		writeEnvelope(w, http.StatusOK, "aggregate computed", map[string]*analytics.SurveyAggregate{key: agg})
		return
	}

	writeEnvelope(w, http.StatusOK, "aggregate computed", idx)
}

// Catalog handles GET /analytics-api/catalog
func (h *AnalyticsHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.analyticsSvc.Catalog(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeEnvelope(w, http.StatusOK, "catalog built", catalog)
}

// ExportCSV handles GET /analytics-api/export.csv
func (h *AnalyticsHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	var filter *analytics.CSVFilter
	category := r.URL.Query().Get("category")
	survey := r.URL.Query().Get("survey")
	if category != "" || survey != "" {
		filter = &analytics.CSVFilter{Category: category, Survey: survey}
	}

	csv, err := h.analyticsSvc.ExportCSV(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	name := "responses"
	if survey != "" {
		name += "-" + model.Slug(survey)
	} else if category != "" {
		name += "-" + model.Slug(category)
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(csv))
}
