package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/PSilyDev/survease/internal/model"
	"github.com/PSilyDev/survease/internal/repository"
	"github.com/PSilyDev/survease/internal/service"
)

// SurveyHandler handles survey definition endpoints
type SurveyHandler struct {
	surveySvc *service.SurveyService
}

// NewSurveyHandler creates a new survey handler
func NewSurveyHandler(surveySvc *service.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveySvc: surveySvc}
}

// CreateSurveyRequest is the request body for creating a survey
type CreateSurveyRequest struct {
	CategoryName string `json:"category_name"`
	SurveyName   string `json:"survey_name"`
}

// ReplaceSurveyRequest is the request body for the replace upsert. The
// surveys list mirrors the category document shape; replace applies each
// entry under the given category.
type ReplaceSurveyRequest struct {
	CategoryName string `json:"category_name"`
	Surveys      []struct {
		SurveyName string           `json:"survey_name"`
		Questions  []model.Question `json:"questions"`
	} `json:"surveys"`
}

// DeleteSurveyRequest identifies the survey to delete
type DeleteSurveyRequest struct {
	CategoryName string `json:"category_name"`
	SurveyName   string `json:"survey_name"`
}

// PublishSurveyRequest identifies the survey to publish
type PublishSurveyRequest struct {
	CategoryName string `json:"category_name"`
	SurveyName   string `json:"survey_name"`
}

// Public handles GET /survey-api/public
func (h *SurveyHandler) Public(w http.ResponseWriter, r *http.Request) {
	categories, err := h.surveySvc.ListPublic(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	writeEnvelope(w, http.StatusOK, "surveys fetched", categories)
}

// Create handles POST /survey-api/createSurvey
func (h *SurveyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fieldErrs, err := h.surveySvc.Create(r.Context(), req.CategoryName, req.SurveyName)
	if len(fieldErrs) > 0 {
		writeFieldErrors(w, fieldErrs)
		return
	}
	if errors.Is(err, repository.ErrSurveyExists) {
		writeError(w, http.StatusConflict, "survey already exists")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeEnvelope(w, http.StatusCreated, "survey created", model.SurveyRef{
		CategoryName: req.CategoryName,
		SurveyName:   req.SurveyName,
	})
}

// Replace handles PUT /survey-api/replaceSurvey
func (h *SurveyHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req ReplaceSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Surveys) == 0 {
		writeError(w, http.StatusBadRequest, "no surveys in request")
		return
	}

	for _, s := range req.Surveys {
		fieldErrs, err := h.surveySvc.Replace(r.Context(), req.CategoryName, s.SurveyName, s.Questions)
		if len(fieldErrs) > 0 {
			writeFieldErrors(w, fieldErrs)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	writeEnvelope(w, http.StatusOK, "survey replaced", nil)
}

// Delete handles DELETE /survey-api/survey
func (h *SurveyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req DeleteSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.surveySvc.Delete(r.Context(), req.CategoryName, req.SurveyName)
	if errors.Is(err, service.ErrSurveyNotFound) {
		writeError(w, http.StatusNotFound, "survey not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeEnvelope(w, http.StatusOK, "survey deleted", nil)
}

// Publish handles POST /survey-api/publish
func (h *SurveyHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var req PublishSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	shareID, err := h.surveySvc.Publish(r.Context(), req.CategoryName, req.SurveyName)
	if errors.Is(err, service.ErrSurveyNotFound) {
		writeError(w, http.StatusNotFound, "survey not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeEnvelope(w, http.StatusOK, "survey published", map[string]string{"shareId": shareID})
}

// ResolveShare handles GET /survey-api/share/{shareId}
func (h *SurveyHandler) ResolveShare(w http.ResponseWriter, r *http.Request) {
	shareID := mux.Vars(r)["shareId"]

	ref, err := h.surveySvc.Resolve(r.Context(), shareID)
	if errors.Is(err, service.ErrShareNotFound) {
		writeError(w, http.StatusNotFound, "share token not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeEnvelope(w, http.StatusOK, "share resolved", ref)
}
