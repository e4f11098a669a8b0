package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/PSilyDev/survease/internal/model"
	"github.com/PSilyDev/survease/internal/service"
)

// ResponseHandler handles response submission and listing endpoints
type ResponseHandler struct {
	responseSvc *service.ResponseService
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(responseSvc *service.ResponseService) *ResponseHandler {
	return &ResponseHandler{responseSvc: responseSvc}
}

// Submit handles POST /response-api/response
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var doc model.ResponseDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fieldErrs, err := h.responseSvc.Submit(r.Context(), &doc)
	if len(fieldErrs) > 0 {
		writeFieldErrors(w, fieldErrs)
		return
	}
	if errors.Is(err, service.ErrSurveyNotFound) {
		writeError(w, http.StatusNotFound, "survey not found")
		return
	}
	if errors.Is(err, service.ErrNotPublished) {
		writeError(w, http.StatusForbidden, "survey is not accepting responses")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeEnvelope(w, http.StatusCreated, "response recorded", map[string]string{"id": doc.ID})
}

// List handles GET /response-api/responses
func (h *ResponseHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.responseSvc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if docs == nil {
		docs = []model.ResponseDocument{}
	}
	writeEnvelope(w, http.StatusOK, "responses fetched", docs)
}

// Delete handles DELETE /response-api/response/{id}
func (h *ResponseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.responseSvc.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeEnvelope(w, http.StatusOK, "response deleted", nil)
}
