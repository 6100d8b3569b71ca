package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go-collection-api/internal/service"
	"go-collection-api/pkg/apierror"
)

// CollectionHandler serves CRUD for whatever collection the path names.
// The same handler backs both API tiers; gating happens in middleware.
type CollectionHandler struct {
	service *service.CollectionService
}

func NewCollectionHandler(service *service.CollectionService) *CollectionHandler {
	return &CollectionHandler{service: service}
}

func (h *CollectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	fields, err := decodeObject(r)
	if err != nil {
		writeError(w, err)
		return
	}

	record, err := h.service.Create(r.Context(), chi.URLParam(r, "collection"), fields)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context(), chi.URLParam(r, "collection"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

func (h *CollectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	record, err := h.service.Get(r.Context(), chi.URLParam(r, "collection"), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (h *CollectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id, err := recordID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	fields, err := decodeObject(r)
	if err != nil {
		writeError(w, err)
		return
	}

	record, err := h.service.Update(r.Context(), chi.URLParam(r, "collection"), id, fields)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "collection"), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{})
}

func recordID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.BadRequest("record id must be a positive integer", raw)
	}
	return id, nil
}
