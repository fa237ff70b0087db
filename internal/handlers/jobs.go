package handlers

import (
	"net/http"
	"strconv"

	"talenthub/internal/auth"
	"talenthub/internal/logger"
	"talenthub/models"

	"github.com/go-chi/chi/v5"
)

const idParam = "_id"

// GetJobsHandler: GET /api/jobs?category=&email=&page=&pageSize=.
func (h *Handler) GetJobsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := models.JobFilter{
		Category:   query.Get("category"),
		OwnerEmail: query.Get("email"),
	}
	page := parsePage(r)

	jobs, err := h.Store.ListJobs(r.Context(), filter, page)
	if err != nil {
		writeError(w, r, err)
		return
	}

	_ = writeJSON(w, jobs, http.StatusOK)
}

// parsePage reads page and pageSize. Anything that is not a positive
// integer falls back to the default.
func parsePage(r *http.Request) models.Page {
	return models.Page{
		Number: positiveInt(r.URL.Query().Get("page"), models.DefaultPageNumber),
		Size:   positiveInt(r.URL.Query().Get("pageSize"), models.DefaultPageSize),
	}
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func (h *Handler) GetJobHandler(w http.ResponseWriter, r *http.Request) {
	job, err := h.Store.GetJob(r.Context(), chi.URLParam(r, idParam))
	if err != nil {
		writeError(w, r, err)
		return
	}

	_ = writeJSON(w, job, http.StatusOK)
}

// CreateJobHandler: POST /api/job. Тело сохраняется как есть.
func (h *Handler) CreateJobHandler(w http.ResponseWriter, r *http.Request) {
	var job models.Document
	if err := decodeJSON(w, r, &job); err != nil {
		writeError(w, r, err)
		return
	}
	if job == nil {
		job = models.Document{}
	}

	result, err := h.Store.CreateJob(r.Context(), job)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Info().
		Str("job_id", result.InsertedID).
		Str("user", requestEmail(r)).
		Msg("job created")

	_ = writeJSON(w, result, http.StatusOK)
}

// UpdateJobHandler: PUT /api/job/{_id}. Читаются только пять изменяемых
// полей; для неизвестного id заказ создаётся.
func (h *Handler) UpdateJobHandler(w http.ResponseWriter, r *http.Request) {
	var update models.JobUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.Store.UpdateJob(r.Context(), chi.URLParam(r, idParam), update)
	if err != nil {
		writeError(w, r, err)
		return
	}

	_ = writeJSON(w, result, http.StatusOK)
}

func (h *Handler) DeleteJobHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, idParam)
	if err := h.Store.DeleteJob(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Info().Str("job_id", id).Str("user", requestEmail(r)).Msg("job deleted")

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Job deleted successfully"))
}

// requestEmail: email проверенной личности, если он есть.
func requestEmail(r *http.Request) string {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return ""
	}
	return identity.Email()
}
