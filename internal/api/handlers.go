package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/savegress/comptrack/internal/cache"
	"github.com/savegress/comptrack/internal/filter"
	"github.com/savegress/comptrack/internal/status"
	"github.com/savegress/comptrack/internal/storage"
	"github.com/savegress/comptrack/pkg/models"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	store         storage.RecordStore
	cache         *cache.Cache
	resolver      *status.Resolver
	upcomingLimit int
}

// Response helpers

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(Response{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(Response{Success: false, Error: message})
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Record not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// criteriaFromQuery maps list query parameters onto filter criteria
func criteriaFromQuery(r *http.Request) filter.Criteria {
	q := r.URL.Query()
	return filter.Criteria{
		Search:   q.Get("search"),
		Status:   q.Get("status"),
		Type:     q.Get("type"),
		Priority: q.Get("priority"),
	}
}

func listOptions(r *http.Request) storage.ListOptions {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return storage.ListOptions{Limit: limit}
}

// asOf returns the reference instant for temporal resolution. Callers may
// pin it with ?as_of=YYYY-MM-DD; otherwise the request time is used.
func asOf(r *http.Request) (time.Time, bool) {
	if v := r.URL.Query().Get("as_of"); v != "" {
		if d, err := models.ParseDate(v); err == nil {
			return d.Time, true
		}
	}
	return time.Now().UTC(), false
}

// HealthCheck returns the health status
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Requirements

// RequirementView is a requirement plus its resolved status
type RequirementView struct {
	models.ComplianceRequirement
	status.Resolution
}

// ListRequirements returns requirements matching the view filters
func (h *Handlers) ListRequirements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now, _ := asOf(r)

	reqs, err := h.store.ListRequirements(ctx, listOptions(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	criteria := criteriaFromQuery(r)
	matched := filter.Apply(reqs, func(q models.ComplianceRequirement) bool {
		return filter.Requirement(q, criteria)
	})

	views := make([]RequirementView, 0, len(matched))
	for _, q := range matched {
		views = append(views, RequirementView{q, h.resolver.Requirement(q, now)})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"requirements": views,
		"count":        len(views),
	})
}

// GetRequirement returns a single requirement
func (h *Handlers) GetRequirement(w http.ResponseWriter, r *http.Request) {
	now, _ := asOf(r)
	req, err := h.store.GetRequirement(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RequirementView{*req, h.resolver.Requirement(*req, now)})
}

// CreateRequirement stores a new requirement
func (h *Handlers) CreateRequirement(w http.ResponseWriter, r *http.Request) {
	var req models.ComplianceRequirement
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if err := h.store.CreateRequirement(r.Context(), &req); err != nil {
		writeStoreError(w, err)
		return
	}
	h.invalidateAggregates(r)
	writeJSON(w, http.StatusCreated, req)
}

// UpdateRequirement replaces a stored requirement
func (h *Handlers) UpdateRequirement(w http.ResponseWriter, r *http.Request) {
	var req models.ComplianceRequirement
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.ID = chi.URLParam(r, "id")
	if err := h.store.UpdateRequirement(r.Context(), &req); err != nil {
		writeStoreError(w, err)
		return
	}
	h.invalidateAggregates(r)
	writeJSON(w, http.StatusOK, req)
}

// DeleteRequirement removes a requirement
func (h *Handlers) DeleteRequirement(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteRequirement(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	h.invalidateAggregates(r)
	writeJSON(w, http.StatusOK, map[string]string{"deleted": chi.URLParam(r, "id")})
}

// Tasks

// TaskView is a task plus its resolved status
type TaskView struct {
	models.ComplianceTask
	status.Resolution
}

// ListTasks returns tasks matching the view filters
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now, _ := asOf(r)

	tasks, err := h.store.ListTasks(ctx, listOptions(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	criteria := criteriaFromQuery(r)
	matched := filter.Apply(tasks, func(t models.ComplianceTask) bool {
		return filter.Task(t, criteria)
	})

	views := make([]TaskView, 0, len(matched))
	for _, t := range matched {
		views = append(views, TaskView{t, h.resolver.Task(t, now)})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tasks": views,
		"count": len(views),
	})
}

// GetTask returns a single task
func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	now, _ := asOf(r)
	task, err := h.store.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TaskView{*task, h.resolver.Task(*task, now)})
}

// CreateTask stores a new task
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	var task models.ComplianceTask
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if task.Title == "" || task.AssignedTo == "" {
		writeError(w, http.StatusBadRequest, "title and assigned_to are required")
		return
	}
	if err := h.store.CreateTask(r.Context(), &task); err != nil {
		writeStoreError(w, err)
		return
	}
	h.invalidateAggregates(r)
	writeJSON(w, http.StatusCreated, task)
}

// UpdateTask replaces a stored task
func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var task models.ComplianceTask
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	task.ID = chi.URLParam(r, "id")
	if err := h.store.UpdateTask(r.Context(), &task); err != nil {
		writeStoreError(w, err)
		return
	}
	h.invalidateAggregates(r)
	writeJSON(w, http.StatusOK, task)
}

// DeleteTask removes a task
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	h.invalidateAggregates(r)
	writeJSON(w, http.StatusOK, map[string]string{"deleted": chi.URLParam(r, "id")})
}

// Documents

// DocumentView is a document plus its resolved status
type DocumentView struct {
	models.ComplianceDocument
	status.Resolution
}

// ListDocuments returns documents matching the view filters
func (h *Handlers) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now, _ := asOf(r)

	docs, err := h.store.ListDocuments(ctx, listOptions(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	criteria := criteriaFromQuery(r)
	matched := filter.Apply(docs, func(d models.ComplianceDocument) bool {
		return filter.Document(d, criteria)
	})

	views := make([]DocumentView, 0, len(matched))
	for _, d := range matched {
		views = append(views, DocumentView{d, h.resolver.Document(d, now)})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"documents": views,
		"count":     len(views),
	})
}

// GetDocument returns a single document
func (h *Handlers) GetDocument(w http.ResponseWriter, r *http.Request) {
	now, _ := asOf(r)
	doc, err := h.store.GetDocument(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DocumentView{*doc, h.resolver.Document(*doc, now)})
}

// CreateDocument stores a new document
func (h *Handlers) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var doc models.ComplianceDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if doc.Name == "" || doc.DocumentType == "" {
		writeError(w, http.StatusBadRequest, "name and document_type are required")
		return
	}
	if err := h.store.CreateDocument(r.Context(), &doc); err != nil {
		writeStoreError(w, err)
		return
	}
	h.invalidateAggregates(r)
	writeJSON(w, http.StatusCreated, doc)
}

// UpdateDocument replaces a stored document
func (h *Handlers) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	var doc models.ComplianceDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	doc.ID = chi.URLParam(r, "id")
	if err := h.store.UpdateDocument(r.Context(), &doc); err != nil {
		writeStoreError(w, err)
		return
	}
	h.invalidateAggregates(r)
	writeJSON(w, http.StatusOK, doc)
}

// DeleteDocument removes a document
func (h *Handlers) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteDocument(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	h.invalidateAggregates(r)
	writeJSON(w, http.StatusOK, map[string]string{"deleted": chi.URLParam(r, "id")})
}

// Trainings

// TrainingView is a training record plus its resolved status
type TrainingView struct {
	models.StaffTraining
	status.Resolution
}

// ListTrainings returns training records matching the view filters
func (h *Handlers) ListTrainings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now, _ := asOf(r)

	trainings, err := h.store.ListTrainings(ctx, listOptions(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	criteria := criteriaFromQuery(r)
	matched := filter.Apply(trainings, func(s models.StaffTraining) bool {
		return filter.Training(s, criteria)
	})

	views := make([]TrainingView, 0, len(matched))
	for _, s := range matched {
		views = append(views, TrainingView{s, h.resolver.Training(s, now)})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"trainings": views,
		"count":     len(views),
	})
}

// GetTraining returns a single training record
func (h *Handlers) GetTraining(w http.ResponseWriter, r *http.Request) {
	now, _ := asOf(r)
	training, err := h.store.GetTraining(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TrainingView{*training, h.resolver.Training(*training, now)})
}

// CreateTraining stores a new training record
func (h *Handlers) CreateTraining(w http.ResponseWriter, r *http.Request) {
	var training models.StaffTraining
	if err := json.NewDecoder(r.Body).Decode(&training); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if training.StaffEmail == "" || training.TrainingTitle == "" {
		writeError(w, http.StatusBadRequest, "staff_email and training_title are required")
		return
	}
	if err := h.store.CreateTraining(r.Context(), &training); err != nil {
		writeStoreError(w, err)
		return
	}
	h.invalidateAggregates(r)
	writeJSON(w, http.StatusCreated, training)
}

// UpdateTraining replaces a stored training record
func (h *Handlers) UpdateTraining(w http.ResponseWriter, r *http.Request) {
	var training models.StaffTraining
	if err := json.NewDecoder(r.Body).Decode(&training); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	training.ID = chi.URLParam(r, "id")
	if err := h.store.UpdateTraining(r.Context(), &training); err != nil {
		writeStoreError(w, err)
		return
	}
	h.invalidateAggregates(r)
	writeJSON(w, http.StatusOK, training)
}

// DeleteTraining removes a training record
func (h *Handlers) DeleteTraining(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteTraining(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	h.invalidateAggregates(r)
	writeJSON(w, http.StatusOK, map[string]string{"deleted": chi.URLParam(r, "id")})
}

func (h *Handlers) invalidateAggregates(r *http.Request) {
	h.cache.Invalidate(r.Context(), cache.KeyOverview, cache.KeyChart, cache.KeySummary)
}
