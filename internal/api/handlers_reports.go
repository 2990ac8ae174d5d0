package api

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/savegress/comptrack/internal/cache"
	"github.com/savegress/comptrack/internal/report"
	"github.com/savegress/comptrack/internal/storage"
)

// OverviewResponse is the dashboard headline payload
type OverviewResponse struct {
	report.Overview
	UpcomingTasks []TaskView `json:"upcoming_tasks"`
}

// DashboardOverview returns the headline stats and the nearest open tasks
func (h *Handlers) DashboardOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now, pinned := asOf(r)

	// Only serve cached payloads for wall-clock requests; a pinned as_of
	// must always be computed fresh.
	if !pinned {
		var cached OverviewResponse
		if h.cache.Get(ctx, cache.KeyOverview, &cached) {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	// Aggregates always run over the full collections; a list limit here
	// would skew the headline numbers.
	reqs, err := h.store.ListRequirements(ctx, storage.ListOptions{})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	tasks, err := h.store.ListTasks(ctx, storage.ListOptions{})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	upcoming := report.UpcomingTasks(tasks, h.upcomingLimit)
	views := make([]TaskView, 0, len(upcoming))
	for _, t := range upcoming {
		views = append(views, TaskView{t, h.resolver.Task(t, now)})
	}

	resp := OverviewResponse{
		Overview:      report.BuildOverview(reqs, tasks, h.resolver, now),
		UpcomingTasks: views,
	}

	if !pinned {
		// best effort; a cache write failure never fails the request
		h.cache.Set(ctx, cache.KeyOverview, resp, cache.TTLOverview)
	}

	writeJSON(w, http.StatusOK, resp)
}

// DashboardChart returns the requirement status distribution with empty
// buckets dropped, ready for pie chart rendering
func (h *Handlers) DashboardChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cached []report.Bucket
	if h.cache.Get(ctx, cache.KeyChart, &cached) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"buckets": cached})
		return
	}

	reqs, err := h.store.ListRequirements(ctx, storage.ListOptions{})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	buckets := report.ChartBuckets(report.RequirementStatusBreakdown(reqs))
	h.cache.Set(ctx, cache.KeyChart, buckets, cache.TTLChart)

	writeJSON(w, http.StatusOK, map[string]interface{}{"buckets": buckets})
}

func (h *Handlers) buildSummary(r *http.Request, now time.Time) (*report.Summary, error) {
	ctx := r.Context()

	reqs, err := h.store.ListRequirements(ctx, storage.ListOptions{})
	if err != nil {
		return nil, err
	}
	tasks, err := h.store.ListTasks(ctx, storage.ListOptions{})
	if err != nil {
		return nil, err
	}
	docs, err := h.store.ListDocuments(ctx, storage.ListOptions{})
	if err != nil {
		return nil, err
	}
	trainings, err := h.store.ListTrainings(ctx, storage.ListOptions{})
	if err != nil {
		return nil, err
	}

	summary := report.BuildSummary(reqs, tasks, docs, trainings, now)
	return &summary, nil
}

// ReportSummary returns the full report metrics
func (h *Handlers) ReportSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now, pinned := asOf(r)

	if !pinned {
		var cached report.Summary
		if h.cache.Get(ctx, cache.KeySummary, &cached) {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	summary, err := h.buildSummary(r, now)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if !pinned {
		h.cache.Set(ctx, cache.KeySummary, summary, cache.TTLSummary)
	}

	writeJSON(w, http.StatusOK, summary)
}

// ExportReport serializes the report summary as a downloadable artifact.
// Supported formats are json (default) and csv.
func (h *Handlers) ExportReport(w http.ResponseWriter, r *http.Request) {
	now, _ := asOf(r)

	summary, err := h.buildSummary(r, now)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	stamp := now.Format("2006-01-02")
	switch r.URL.Query().Get("format") {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="compliance-report-%s.csv"`, stamp))
		if err := writeSummaryCSV(w, summary); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
	default:
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="compliance-report-%s.json"`, stamp))
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(summary)
	}
}

func writeSummaryCSV(w http.ResponseWriter, s *report.Summary) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	rows := [][]string{
		{"section", "metric", "value"},
		{"summary", "total_requirements", strconv.Itoa(s.TotalRequirements)},
		{"summary", "compliant_requirements", strconv.Itoa(s.CompliantRequirements)},
		{"summary", "compliance_rate", strconv.Itoa(s.ComplianceRate)},
		{"summary", "critical_issues", strconv.Itoa(s.CriticalIssues)},
		{"summary", "total_tasks", strconv.Itoa(s.TotalTasks)},
		{"summary", "completed_tasks", strconv.Itoa(s.CompletedTasks)},
		{"summary", "task_completion_rate", strconv.Itoa(s.TaskCompletionRate)},
		{"summary", "total_documents", strconv.Itoa(s.TotalDocuments)},
		{"summary", "expired_documents", strconv.Itoa(s.ExpiredDocuments)},
		{"summary", "document_health_rate", strconv.Itoa(s.DocumentHealthRate)},
		{"summary", "total_trainings", strconv.Itoa(s.TotalTrainings)},
		{"summary", "expired_trainings", strconv.Itoa(s.ExpiredTrainings)},
	}
	for _, b := range s.StatusDistribution {
		rows = append(rows, []string{"status_distribution", b.Name, strconv.Itoa(b.Value)})
	}
	for _, b := range s.RegulationDistribution {
		rows = append(rows, []string{"regulation_distribution", b.Name, strconv.Itoa(b.Value)})
	}
	for _, row := range s.TasksByPriority {
		rows = append(rows,
			[]string{"tasks_by_priority", row.Priority + "_pending", strconv.Itoa(row.Pending)},
			[]string{"tasks_by_priority", row.Priority + "_in_progress", strconv.Itoa(row.InProgress)},
			[]string{"tasks_by_priority", row.Priority + "_completed", strconv.Itoa(row.Completed)},
		)
	}
	rows = append(rows, []string{"summary", "generated_at", s.GeneratedAt.Format(time.RFC3339)})

	return cw.WriteAll(rows)
}
