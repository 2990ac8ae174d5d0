// Package report reduces record collections into the counts, rates and
// breakdowns behind the dashboard and report views. Every function here is
// a pure reduction: results depend only on the records passed in, never on
// their order, and empty input always yields zero values rather than errors.
package report

import (
	"math"
	"sort"
	"time"

	"github.com/savegress/comptrack/internal/status"
	"github.com/savegress/comptrack/pkg/models"
)

// Count returns how many records satisfy the predicate
func Count[T any](records []T, pred func(T) bool) int {
	n := 0
	for _, r := range records {
		if pred(r) {
			n++
		}
	}
	return n
}

// Rate returns matching as a whole percentage of total, rounded to the
// nearest integer. A zero total yields 0, never a division error.
func Rate(matching, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(matching) / float64(total) * 100))
}

// Bucket is one named slice of a grouped breakdown
type Bucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// ChartBuckets drops zero-count buckets; chart views omit empty slices
// while tabular views keep them.
func ChartBuckets(buckets []Bucket) []Bucket {
	out := make([]Bucket, 0, len(buckets))
	for _, b := range buckets {
		if b.Value > 0 {
			out = append(out, b)
		}
	}
	return out
}

var requirementStatusLabels = map[models.RequirementStatus]string{
	models.RequirementCompliant:    "Compliant",
	models.RequirementInProgress:   "In Progress",
	models.RequirementNonCompliant: "Non-Compliant",
	models.RequirementNeedsReview:  "Needs Review",
}

// RequirementStatusBreakdown partitions requirements by stored status.
// All known statuses appear, including empty buckets; records with an
// unknown status fall outside every bucket.
func RequirementStatusBreakdown(reqs []models.ComplianceRequirement) []Bucket {
	buckets := make([]Bucket, 0, len(models.RequirementStatuses))
	for _, s := range models.RequirementStatuses {
		buckets = append(buckets, Bucket{
			Name:  requirementStatusLabels[s],
			Value: Count(reqs, func(r models.ComplianceRequirement) bool { return r.Status == s }),
		})
	}
	return buckets
}

var regulationTypeLabels = map[models.RegulationType]string{
	models.RegulationHIPAA:      "HIPAA",
	models.RegulationStateBoard: "State Board",
	models.RegulationOSHA:       "OSHA",
	models.RegulationADA:        "ADA",
	models.RegulationHITECH:     "HITECH",
	models.RegulationOther:      "Other",
}

// RegulationTypeBreakdown partitions requirements by regulation type
func RegulationTypeBreakdown(reqs []models.ComplianceRequirement) []Bucket {
	buckets := make([]Bucket, 0, len(models.RegulationTypes))
	for _, rt := range models.RegulationTypes {
		buckets = append(buckets, Bucket{
			Name:  regulationTypeLabels[rt],
			Value: Count(reqs, func(r models.ComplianceRequirement) bool { return r.RegulationType == rt }),
		})
	}
	return buckets
}

// PriorityRow is one row of the priority-by-status cross-tabulation
type PriorityRow struct {
	Priority   string `json:"priority"`
	Pending    int    `json:"pending"`
	InProgress int    `json:"in_progress"`
	Completed  int    `json:"completed"`
}

// TasksByPriority cross-tabulates tasks by priority and stored status.
// Each known priority gets a row even when empty.
func TasksByPriority(tasks []models.ComplianceTask) []PriorityRow {
	rows := make([]PriorityRow, 0, len(models.Priorities))
	for _, p := range models.Priorities {
		byStatus := func(s models.TaskStatus) int {
			return Count(tasks, func(t models.ComplianceTask) bool {
				return t.Priority == p && t.Status == s
			})
		}
		rows = append(rows, PriorityRow{
			Priority:   string(p),
			Pending:    byStatus(models.TaskPending),
			InProgress: byStatus(models.TaskInProgress),
			Completed:  byStatus(models.TaskCompleted),
		})
	}
	return rows
}

// UpcomingTasks returns up to limit open tasks ordered by nearest due date,
// with same-day ties ordered by priority.
// Tasks without a due date and completed tasks are excluded here; they are
// still counted by the other aggregates.
func UpcomingTasks(tasks []models.ComplianceTask, limit int) []models.ComplianceTask {
	upcoming := make([]models.ComplianceTask, 0, len(tasks))
	for _, t := range tasks {
		if t.DueDate == nil || t.DueDate.IsZero() || t.Status == models.TaskCompleted {
			continue
		}
		upcoming = append(upcoming, t)
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		di, dj := upcoming[i].DueDate.Time, upcoming[j].DueDate.Time
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		// Same due date: more urgent priority first, then title so the
		// selection is order-independent
		if ri, rj := upcoming[i].Priority.Rank(), upcoming[j].Priority.Rank(); ri != rj {
			return ri > rj
		}
		return upcoming[i].Title < upcoming[j].Title
	})

	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming
}

// Overview is the dashboard headline block
type Overview struct {
	TotalRequirements int `json:"total_requirements"`
	CompliantCount    int `json:"compliant_count"`
	CriticalCount     int `json:"critical_count"`
	OverdueTasks      int `json:"overdue_tasks"`
	ComplianceRate    int `json:"compliance_rate"`
}

// BuildOverview computes the dashboard headline numbers. The overdue task
// count composes the resolver first and then counts its output, so a task
// stored as pending but past due is included.
func BuildOverview(reqs []models.ComplianceRequirement, tasks []models.ComplianceTask, resolver *status.Resolver, now time.Time) Overview {
	compliant := Count(reqs, func(r models.ComplianceRequirement) bool {
		return r.Status == models.RequirementCompliant
	})
	critical := Count(reqs, func(r models.ComplianceRequirement) bool {
		return r.Priority == models.PriorityCritical && r.Status != models.RequirementCompliant
	})
	overdue := Count(tasks, func(t models.ComplianceTask) bool {
		return resolver.Task(t, now).EffectiveStatus == string(models.TaskOverdue)
	})

	return Overview{
		TotalRequirements: len(reqs),
		CompliantCount:    compliant,
		CriticalCount:     critical,
		OverdueTasks:      overdue,
		ComplianceRate:    Rate(compliant, len(reqs)),
	}
}

// Summary is the full report object, also used as the export artifact
type Summary struct {
	TotalRequirements      int           `json:"total_requirements"`
	CompliantRequirements  int           `json:"compliant_requirements"`
	ComplianceRate         int           `json:"compliance_rate"`
	CriticalIssues         int           `json:"critical_issues"`
	TotalTasks             int           `json:"total_tasks"`
	CompletedTasks         int           `json:"completed_tasks"`
	TaskCompletionRate     int           `json:"task_completion_rate"`
	TotalDocuments         int           `json:"total_documents"`
	ExpiredDocuments       int           `json:"expired_documents"`
	DocumentHealthRate     int           `json:"document_health_rate"`
	TotalTrainings         int           `json:"total_trainings"`
	ExpiredTrainings       int           `json:"expired_trainings"`
	StatusDistribution     []Bucket      `json:"status_distribution"`
	RegulationDistribution []Bucket      `json:"regulation_distribution"`
	TasksByPriority        []PriorityRow `json:"tasks_by_priority"`
	GeneratedAt            time.Time     `json:"generated_at"`
}

// BuildSummary reduces all four collections into the report object.
// Counts here use stored statuses; the expired figures reflect what users
// have recorded, while the dashboard overview layers the resolver on top.
func BuildSummary(
	reqs []models.ComplianceRequirement,
	tasks []models.ComplianceTask,
	docs []models.ComplianceDocument,
	trainings []models.StaffTraining,
	now time.Time,
) Summary {
	compliant := Count(reqs, func(r models.ComplianceRequirement) bool {
		return r.Status == models.RequirementCompliant
	})
	critical := Count(reqs, func(r models.ComplianceRequirement) bool {
		return r.Priority == models.PriorityCritical && r.Status != models.RequirementCompliant
	})
	completed := Count(tasks, func(t models.ComplianceTask) bool {
		return t.Status == models.TaskCompleted
	})
	expiredDocs := Count(docs, func(d models.ComplianceDocument) bool {
		return d.Status == models.DocumentExpired
	})
	expiredTrainings := Count(trainings, func(s models.StaffTraining) bool {
		return s.Status == models.TrainingExpired
	})

	return Summary{
		TotalRequirements:      len(reqs),
		CompliantRequirements:  compliant,
		ComplianceRate:         Rate(compliant, len(reqs)),
		CriticalIssues:         critical,
		TotalTasks:             len(tasks),
		CompletedTasks:         completed,
		TaskCompletionRate:     Rate(completed, len(tasks)),
		TotalDocuments:         len(docs),
		ExpiredDocuments:       expiredDocs,
		DocumentHealthRate:     Rate(len(docs)-expiredDocs, len(docs)),
		TotalTrainings:         len(trainings),
		ExpiredTrainings:       expiredTrainings,
		StatusDistribution:     RequirementStatusBreakdown(reqs),
		RegulationDistribution: RegulationTypeBreakdown(reqs),
		TasksByPriority:        TasksByPriority(tasks),
		GeneratedAt:            now,
	}
}
