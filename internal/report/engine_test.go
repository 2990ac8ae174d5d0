package report

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/savegress/comptrack/internal/status"
	"github.com/savegress/comptrack/pkg/models"
)

var testNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func datePtr(d models.Date) *models.Date {
	return &d
}

func TestRate(t *testing.T) {
	tests := []struct {
		name     string
		matching int
		total    int
		want     int
	}{
		{"nine of fifteen", 9, 15, 60},
		{"all matching", 10, 10, 100},
		{"none matching", 0, 7, 0},
		{"empty collection", 0, 0, 0},
		{"rounds up", 2, 3, 67},
		{"rounds down", 1, 3, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rate(tt.matching, tt.total)
			if got != tt.want {
				t.Errorf("Rate(%d, %d) = %d, want %d", tt.matching, tt.total, got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("Rate(%d, %d) = %d outside [0,100]", tt.matching, tt.total, got)
			}
		})
	}
}

func TestCount(t *testing.T) {
	tasks := []models.ComplianceTask{
		{Status: models.TaskCompleted},
		{Status: models.TaskPending},
		{Status: models.TaskCompleted},
	}

	got := Count(tasks, func(t models.ComplianceTask) bool { return t.Status == models.TaskCompleted })
	if got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}

	if Count([]models.ComplianceTask{}, func(models.ComplianceTask) bool { return true }) != 0 {
		t.Error("Count over empty collection should be 0")
	}
}

func TestRequirementStatusBreakdown(t *testing.T) {
	reqs := []models.ComplianceRequirement{
		{Status: models.RequirementCompliant},
		{Status: models.RequirementCompliant},
		{Status: models.RequirementInProgress},
		{Status: "mystery_state"},
	}

	buckets := RequirementStatusBreakdown(reqs)
	if len(buckets) != 4 {
		t.Fatalf("breakdown has %d buckets, want 4 (zero buckets retained)", len(buckets))
	}

	sum := 0
	for _, b := range buckets {
		sum += b.Value
	}
	// Sum of buckets is collection size minus unknown-status records
	if sum != len(reqs)-1 {
		t.Errorf("bucket sum = %d, want %d", sum, len(reqs)-1)
	}

	charted := ChartBuckets(buckets)
	if len(charted) != 2 {
		t.Errorf("chart output has %d buckets, want 2 (zero buckets dropped)", len(charted))
	}
}

func TestRegulationTypeBreakdown(t *testing.T) {
	reqs := []models.ComplianceRequirement{
		{RegulationType: models.RegulationHIPAA},
		{RegulationType: models.RegulationHIPAA},
		{RegulationType: models.RegulationOSHA},
	}

	buckets := ChartBuckets(RegulationTypeBreakdown(reqs))
	want := []Bucket{{Name: "HIPAA", Value: 2}, {Name: "OSHA", Value: 1}}
	if !reflect.DeepEqual(buckets, want) {
		t.Errorf("RegulationTypeBreakdown() = %+v, want %+v", buckets, want)
	}
}

func TestTasksByPriority(t *testing.T) {
	tasks := []models.ComplianceTask{
		{Priority: models.PriorityCritical, Status: models.TaskPending},
		{Priority: models.PriorityCritical, Status: models.TaskCompleted},
		{Priority: models.PriorityLow, Status: models.TaskInProgress},
	}

	rows := TasksByPriority(tasks)
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want one per priority", len(rows))
	}
	if rows[0].Priority != "critical" || rows[0].Pending != 1 || rows[0].Completed != 1 {
		t.Errorf("critical row = %+v", rows[0])
	}
	if rows[3].Priority != "low" || rows[3].InProgress != 1 {
		t.Errorf("low row = %+v", rows[3])
	}
	if rows[1].Pending+rows[1].InProgress+rows[1].Completed != 0 {
		t.Errorf("high row should be empty, got %+v", rows[1])
	}
}

func TestUpcomingTasks(t *testing.T) {
	tasks := []models.ComplianceTask{
		{Title: "far", DueDate: datePtr(models.NewDate(2026, time.September, 1)), Status: models.TaskPending},
		{Title: "dateless", Status: models.TaskPending},
		{Title: "soon", DueDate: datePtr(models.NewDate(2026, time.June, 20)), Status: models.TaskPending},
		{Title: "done", DueDate: datePtr(models.NewDate(2026, time.June, 16)), Status: models.TaskCompleted},
		{Title: "middle", DueDate: datePtr(models.NewDate(2026, time.July, 10)), Status: models.TaskInProgress},
	}

	got := UpcomingTasks(tasks, 2)
	if len(got) != 2 {
		t.Fatalf("got %d tasks, want 2", len(got))
	}
	if got[0].Title != "soon" || got[1].Title != "middle" {
		t.Errorf("order = [%s, %s], want [soon, middle]", got[0].Title, got[1].Title)
	}
}

func TestUpcomingTasksPriorityTieBreak(t *testing.T) {
	due := datePtr(models.NewDate(2026, time.June, 20))
	tasks := []models.ComplianceTask{
		{Title: "audit", DueDate: due, Priority: models.PriorityLow, Status: models.TaskPending},
		{Title: "backup", DueDate: due, Priority: models.PriorityCritical, Status: models.TaskPending},
		{Title: "review", DueDate: due, Priority: models.PriorityHigh, Status: models.TaskPending},
	}

	got := UpcomingTasks(tasks, 0)
	want := []string{"backup", "review", "audit"}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("got[%d].Title = %s, want %s", i, got[i].Title, title)
		}
	}
}

func TestUpcomingTasksOrderIndependent(t *testing.T) {
	tasks := []models.ComplianceTask{
		{Title: "a", DueDate: datePtr(models.NewDate(2026, time.June, 20)), Status: models.TaskPending},
		{Title: "b", DueDate: datePtr(models.NewDate(2026, time.June, 18)), Status: models.TaskPending},
		{Title: "c", DueDate: datePtr(models.NewDate(2026, time.June, 20)), Status: models.TaskPending},
		{Title: "d", DueDate: datePtr(models.NewDate(2026, time.July, 1)), Status: models.TaskPending},
	}

	want := UpcomingTasks(tasks, 3)
	for i := 0; i < 10; i++ {
		shuffled := make([]models.ComplianceTask, len(tasks))
		copy(shuffled, tasks)
		rand.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		if got := UpcomingTasks(shuffled, 3); !reflect.DeepEqual(got, want) {
			t.Fatalf("selection depends on input order: %+v vs %+v", got, want)
		}
	}
}

func TestBuildOverview(t *testing.T) {
	reqs := []models.ComplianceRequirement{
		{Status: models.RequirementCompliant, Priority: models.PriorityHigh},
		{Status: models.RequirementNonCompliant, Priority: models.PriorityCritical},
		{Status: models.RequirementCompliant, Priority: models.PriorityCritical},
		{Status: models.RequirementInProgress, Priority: models.PriorityLow},
	}
	tasks := []models.ComplianceTask{
		// stored pending but past due: counted overdue via the resolver
		{Status: models.TaskPending, DueDate: datePtr(models.NewDate(2026, time.June, 14))},
		{Status: models.TaskPending, DueDate: datePtr(models.NewDate(2026, time.June, 30))},
		{Status: models.TaskCompleted, DueDate: datePtr(models.NewDate(2026, time.June, 1))},
	}

	got := BuildOverview(reqs, tasks, status.NewResolver(30), testNow)

	if got.TotalRequirements != 4 {
		t.Errorf("TotalRequirements = %d, want 4", got.TotalRequirements)
	}
	if got.CompliantCount != 2 {
		t.Errorf("CompliantCount = %d, want 2", got.CompliantCount)
	}
	if got.CriticalCount != 1 {
		t.Errorf("CriticalCount = %d, want 1 (compliant critical excluded)", got.CriticalCount)
	}
	if got.OverdueTasks != 1 {
		t.Errorf("OverdueTasks = %d, want 1 (completed task never overdue)", got.OverdueTasks)
	}
	if got.ComplianceRate != 50 {
		t.Errorf("ComplianceRate = %d, want 50", got.ComplianceRate)
	}
}

func TestBuildSummary(t *testing.T) {
	reqs := make([]models.ComplianceRequirement, 0, 15)
	for i := 0; i < 9; i++ {
		reqs = append(reqs, models.ComplianceRequirement{Status: models.RequirementCompliant})
	}
	for i := 0; i < 6; i++ {
		reqs = append(reqs, models.ComplianceRequirement{Status: models.RequirementInProgress})
	}
	docs := []models.ComplianceDocument{
		{Status: models.DocumentCurrent},
		{Status: models.DocumentExpired},
		{Status: models.DocumentCurrent},
		{Status: models.DocumentCurrent},
	}

	got := BuildSummary(reqs, nil, docs, nil, testNow)

	if got.ComplianceRate != 60 {
		t.Errorf("ComplianceRate = %d, want 60", got.ComplianceRate)
	}
	if got.DocumentHealthRate != 75 {
		t.Errorf("DocumentHealthRate = %d, want 75", got.DocumentHealthRate)
	}
	if got.TaskCompletionRate != 0 {
		t.Errorf("TaskCompletionRate = %d, want 0 for no tasks", got.TaskCompletionRate)
	}
	if !got.GeneratedAt.Equal(testNow) {
		t.Errorf("GeneratedAt = %v, want %v", got.GeneratedAt, testNow)
	}
}

func TestBuildSummary_EmptyCollections(t *testing.T) {
	got := BuildSummary(nil, nil, nil, nil, testNow)

	if got.ComplianceRate != 0 || got.DocumentHealthRate != 0 || got.TaskCompletionRate != 0 {
		t.Errorf("empty collections should yield zero rates, got %+v", got)
	}
	if len(got.StatusDistribution) != 4 {
		t.Errorf("tabular status buckets = %d, want 4 even when empty", len(got.StatusDistribution))
	}
	if len(got.TasksByPriority) != 4 {
		t.Errorf("crosstab rows = %d, want 4 even when empty", len(got.TasksByPriority))
	}
}
