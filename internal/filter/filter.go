// Package filter implements the inclusion test behind every list view:
// free-text search over kind-specific fields combined with exact-match
// categorical criteria.
package filter

import (
	"strings"

	"github.com/savegress/comptrack/pkg/models"
)

// All is the sentinel that disables a categorical criterion
const All = "all"

// Criteria captures one view's search box and dropdown selections.
// Empty strings and All both mean "no constraint". Which fields apply
// depends on the record kind: Type means regulation type for requirements,
// document type for documents and training type for trainings; Priority
// only applies to tasks.
type Criteria struct {
	Search   string
	Status   string
	Type     string
	Priority string
}

// matchValue reports whether a stored field satisfies a categorical
// criterion. Active criteria require exact equality, so a missing field
// value never matches.
func matchValue(criterion, value string) bool {
	if criterion == "" || criterion == All {
		return true
	}
	return criterion == value
}

// matchText reports whether any field contains the search term,
// case-insensitively. An empty term matches everything; empty fields
// match nothing.
func matchText(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// Requirement tests a requirement against search, status and regulation type
func Requirement(r models.ComplianceRequirement, c Criteria) bool {
	return matchText(c.Search, r.Title, r.Description) &&
		matchValue(c.Status, string(r.Status)) &&
		matchValue(c.Type, string(r.RegulationType))
}

// Task tests a task against search, status and priority
func Task(t models.ComplianceTask, c Criteria) bool {
	return matchText(c.Search, t.Title, t.Description) &&
		matchValue(c.Status, string(t.Status)) &&
		matchValue(c.Priority, string(t.Priority))
}

// Document tests a document against search, status and document type
func Document(d models.ComplianceDocument, c Criteria) bool {
	return matchText(c.Search, d.Name, d.Description) &&
		matchValue(c.Status, string(d.Status)) &&
		matchValue(c.Type, string(d.DocumentType))
}

// Training tests a training record against search, status and training type
func Training(s models.StaffTraining, c Criteria) bool {
	return matchText(c.Search, s.StaffName, s.TrainingTitle) &&
		matchValue(c.Status, string(s.Status)) &&
		matchValue(c.Type, string(s.TrainingType))
}

// Apply returns the records satisfying keep, preserving input order
func Apply[T any](records []T, keep func(T) bool) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
