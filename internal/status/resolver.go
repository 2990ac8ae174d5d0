// Package status derives the effective, time-aware state of compliance
// records. Stored statuses are set by users and are never rewritten here;
// the resolver reports how a record stands relative to a reference instant
// without mutating anything.
package status

import (
	"fmt"
	"time"

	"github.com/savegress/comptrack/pkg/models"
)

// DefaultWindowDays is how many days before a due or expiration date a
// record is flagged as urgent.
const DefaultWindowDays = 30

const dateLayout = "Jan 2, 2006"

// Resolution is the derived view of a single record at a point in time
type Resolution struct {
	EffectiveStatus string `json:"effective_status"`
	Urgency         string `json:"urgency,omitempty"`
	Urgent          bool   `json:"urgent"`
}

// Resolver computes effective statuses. It holds no clock; callers supply
// the reference instant so results are reproducible.
type Resolver struct {
	windowDays int
}

// NewResolver creates a resolver with the given urgency window in days.
// Non-positive values fall back to DefaultWindowDays.
func NewResolver(windowDays int) *Resolver {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &Resolver{windowDays: windowDays}
}

// Requirement resolves a compliance requirement. Requirements carry no
// date-driven status, so the stored status always stands.
func (r *Resolver) Requirement(req models.ComplianceRequirement, now time.Time) Resolution {
	return Resolution{EffectiveStatus: string(req.Status)}
}

// Task resolves a remediation task against its due date. Completed tasks
// are never retroactively marked overdue.
func (r *Resolver) Task(t models.ComplianceTask, now time.Time) Resolution {
	if t.Status == models.TaskCompleted {
		return Resolution{EffectiveStatus: string(t.Status)}
	}
	return r.resolve(string(t.Status), string(models.TaskOverdue), "Overdue", "Due", t.DueDate, now)
}

// Document resolves a document against its expiration date
func (r *Resolver) Document(d models.ComplianceDocument, now time.Time) Resolution {
	return r.resolve(string(d.Status), string(models.DocumentExpired), "Expired", "Expires", d.ExpirationDate, now)
}

// Training resolves a training certificate against its expiration date.
// A completed training with a lapsed certificate reads as expired.
func (r *Resolver) Training(s models.StaffTraining, now time.Time) Resolution {
	return r.resolve(string(s.Status), string(models.TrainingExpired), "Expired", "Expires", s.ExpirationDate, now)
}

// resolve applies the shared date arithmetic. A missing date means the
// stored status stands with no urgency. Overdue requires strictly negative
// remaining days; a record due today is still inside the warning window.
func (r *Resolver) resolve(stored, lapsed, lapsedText, verb string, date *models.Date, now time.Time) Resolution {
	if date == nil || date.IsZero() {
		return Resolution{EffectiveStatus: stored}
	}

	days := date.DaysFrom(now)
	switch {
	case days < 0:
		return Resolution{
			EffectiveStatus: lapsed,
			Urgency:         lapsedText,
			Urgent:          true,
		}
	case days <= r.windowDays:
		return Resolution{
			EffectiveStatus: stored,
			Urgency:         fmt.Sprintf("%s in %d days", verb, days),
			Urgent:          true,
		}
	default:
		return Resolution{
			EffectiveStatus: stored,
			Urgency:         fmt.Sprintf("%s %s", verb, date.Format(dateLayout)),
		}
	}
}
