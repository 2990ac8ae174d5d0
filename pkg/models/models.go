package models

import (
	"fmt"
	"strings"
	"time"
)

// Priority represents how urgent a requirement or task is
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Priorities lists all known priorities from most to least urgent
var Priorities = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// Rank returns the sort weight of a priority. Higher means more urgent.
// Unknown values rank below low instead of being rejected.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// RegulationType represents the regulatory framework a record falls under
type RegulationType string

const (
	RegulationHIPAA      RegulationType = "hipaa"
	RegulationStateBoard RegulationType = "state_board"
	RegulationOSHA       RegulationType = "osha"
	RegulationADA        RegulationType = "ada"
	RegulationHITECH     RegulationType = "hitech"
	RegulationOther      RegulationType = "other"
)

// RegulationTypes lists all known regulation types
var RegulationTypes = []RegulationType{
	RegulationHIPAA,
	RegulationStateBoard,
	RegulationOSHA,
	RegulationADA,
	RegulationHITECH,
	RegulationOther,
}

// RequirementStatus represents the stored compliance state of a requirement
type RequirementStatus string

const (
	RequirementCompliant    RequirementStatus = "compliant"
	RequirementNonCompliant RequirementStatus = "non_compliant"
	RequirementInProgress   RequirementStatus = "in_progress"
	RequirementNeedsReview  RequirementStatus = "needs_review"
)

// RequirementStatuses lists all known requirement statuses
var RequirementStatuses = []RequirementStatus{
	RequirementCompliant,
	RequirementInProgress,
	RequirementNonCompliant,
	RequirementNeedsReview,
}

// TaskStatus represents the stored state of a remediation task
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskOverdue    TaskStatus = "overdue"
)

// DocumentType represents the kind of compliance document
type DocumentType string

const (
	DocumentPolicy         DocumentType = "policy"
	DocumentProcedure      DocumentType = "procedure"
	DocumentCertificate    DocumentType = "certificate"
	DocumentAuditReport    DocumentType = "audit_report"
	DocumentTrainingRecord DocumentType = "training_record"
	DocumentRiskAssessment DocumentType = "risk_assessment"
	DocumentOther          DocumentType = "other"
)

// DocumentStatus represents the stored state of a document
type DocumentStatus string

const (
	DocumentCurrent        DocumentStatus = "current"
	DocumentExpired        DocumentStatus = "expired"
	DocumentPendingRenewal DocumentStatus = "pending_renewal"
)

// TrainingType represents the kind of staff training
type TrainingType string

const (
	TrainingHIPAA               TrainingType = "hipaa"
	TrainingCybersecurity       TrainingType = "cybersecurity"
	TrainingDataHandling        TrainingType = "data_handling"
	TrainingEmergencyProcedures TrainingType = "emergency_procedures"
	TrainingEquipmentSafety     TrainingType = "equipment_safety"
	TrainingGeneralCompliance   TrainingType = "general_compliance"
)

// TrainingStatus represents the stored state of a training record
type TrainingStatus string

const (
	TrainingCompleted TrainingStatus = "completed"
	TrainingExpired   TrainingStatus = "expired"
	TrainingPending   TrainingStatus = "pending"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without time-of-day semantics. It marshals as
// "YYYY-MM-DD" and compares against reference instants at whole-day
// granularity.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month and day
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// String formats the date as "YYYY-MM-DD"
func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON encodes the date as a "YYYY-MM-DD" string
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD" strings; null and "" leave the date zero
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysFrom returns the number of whole days from now until the date.
// Negative means the date is in the past. Both sides are truncated to
// midnight so time-of-day never affects the result.
func (d Date) DaysFrom(now time.Time) int {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	ref := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(day.Sub(ref).Hours() / 24)
}

// ComplianceRequirement is a regulatory requirement the organization tracks
type ComplianceRequirement struct {
	ID             string            `json:"id,omitempty"`
	Title          string            `json:"title"`
	Description    string            `json:"description,omitempty"`
	RegulationType RegulationType    `json:"regulation_type"`
	Priority       Priority          `json:"priority"`
	Status         RequirementStatus `json:"status"`
	DueDate        *Date             `json:"due_date,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	CreatedDate    time.Time         `json:"created_date,omitempty"`
	UpdatedDate    time.Time         `json:"updated_date,omitempty"`
}

// ComplianceTask is a remediation task, optionally linked to a requirement.
// RequirementID is advisory only; no referential integrity is enforced.
type ComplianceTask struct {
	ID             string     `json:"id,omitempty"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	RequirementID  string     `json:"requirement_id,omitempty"`
	AssignedTo     string     `json:"assigned_to"`
	Priority       Priority   `json:"priority"`
	Status         TaskStatus `json:"status"`
	DueDate        *Date      `json:"due_date,omitempty"`
	CompletedDate  *Date      `json:"completed_date,omitempty"`
	EstimatedHours float64    `json:"estimated_hours,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	CreatedDate    time.Time  `json:"created_date,omitempty"`
	UpdatedDate    time.Time  `json:"updated_date,omitempty"`
}

// ComplianceDocument is a supporting document such as a policy or certificate
type ComplianceDocument struct {
	ID             string         `json:"id,omitempty"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	DocumentType   DocumentType   `json:"document_type"`
	RegulationType RegulationType `json:"regulation_type,omitempty"`
	FileURL        string         `json:"file_url,omitempty"`
	RequirementID  string         `json:"requirement_id,omitempty"`
	ExpirationDate *Date          `json:"expiration_date,omitempty"`
	Status         DocumentStatus `json:"status"`
	Tags           []string       `json:"tags,omitempty"`
	CreatedDate    time.Time      `json:"created_date,omitempty"`
	UpdatedDate    time.Time      `json:"updated_date,omitempty"`
}

// StaffTraining is a completed or scheduled training certificate for a staff member
type StaffTraining struct {
	ID             string         `json:"id,omitempty"`
	StaffEmail     string         `json:"staff_email"`
	StaffName      string         `json:"staff_name"`
	TrainingType   TrainingType   `json:"training_type"`
	TrainingTitle  string         `json:"training_title"`
	CompletionDate *Date          `json:"completion_date,omitempty"`
	ExpirationDate *Date          `json:"expiration_date,omitempty"`
	CertificateURL string         `json:"certificate_url,omitempty"`
	Score          float64        `json:"score,omitempty"`
	Status         TrainingStatus `json:"status"`
	CreatedDate    time.Time      `json:"created_date,omitempty"`
	UpdatedDate    time.Time      `json:"updated_date,omitempty"`
}
