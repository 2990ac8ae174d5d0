// Package storage persists compliance records. The engine packages never
// touch storage directly; handlers fetch snapshots here and hand them to
// the pure status, filter and report code.
package storage

import (
	"context"
	"errors"

	"github.com/savegress/comptrack/pkg/models"
)

// ErrNotFound is returned when a record id does not exist
var ErrNotFound = errors.New("record not found")

// ListOptions controls list queries. Records always come back newest
// first by creation date; Limit of 0 means no limit.
type ListOptions struct {
	Limit int
}

// RecordStore is the interface for compliance record persistence
type RecordStore interface {
	ListRequirements(ctx context.Context, opts ListOptions) ([]models.ComplianceRequirement, error)
	GetRequirement(ctx context.Context, id string) (*models.ComplianceRequirement, error)
	CreateRequirement(ctx context.Context, req *models.ComplianceRequirement) error
	UpdateRequirement(ctx context.Context, req *models.ComplianceRequirement) error
	DeleteRequirement(ctx context.Context, id string) error

	ListTasks(ctx context.Context, opts ListOptions) ([]models.ComplianceTask, error)
	GetTask(ctx context.Context, id string) (*models.ComplianceTask, error)
	CreateTask(ctx context.Context, task *models.ComplianceTask) error
	UpdateTask(ctx context.Context, task *models.ComplianceTask) error
	DeleteTask(ctx context.Context, id string) error

	ListDocuments(ctx context.Context, opts ListOptions) ([]models.ComplianceDocument, error)
	GetDocument(ctx context.Context, id string) (*models.ComplianceDocument, error)
	CreateDocument(ctx context.Context, doc *models.ComplianceDocument) error
	UpdateDocument(ctx context.Context, doc *models.ComplianceDocument) error
	DeleteDocument(ctx context.Context, id string) error

	ListTrainings(ctx context.Context, opts ListOptions) ([]models.StaffTraining, error)
	GetTraining(ctx context.Context, id string) (*models.StaffTraining, error)
	CreateTraining(ctx context.Context, training *models.StaffTraining) error
	UpdateTraining(ctx context.Context, training *models.StaffTraining) error
	DeleteTraining(ctx context.Context, id string) error

	Close() error
}
