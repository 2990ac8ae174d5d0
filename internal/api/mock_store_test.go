package api

import (
	"context"
	"sort"

	"github.com/savegress/comptrack/internal/storage"
	"github.com/savegress/comptrack/pkg/models"
)

// mockStore is an in-memory RecordStore for handler tests
type mockStore struct {
	requirements []models.ComplianceRequirement
	tasks        []models.ComplianceTask
	documents    []models.ComplianceDocument
	trainings    []models.StaffTraining
	listErr      error
}

func listMock[T any](records []T, created func(T) int64, opts storage.ListOptions, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	out := make([]T, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return created(out[i]) > created(out[j]) })
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *mockStore) ListRequirements(_ context.Context, opts storage.ListOptions) ([]models.ComplianceRequirement, error) {
	return listMock(m.requirements, func(r models.ComplianceRequirement) int64 { return r.CreatedDate.Unix() }, opts, m.listErr)
}

func (m *mockStore) GetRequirement(_ context.Context, id string) (*models.ComplianceRequirement, error) {
	for _, r := range m.requirements {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *mockStore) CreateRequirement(_ context.Context, req *models.ComplianceRequirement) error {
	if req.ID == "" {
		req.ID = "req-mock"
	}
	m.requirements = append(m.requirements, *req)
	return nil
}

func (m *mockStore) UpdateRequirement(_ context.Context, req *models.ComplianceRequirement) error {
	for i, r := range m.requirements {
		if r.ID == req.ID {
			m.requirements[i] = *req
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *mockStore) DeleteRequirement(_ context.Context, id string) error {
	for i, r := range m.requirements {
		if r.ID == id {
			m.requirements = append(m.requirements[:i], m.requirements[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *mockStore) ListTasks(_ context.Context, opts storage.ListOptions) ([]models.ComplianceTask, error) {
	return listMock(m.tasks, func(t models.ComplianceTask) int64 { return t.CreatedDate.Unix() }, opts, m.listErr)
}

func (m *mockStore) GetTask(_ context.Context, id string) (*models.ComplianceTask, error) {
	for _, t := range m.tasks {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *mockStore) CreateTask(_ context.Context, task *models.ComplianceTask) error {
	if task.ID == "" {
		task.ID = "task-mock"
	}
	if task.Status == "" {
		task.Status = models.TaskPending
	}
	m.tasks = append(m.tasks, *task)
	return nil
}

func (m *mockStore) UpdateTask(_ context.Context, task *models.ComplianceTask) error {
	for i, t := range m.tasks {
		if t.ID == task.ID {
			m.tasks[i] = *task
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *mockStore) DeleteTask(_ context.Context, id string) error {
	for i, t := range m.tasks {
		if t.ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *mockStore) ListDocuments(_ context.Context, opts storage.ListOptions) ([]models.ComplianceDocument, error) {
	return listMock(m.documents, func(d models.ComplianceDocument) int64 { return d.CreatedDate.Unix() }, opts, m.listErr)
}

func (m *mockStore) GetDocument(_ context.Context, id string) (*models.ComplianceDocument, error) {
	for _, d := range m.documents {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *mockStore) CreateDocument(_ context.Context, doc *models.ComplianceDocument) error {
	if doc.ID == "" {
		doc.ID = "doc-mock"
	}
	m.documents = append(m.documents, *doc)
	return nil
}

func (m *mockStore) UpdateDocument(_ context.Context, doc *models.ComplianceDocument) error {
	for i, d := range m.documents {
		if d.ID == doc.ID {
			m.documents[i] = *doc
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *mockStore) DeleteDocument(_ context.Context, id string) error {
	for i, d := range m.documents {
		if d.ID == id {
			m.documents = append(m.documents[:i], m.documents[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *mockStore) ListTrainings(_ context.Context, opts storage.ListOptions) ([]models.StaffTraining, error) {
	return listMock(m.trainings, func(s models.StaffTraining) int64 { return s.CreatedDate.Unix() }, opts, m.listErr)
}

func (m *mockStore) GetTraining(_ context.Context, id string) (*models.StaffTraining, error) {
	for _, s := range m.trainings {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *mockStore) CreateTraining(_ context.Context, training *models.StaffTraining) error {
	if training.ID == "" {
		training.ID = "training-mock"
	}
	m.trainings = append(m.trainings, *training)
	return nil
}

func (m *mockStore) UpdateTraining(_ context.Context, training *models.StaffTraining) error {
	for i, s := range m.trainings {
		if s.ID == training.ID {
			m.trainings[i] = *training
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *mockStore) DeleteTraining(_ context.Context, id string) error {
	for i, s := range m.trainings {
		if s.ID == id {
			m.trainings = append(m.trainings[:i], m.trainings[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *mockStore) Close() error { return nil }
