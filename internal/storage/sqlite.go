package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/savegress/comptrack/pkg/models"
)

// Record kinds as stored in the records table
const (
	kindRequirement = "requirement"
	kindTask        = "task"
	kindDocument    = "document"
	kindTraining    = "training"
)

// SQLiteStore is an embedded SQLite-backed record store. Records are kept
// as JSON documents so the store never rejects fields it does not know
// about; schema interpretation happens in the engine packages.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (or creates) the store under dataPath
func NewSQLiteStore(dataPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataPath, "comptrack.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteStore{db: db, dbPath: dbPath}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		created_date TIMESTAMP NOT NULL,
		updated_date TIMESTAMP NOT NULL,
		data TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_records_kind_created ON records(kind, created_date DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) insert(ctx context.Context, kind, id string, created, updated time.Time, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (id, kind, created_date, updated_date, data) VALUES (?, ?, ?, ?, ?)`,
		id, kind, created, updated, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to insert %s: %w", kind, err)
	}
	return nil
}

// list returns raw record payloads newest first
func (s *SQLiteStore) list(ctx context.Context, kind string, opts ListOptions) ([][]byte, error) {
	query := `SELECT data FROM records WHERE kind = ? ORDER BY created_date DESC`
	args := []interface{}{kind}
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", kind, err)
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan %s record: %w", kind, err)
		}
		out = append(out, []byte(data))
	}
	return out, rows.Err()
}

func (s *SQLiteStore) get(ctx context.Context, kind, id string) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM records WHERE kind = ? AND id = ?`, kind, id,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", kind, id, err)
	}
	return []byte(data), nil
}

func (s *SQLiteStore) update(ctx context.Context, kind, id string, updated time.Time, data []byte) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET updated_date = ?, data = ? WHERE kind = ? AND id = ?`,
		updated, string(data), kind, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update %s %s: %w", kind, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) delete(ctx context.Context, kind, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE kind = ? AND id = ?`, kind, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", kind, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func decodeList[T any](payloads [][]byte) ([]T, error) {
	out := make([]T, 0, len(payloads))
	for _, p := range payloads {
		var rec T
		if err := json.Unmarshal(p, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func decodeOne[T any](payload []byte) (*T, error) {
	var rec T
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return &rec, nil
}

// stamp assigns an id and timestamps to a new record
func stamp(id *string, created *time.Time, updated *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	now := time.Now().UTC()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

// Requirements

func (s *SQLiteStore) ListRequirements(ctx context.Context, opts ListOptions) ([]models.ComplianceRequirement, error) {
	payloads, err := s.list(ctx, kindRequirement, opts)
	if err != nil {
		return nil, err
	}
	return decodeList[models.ComplianceRequirement](payloads)
}

func (s *SQLiteStore) GetRequirement(ctx context.Context, id string) (*models.ComplianceRequirement, error) {
	payload, err := s.get(ctx, kindRequirement, id)
	if err != nil {
		return nil, err
	}
	return decodeOne[models.ComplianceRequirement](payload)
}

func (s *SQLiteStore) CreateRequirement(ctx context.Context, req *models.ComplianceRequirement) error {
	stamp(&req.ID, &req.CreatedDate, &req.UpdatedDate)
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if req.Status == "" {
		req.Status = models.RequirementNeedsReview
	}
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode requirement: %w", err)
	}
	return s.insert(ctx, kindRequirement, req.ID, req.CreatedDate, req.UpdatedDate, data)
}

func (s *SQLiteStore) UpdateRequirement(ctx context.Context, req *models.ComplianceRequirement) error {
	req.UpdatedDate = time.Now().UTC()
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode requirement: %w", err)
	}
	return s.update(ctx, kindRequirement, req.ID, req.UpdatedDate, data)
}

func (s *SQLiteStore) DeleteRequirement(ctx context.Context, id string) error {
	return s.delete(ctx, kindRequirement, id)
}

// Tasks

func (s *SQLiteStore) ListTasks(ctx context.Context, opts ListOptions) ([]models.ComplianceTask, error) {
	payloads, err := s.list(ctx, kindTask, opts)
	if err != nil {
		return nil, err
	}
	return decodeList[models.ComplianceTask](payloads)
}

func (s *SQLiteStore) GetTask(ctx context.Context, id string) (*models.ComplianceTask, error) {
	payload, err := s.get(ctx, kindTask, id)
	if err != nil {
		return nil, err
	}
	return decodeOne[models.ComplianceTask](payload)
}

func (s *SQLiteStore) CreateTask(ctx context.Context, task *models.ComplianceTask) error {
	stamp(&task.ID, &task.CreatedDate, &task.UpdatedDate)
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Status == "" {
		task.Status = models.TaskPending
	}
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to encode task: %w", err)
	}
	return s.insert(ctx, kindTask, task.ID, task.CreatedDate, task.UpdatedDate, data)
}

func (s *SQLiteStore) UpdateTask(ctx context.Context, task *models.ComplianceTask) error {
	task.UpdatedDate = time.Now().UTC()
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to encode task: %w", err)
	}
	return s.update(ctx, kindTask, task.ID, task.UpdatedDate, data)
}

func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	return s.delete(ctx, kindTask, id)
}

// Documents

func (s *SQLiteStore) ListDocuments(ctx context.Context, opts ListOptions) ([]models.ComplianceDocument, error) {
	payloads, err := s.list(ctx, kindDocument, opts)
	if err != nil {
		return nil, err
	}
	return decodeList[models.ComplianceDocument](payloads)
}

func (s *SQLiteStore) GetDocument(ctx context.Context, id string) (*models.ComplianceDocument, error) {
	payload, err := s.get(ctx, kindDocument, id)
	if err != nil {
		return nil, err
	}
	return decodeOne[models.ComplianceDocument](payload)
}

func (s *SQLiteStore) CreateDocument(ctx context.Context, doc *models.ComplianceDocument) error {
	stamp(&doc.ID, &doc.CreatedDate, &doc.UpdatedDate)
	if doc.Status == "" {
		doc.Status = models.DocumentCurrent
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return s.insert(ctx, kindDocument, doc.ID, doc.CreatedDate, doc.UpdatedDate, data)
}

func (s *SQLiteStore) UpdateDocument(ctx context.Context, doc *models.ComplianceDocument) error {
	doc.UpdatedDate = time.Now().UTC()
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return s.update(ctx, kindDocument, doc.ID, doc.UpdatedDate, data)
}

func (s *SQLiteStore) DeleteDocument(ctx context.Context, id string) error {
	return s.delete(ctx, kindDocument, id)
}

// Trainings

func (s *SQLiteStore) ListTrainings(ctx context.Context, opts ListOptions) ([]models.StaffTraining, error) {
	payloads, err := s.list(ctx, kindTraining, opts)
	if err != nil {
		return nil, err
	}
	return decodeList[models.StaffTraining](payloads)
}

func (s *SQLiteStore) GetTraining(ctx context.Context, id string) (*models.StaffTraining, error) {
	payload, err := s.get(ctx, kindTraining, id)
	if err != nil {
		return nil, err
	}
	return decodeOne[models.StaffTraining](payload)
}

func (s *SQLiteStore) CreateTraining(ctx context.Context, training *models.StaffTraining) error {
	stamp(&training.ID, &training.CreatedDate, &training.UpdatedDate)
	if training.Status == "" {
		training.Status = models.TrainingCompleted
	}
	data, err := json.Marshal(training)
	if err != nil {
		return fmt.Errorf("failed to encode training: %w", err)
	}
	return s.insert(ctx, kindTraining, training.ID, training.CreatedDate, training.UpdatedDate, data)
}

func (s *SQLiteStore) UpdateTraining(ctx context.Context, training *models.StaffTraining) error {
	training.UpdatedDate = time.Now().UTC()
	data, err := json.Marshal(training)
	if err != nil {
		return fmt.Errorf("failed to encode training: %w", err)
	}
	return s.update(ctx, kindTraining, training.ID, training.UpdatedDate, data)
}

func (s *SQLiteStore) DeleteTraining(ctx context.Context, id string) error {
	return s.delete(ctx, kindTraining, id)
}
