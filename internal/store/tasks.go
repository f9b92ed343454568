// ABOUTME: Task persistence operations for the SQLite store
// ABOUTME: CRUD plus allow-listed list queries with is_done filtering and sorting

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskhub/taskhub/internal/query"
)

// TaskQuery is the allow-list definition for the task collection.
// Only is_done is filterable; sorting is by title, completion, or creation
// time, defaulting to newest first.
var TaskQuery = query.Definition{
	Filters: map[string]query.FilterField{
		"is_done": {Column: "is_done", Boolean: true},
	},
	Sorts: map[string]string{
		"title":      "title",
		"is_done":    "is_done",
		"created_at": "created_at",
	},
	DefaultSort: query.Sort{Field: "created_at", Desc: true},
}

// CreateTask inserts a new task for its CreatorID, optionally attached to a
// project.
func (s *SQLiteStore) CreateTask(ctx context.Context, task *Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = now
	}

	q := `
		INSERT INTO tasks (id, creator_id, project_id, title, is_done, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, q,
		task.ID,
		task.CreatorID,
		nullString(ptrToString(task.ProjectID)),
		task.Title,
		boolToInt(task.IsDone),
		task.CreatedAt.Format(time.RFC3339),
		task.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}

	s.logger.Debug("created task", "id", task.ID, "creator", task.CreatorID)
	return nil
}

// GetTask retrieves a task by ID.
// Returns ErrNotFound if the task doesn't exist.
func (s *SQLiteStore) GetTask(ctx context.Context, id string) (*Task, error) {
	q := `
		SELECT id, creator_id, project_id, title, is_done, created_at, updated_at
		FROM tasks
		WHERE id = ?
	`

	task, err := scanTask(s.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}
	return task, nil
}

// UpdateTask applies a partial update. Nil fields in the update are left
// unchanged; updated_at is always bumped.
// Returns ErrNotFound if the task doesn't exist.
func (s *SQLiteStore) UpdateTask(ctx context.Context, id string, update TaskUpdate) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC().Format(time.RFC3339)}

	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.IsDone != nil {
		sets = append(sets, "is_done = ?")
		args = append(args, boolToInt(*update.IsDone))
	}
	args = append(args, id)

	q := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = ?`, strings.Join(sets, ", "))

	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTask removes a task.
// Returns ErrNotFound if the task doesn't exist.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted task", "id", id)
	return nil
}

// ListTasks returns one page of the task collection plus the total row count
// for the same predicate set, both inside a single read transaction.
func (s *SQLiteStore) ListTasks(ctx context.Context, p *query.Params) ([]*Task, int, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("beginning read transaction: %w", err)
	}
	defer tx.Rollback()

	where, args := TaskQuery.Where(p, "")

	var total int
	countQ := strings.TrimSpace("SELECT COUNT(*) FROM tasks " + where)
	if err := tx.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting tasks: %w", err)
	}

	limit, offset := p.LimitOffset()
	listQ := fmt.Sprintf(`
		SELECT id, creator_id, project_id, title, is_done, created_at, updated_at
		FROM tasks
		%s
		%s
		LIMIT ? OFFSET ?
	`, where, TaskQuery.OrderBy(p))

	rows, err := tx.QueryContext(ctx, listQ, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("committing read transaction: %w", err)
	}
	return tasks, total, nil
}

func collectTasks(rows *sql.Rows) ([]*Task, error) {
	var tasks []*Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func scanTask(row rowScanner) (*Task, error) {
	var task Task
	var projectID sql.NullString
	var isDone int
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&task.ID,
		&task.CreatorID,
		&projectID,
		&task.Title,
		&isDone,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	if projectID.Valid {
		task.ProjectID = &projectID.String
	}
	task.IsDone = isDone != 0

	task.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	task.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &task, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
