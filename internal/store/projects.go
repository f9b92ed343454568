// ABOUTME: Project persistence operations for the SQLite store
// ABOUTME: CRUD plus allow-listed list queries with pagination and task inclusion

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

// ProjectQuery is the allow-list definition for the project collection.
// Projects accept no filters; sorting is by title or creation time; the
// tasks relation may be eagerly included.
var ProjectQuery = query.Definition{
	Sorts: map[string]string{
		"title":      "title",
		"created_at": "created_at",
	},
	Includes:    []string{"tasks"},
	DefaultSort: query.Sort{Field: "created_at", Desc: true},
}

// CreateProject inserts a new project owned by its OwnerID.
func (s *SQLiteStore) CreateProject(ctx context.Context, project *Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	if project.UpdatedAt.IsZero() {
		project.UpdatedAt = now
	}

	q := `
		INSERT INTO projects (id, owner_id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, q,
		project.ID,
		project.OwnerID,
		project.Title,
		project.CreatedAt.Format(time.RFC3339),
		project.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}

	s.logger.Debug("created project", "id", project.ID, "owner", project.OwnerID)
	return nil
}

// GetProject retrieves a project by ID.
// Returns ErrNotFound if the project doesn't exist.
func (s *SQLiteStore) GetProject(ctx context.Context, id string) (*Project, error) {
	q := `
		SELECT id, owner_id, title, created_at, updated_at
		FROM projects
		WHERE id = ?
	`

	project, err := scanProject(s.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying project: %w", err)
	}
	return project, nil
}

// UpdateProjectTitle sets a project's title and bumps updated_at.
// Returns ErrNotFound if the project doesn't exist. The owner reference
// is immutable and has no update path.
func (s *SQLiteStore) UpdateProjectTitle(ctx context.Context, id, title string) error {
	q := `
		UPDATE projects
		SET title = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, q, title, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
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

// DeleteProject removes a project. Its tasks are deleted with it through the
// ON DELETE CASCADE foreign key.
// Returns ErrNotFound if the project doesn't exist.
func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted project", "id", id)
	return nil
}

// ListProjects returns one page of the project collection plus the total row
// count for the same predicate set. Both run inside a single transaction so
// the page positions agree with what an unpaged query would see.
func (s *SQLiteStore) ListProjects(ctx context.Context, p *query.Params) ([]*Project, int, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("beginning read transaction: %w", err)
	}
	defer tx.Rollback()

	where, args := ProjectQuery.Where(p, "")

	var total int
	countQ := strings.TrimSpace("SELECT COUNT(*) FROM projects " + where)
	if err := tx.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting projects: %w", err)
	}

	limit, offset := p.LimitOffset()
	listQ := fmt.Sprintf(`
		SELECT id, owner_id, title, created_at, updated_at
		FROM projects
		%s
		%s
		LIMIT ? OFFSET ?
	`, where, ProjectQuery.OrderBy(p))

	rows, err := tx.QueryContext(ctx, listQ, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if p.HasInclude("tasks") {
		if err := s.attachTasks(ctx, tx, projects); err != nil {
			return nil, 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("committing read transaction: %w", err)
	}
	return projects, total, nil
}

// TasksForProject returns all tasks attached to a project, newest first.
func (s *SQLiteStore) TasksForProject(ctx context.Context, projectID string) ([]*Task, error) {
	q := `
		SELECT id, creator_id, project_id, title, is_done, created_at, updated_at
		FROM tasks
		WHERE project_id = ?
		ORDER BY created_at DESC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying project tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// attachTasks populates Project.Tasks for every project on the page with a
// single query, preserving the page's read transaction.
func (s *SQLiteStore) attachTasks(ctx context.Context, tx *sql.Tx, projects []*Project) error {
	if len(projects) == 0 {
		return nil
	}

	byID := make(map[string]*Project, len(projects))
	placeholders := make([]string, 0, len(projects))
	args := make([]any, 0, len(projects))
	for _, project := range projects {
		project.Tasks = []*Task{}
		byID[project.ID] = project
		placeholders = append(placeholders, "?")
		args = append(args, project.ID)
	}

	q := fmt.Sprintf(`
		SELECT id, creator_id, project_id, title, is_done, created_at, updated_at
		FROM tasks
		WHERE project_id IN (%s)
		ORDER BY created_at DESC, id ASC
	`, strings.Join(placeholders, ", "))

	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("querying included tasks: %w", err)
	}
	defer rows.Close()

	tasks, err := collectTasks(rows)
	if err != nil {
		return err
	}
	for _, task := range tasks {
		if project, ok := byID[ptrToString(task.ProjectID)]; ok {
			project.Tasks = append(project.Tasks, task)
		}
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*Project, error) {
	var project Project
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&project.ID,
		&project.OwnerID,
		&project.Title,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	project.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	project.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &project, nil
}
