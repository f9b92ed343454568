// ABOUTME: Entity-to-JSON serializers for API responses
// ABOUTME: Maps store structs to wire shapes; the password hash never crosses

package api

import (
	"time"

	"github.com/taskhub/taskhub/internal/store"
)

// userJSON is the wire shape for a user. The password hash has no field here
// at all, so it cannot leak through serialization.
type userJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// projectJSON is the wire shape for a project. Tasks appears only when the
// query requested the tasks include (or on single-project show).
type projectJSON struct {
	ID        string `json:"id"`
	OwnerID   string `json:"owner_id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	// omitzero: nil (not included) is omitted, an included empty relation
	// still serializes as [].
	Tasks []taskJSON `json:"tasks,omitzero"`
}

// taskJSON is the wire shape for a task.
type taskJSON struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	IsDone    bool    `json:"is_done"`
	CreatorID string  `json:"creator_id"`
	ProjectID *string `json:"project_id"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func serializeUser(u *store.User) userJSON {
	return userJSON{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func serializeProject(p *store.Project) projectJSON {
	out := projectJSON{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Title:     p.Title,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if p.Tasks != nil {
		out.Tasks = serializeTasks(p.Tasks)
	}
	return out
}

func serializeProjects(projects []*store.Project) []projectJSON {
	out := make([]projectJSON, 0, len(projects))
	for _, p := range projects {
		out = append(out, serializeProject(p))
	}
	return out
}

func serializeTask(t *store.Task) taskJSON {
	return taskJSON{
		ID:        t.ID,
		Title:     t.Title,
		IsDone:    t.IsDone,
		CreatorID: t.CreatorID,
		ProjectID: t.ProjectID,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func serializeTasks(tasks []*store.Task) []taskJSON {
	out := make([]taskJSON, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, serializeTask(t))
	}
	return out
}
