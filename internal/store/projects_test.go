// ABOUTME: Tests for project persistence, cascade deletion, and list queries
// ABOUTME: Covers pagination, include=tasks attachment, and ownership fields

package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub/internal/query"
)

func TestStore_CreateProject(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "owner@example.com")

	project := &Project{OwnerID: owner.ID, Title: "Build the thing"}
	require.NoError(t, store.CreateProject(ctx, project))
	assert.NotEmpty(t, project.ID)

	retrieved, err := store.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Build the thing", retrieved.Title)
	assert.Equal(t, owner.ID, retrieved.OwnerID)
	assert.Equal(t, owner.ID, retrieved.OwnedBy())
}

func TestStore_UpdateProjectTitle(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "owner@example.com")

	project := &Project{OwnerID: owner.ID, Title: "Old"}
	require.NoError(t, store.CreateProject(ctx, project))

	require.NoError(t, store.UpdateProjectTitle(ctx, project.ID, "New"))

	retrieved, err := store.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", retrieved.Title)
	assert.False(t, retrieved.UpdatedAt.Before(retrieved.CreatedAt))

	err = store.UpdateProjectTitle(ctx, "nonexistent", "X")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DeleteProject_CascadesTasks(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "owner@example.com")

	project := &Project{OwnerID: owner.ID, Title: "Doomed"}
	require.NoError(t, store.CreateProject(ctx, project))

	task := &Task{CreatorID: owner.ID, ProjectID: &project.ID, Title: "Goes with it"}
	require.NoError(t, store.CreateTask(ctx, task))

	require.NoError(t, store.DeleteProject(ctx, project.ID))

	_, err := store.GetProject(ctx, project.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Zero tasks referencing the deleted project remain
	_, err = store.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DeleteProject_NotFound(t *testing.T) {
	store := setupTestStore(t)

	err := store.DeleteProject(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ListProjects_Pagination(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "owner@example.com")

	for i := 0; i < 5; i++ {
		project := &Project{
			OwnerID:   owner.ID,
			Title:     fmt.Sprintf("Project %d", i),
			CreatedAt: time.Date(2025, 1, 1+i, 0, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2025, 1, 1+i, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, store.CreateProject(ctx, project))
	}

	// Page 1 of 2 with the default created_at DESC ordering
	page1 := &query.Params{Page: 1, PerPage: 2}
	projects, total, err := store.ListProjects(ctx, page1)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, projects, 2)
	assert.Equal(t, "Project 4", projects[0].Title)
	assert.Equal(t, "Project 3", projects[1].Title)

	// Concatenating all pages yields every project exactly once
	seen := map[string]bool{}
	for page := 1; page <= 3; page++ {
		p := &query.Params{Page: page, PerPage: 2}
		rows, _, err := store.ListProjects(ctx, p)
		require.NoError(t, err)
		for _, row := range rows {
			assert.False(t, seen[row.ID], "no duplicates across pages")
			seen[row.ID] = true
		}
	}
	assert.Len(t, seen, 5)
}

func TestStore_ListProjects_IncludeTasks(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "owner@example.com")

	withTasks := &Project{OwnerID: owner.ID, Title: "Busy"}
	require.NoError(t, store.CreateProject(ctx, withTasks))
	empty := &Project{OwnerID: owner.ID, Title: "Idle"}
	require.NoError(t, store.CreateProject(ctx, empty))

	for i := 0; i < 2; i++ {
		task := &Task{CreatorID: owner.ID, ProjectID: &withTasks.ID, Title: fmt.Sprintf("Task %d", i)}
		require.NoError(t, store.CreateTask(ctx, task))
	}

	params := &query.Params{Page: 1, PerPage: 10, Includes: []string{"tasks"}}
	projects, _, err := store.ListProjects(ctx, params)
	require.NoError(t, err)
	require.Len(t, projects, 2)

	for _, project := range projects {
		require.NotNil(t, project.Tasks, "include populates every row")
		switch project.ID {
		case withTasks.ID:
			assert.Len(t, project.Tasks, 2)
		case empty.ID:
			assert.Empty(t, project.Tasks)
		}
	}
}

func TestStore_ListProjects_WithoutInclude(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "owner@example.com")

	project := &Project{OwnerID: owner.ID, Title: "Plain"}
	require.NoError(t, store.CreateProject(ctx, project))

	params := &query.Params{Page: 1, PerPage: 10}
	projects, _, err := store.ListProjects(ctx, params)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Nil(t, projects[0].Tasks)
}
