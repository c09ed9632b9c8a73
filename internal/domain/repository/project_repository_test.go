package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showcase/internal/common"
	"showcase/internal/domain/model"
)

func TestResolveSort(t *testing.T) {
	tests := []struct {
		field, order string
		want         model.ProjectSort
	}{
		{"", "", model.ProjectSort{Field: "created_at", Direction: model.SortDesc}},
		{"title", "asc", model.ProjectSort{Field: "title", Direction: model.SortAsc}},
		{"TITLE", "ASC", model.ProjectSort{Field: "title", Direction: model.SortAsc}},
		{"comment_count", "desc", model.ProjectSort{Field: "comment_count", Direction: model.SortDesc}},
		{"votes", "asc", model.ProjectSort{Field: "created_at", Direction: model.SortAsc}},
		{"title; DROP TABLE users", "asc", model.ProjectSort{Field: "created_at", Direction: model.SortAsc}},
		{"title", "sideways", model.ProjectSort{Field: "title", Direction: model.SortDesc}},
	}
	for _, tc := range tests {
		t.Run(tc.field+"/"+tc.order, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveSort(tc.field, tc.order))
		})
	}
}

func TestResolvePage(t *testing.T) {
	assert.Equal(t, model.Page{Limit: 20, Offset: 0}, ResolvePage(0, 0))
	assert.Equal(t, model.Page{Limit: 20, Offset: 0}, ResolvePage(-5, -1))
	assert.Equal(t, model.Page{Limit: 100, Offset: 40}, ResolvePage(1000, 40))
	assert.Equal(t, model.Page{Limit: 1, Offset: 3}, ResolvePage(1, 3))
}

func TestBuildListQuery(t *testing.T) {
	t.Run("no filters", func(t *testing.T) {
		query, args := buildListQuery(model.ProjectFilter{}, model.ProjectSort{}, model.Page{})
		assert.NotContains(t, query, "WHERE")
		assert.Contains(t, query, "ORDER BY p.created_at DESC, p.id DESC LIMIT $1 OFFSET $2")
		assert.Equal(t, []any{20, 0}, args)
	})

	t.Run("all category is no filter", func(t *testing.T) {
		query, _ := buildListQuery(model.ProjectFilter{Category: "all"}, model.ProjectSort{}, model.Page{})
		assert.NotContains(t, query, "WHERE")
	})

	t.Run("category and search", func(t *testing.T) {
		query, args := buildListQuery(
			model.ProjectFilter{Category: "apis", Search: "50%_Off"},
			model.ProjectSort{Field: "title", Direction: model.SortAsc},
			model.Page{Limit: 5, Offset: 10},
		)
		assert.Contains(t, query, "p.category = $1")
		assert.Equal(t, 3, strings.Count(query, `LIKE LOWER($2) ESCAPE`))
		assert.Contains(t, query, "ORDER BY p.title ASC, p.id ASC LIMIT $3 OFFSET $4")
		assert.Equal(t, []any{"apis", `%50\%\_Off%`, 5, 10}, args)
	})

	t.Run("unknown sort never reaches sql", func(t *testing.T) {
		query, _ := buildListQuery(model.ProjectFilter{},
			model.ProjectSort{Field: "id; DELETE FROM projects", Direction: "DESC; --"}, model.Page{})
		assert.NotContains(t, query, "DELETE")
		assert.NotContains(t, query, "--")
		assert.Contains(t, query, "ORDER BY p.created_at DESC")
	})
}

func TestProjectRepository_List_Mock(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	cols := []string{"id", "creator_name", "title", "slug", "description", "github_url", "demo_url", "tags",
		"category", "created_at", "updated_at", "comment_count"}
	mock.ExpectQuery(`(?s)SELECT .* FROM projects p\s+LEFT JOIN comments c ON c.project_id = p.id\s+WHERE p.category = \$1 GROUP BY p.id ORDER BY comment_count DESC, p.id DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("apis", 20, 0).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(1), "ann", "API kit", "api-kit", "desc", "https://github.com/ann/kit", nil, "go,http", "apis", now, now, int64(2)))

	got, err := NewProjectRepository(db).List(context.Background(),
		model.ProjectFilter{Category: "apis"}, ResolveSort("comment_count", "desc"), model.Page{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].CommentCount)
	assert.Nil(t, got[0].DemoURL)
	require.NotNil(t, got[0].GithubURL)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_List_StorageError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("relation \"projects\" does not exist"))

	_, err := NewProjectRepository(db).List(context.Background(), model.ProjectFilter{}, model.ProjectSort{}, model.Page{})
	assert.ErrorIs(t, err, common.ErrStorage)
}

func TestProjectRepository_CreateAndGet(t *testing.T) {
	repo := NewProjectRepository(newTestDB(t))
	ctx := context.Background()

	p := seedProject(t, repo, model.Project{
		Title:     "Terminal Tetris",
		Slug:      "terminal-tetris",
		GithubURL: strPtr("https://github.com/x/tetris"),
		DemoURL:   strPtr(""),
	})
	require.NotZero(t, p.ID)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Terminal Tetris", got.Title)
	assert.Equal(t, "terminal-tetris", got.Slug)
	assert.Equal(t, model.DefaultCategory, got.Category)
	assert.Zero(t, got.CommentCount)
	assert.Nil(t, got.DemoURL, "empty optional values are stored as NULL")
	require.NotNil(t, got.GithubURL)
	assert.Equal(t, "https://github.com/x/tetris", *got.GithubURL)

	_, err = repo.GetByID(ctx, p.ID+1)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestProjectRepository_ListSearchNonASCII(t *testing.T) {
	db := newTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	seedProject(t, repo, model.Project{Title: "ÉCOLE Planner"})
	seedProject(t, repo, model.Project{Title: "Other"})

	for _, term := range []string{"ÉCOLE", "ÉCOLE planner", "planner"} {
		got, err := repo.List(ctx, model.ProjectFilter{Search: term}, model.ProjectSort{}, model.Page{})
		require.NoError(t, err, term)
		require.Len(t, got, 1, term)
		assert.Equal(t, "ÉCOLE Planner", got[0].Title)
	}
}

func TestProjectRepository_ListFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	seedProject(t, repo, model.Project{Title: "FooBar API", Category: "apis", CreatedAt: base})
	seedProject(t, repo, model.Project{Title: "Gadget", Description: "a FOO helper", Category: "tools", CreatedAt: base.Add(time.Hour)})
	seedProject(t, repo, model.Project{Title: "Widget", Tags: strPtr("ui,foo"), Category: "web-apps", CreatedAt: base.Add(2 * time.Hour)})
	seedProject(t, repo, model.Project{Title: "Other API", Category: "apis-v2", CreatedAt: base.Add(3 * time.Hour)})
	seedProject(t, repo, model.Project{Title: "100% real", Category: "tools", CreatedAt: base.Add(4 * time.Hour)})

	titles := func(ps []model.Project) []string {
		out := make([]string, 0, len(ps))
		for _, p := range ps {
			out = append(out, p.Title)
		}
		return out
	}

	t.Run("category is exact match", func(t *testing.T) {
		got, err := repo.List(ctx, model.ProjectFilter{Category: "apis"}, model.ProjectSort{}, model.Page{})
		require.NoError(t, err)
		assert.Equal(t, []string{"FooBar API"}, titles(got))
	})

	t.Run("search is case-insensitive across title description and tags", func(t *testing.T) {
		got, err := repo.List(ctx, model.ProjectFilter{Search: "foo"}, ResolveSort("created_at", "asc"), model.Page{})
		require.NoError(t, err)
		assert.Equal(t, []string{"FooBar API", "Gadget", "Widget"}, titles(got))
	})

	t.Run("search treats wildcards literally", func(t *testing.T) {
		got, err := repo.List(ctx, model.ProjectFilter{Search: "%"}, model.ProjectSort{}, model.Page{})
		require.NoError(t, err)
		assert.Equal(t, []string{"100% real"}, titles(got))
	})

	t.Run("default order is newest first", func(t *testing.T) {
		got, err := repo.List(ctx, model.ProjectFilter{}, model.ProjectSort{}, model.Page{})
		require.NoError(t, err)
		assert.Equal(t, []string{"100% real", "Other API", "Widget", "Gadget", "FooBar API"}, titles(got))
	})

	t.Run("pagination", func(t *testing.T) {
		got, err := repo.List(ctx, model.ProjectFilter{}, ResolveSort("title", "asc"), model.Page{Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"FooBar API", "Gadget"}, titles(got))
	})

	t.Run("no match is empty not nil", func(t *testing.T) {
		got, err := repo.List(ctx, model.ProjectFilter{Category: "games"}, model.ProjectSort{}, model.Page{})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestProjectRepository_CommentCount(t *testing.T) {
	db := newTestDB(t)
	projects := NewProjectRepository(db)
	comments := NewCommentRepository(db)
	users := NewUserRepository(db)
	ctx := context.Background()

	u := seedUser(t, users, "carol")
	quiet := seedProject(t, projects, model.Project{Title: "Quiet"})
	busy := seedProject(t, projects, model.Project{Title: "Busy"})
	for i := 0; i < 3; i++ {
		require.NoError(t, comments.Create(ctx, &model.Comment{ProjectID: busy.ID, UserID: u.ID, Content: "hi", CreatedAt: time.Now().UTC()}))
	}

	got, err := projects.List(ctx, model.ProjectFilter{}, ResolveSort("comment_count", "desc"), model.Page{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, busy.ID, got[0].ID)
	assert.Equal(t, int64(3), got[0].CommentCount)
	assert.Equal(t, quiet.ID, got[1].ID)
	assert.Zero(t, got[1].CommentCount)

	one, err := projects.GetByID(ctx, busy.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), one.CommentCount)
}
