package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"showcase/internal/common"
	"showcase/internal/domain/model"
)

const (
	DefaultSortField = "created_at"
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// sortColumns is the allow-list of sortable fields. Only these expressions
// ever reach the ORDER BY clause.
var sortColumns = map[string]string{
	"id":            "p.id",
	"created_at":    "p.created_at",
	"updated_at":    "p.updated_at",
	"title":         "p.title",
	"category":      "p.category",
	"creator_name":  "p.creator_name",
	"comment_count": "comment_count",
}

// ResolveSort turns caller-supplied sort/order values into a safe ProjectSort.
// Unknown fields or directions fall back to created_at / DESC.
func ResolveSort(field, order string) model.ProjectSort {
	field = strings.ToLower(strings.TrimSpace(field))
	if _, ok := sortColumns[field]; !ok {
		field = DefaultSortField
	}
	dir := model.SortDesc
	if strings.EqualFold(strings.TrimSpace(order), string(model.SortAsc)) {
		dir = model.SortAsc
	}
	return model.ProjectSort{Field: field, Direction: dir}
}

// ResolvePage clamps limit to [1, MaxPageLimit] (0 means default) and offset to >= 0.
func ResolvePage(limit, offset int) model.Page {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return model.Page{Limit: limit, Offset: offset}
}

type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	List(ctx context.Context, filter model.ProjectFilter, sort model.ProjectSort, page model.Page) ([]model.Project, error)
}

type sqlProjectRepository struct {
	db DBTX
}

func NewProjectRepository(db DBTX) ProjectRepository {
	return &sqlProjectRepository{db: db}
}

const projectColumns = `p.id, p.creator_name, p.title, p.slug, p.description, p.github_url, p.demo_url, p.tags,
               p.category, p.created_at, p.updated_at, COUNT(c.id) AS comment_count`

func (r *sqlProjectRepository) Create(ctx context.Context, p *model.Project) error {
	query := `INSERT INTO projects (creator_name, title, slug, description, github_url, demo_url, tags, category, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		p.CreatorName, p.Title, p.Slug, p.Description,
		nullIfEmpty(p.GithubURL), nullIfEmpty(p.DemoURL), nullIfEmpty(p.Tags),
		p.Category, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("projectRepository.Create: %w: %w", common.ErrStorage, err)
	}
	return nil
}

func (r *sqlProjectRepository) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	query := `
        SELECT ` + projectColumns + `
        FROM projects p
        LEFT JOIN comments c ON c.project_id = p.id
        WHERE p.id = $1
        GROUP BY p.id`

	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("projectRepository.GetByID: %w: %w", common.ErrStorage, err)
	}
	return p, nil
}

// List applies the optional category and search filters, counts comments per
// project and returns one page in the requested order.
func (r *sqlProjectRepository) List(ctx context.Context, filter model.ProjectFilter, sort model.ProjectSort, page model.Page) ([]model.Project, error) {
	query, args := buildListQuery(filter, sort, page)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("projectRepository.List query: %w: %w", common.ErrStorage, err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("projectRepository.List scan: %w: %w", common.ErrStorage, err)
		}
		projects = append(projects, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("projectRepository.List rows.Err: %w: %w", common.ErrStorage, err)
	}
	return projects, nil
}

func buildListQuery(filter model.ProjectFilter, sort model.ProjectSort, page model.Page) (string, []any) {
	var query strings.Builder
	query.WriteString(`
        SELECT ` + projectColumns + `
        FROM projects p
        LEFT JOIN comments c ON c.project_id = p.id`)

	var conditions []string
	var args []any
	argID := 1

	if filter.Category != "" && filter.Category != "all" {
		conditions = append(conditions, fmt.Sprintf("p.category = $%d", argID))
		args = append(args, filter.Category)
		argID++
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			`(LOWER(p.title) LIKE LOWER($%[1]d) ESCAPE '\' OR LOWER(p.description) LIKE LOWER($%[1]d) ESCAPE '\' OR LOWER(COALESCE(p.tags, '')) LIKE LOWER($%[1]d) ESCAPE '\')`,
			argID))
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		argID++
	}

	if len(conditions) > 0 {
		query.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	sort = ResolveSort(sort.Field, string(sort.Direction))
	page = ResolvePage(page.Limit, page.Offset)
	column := sortColumns[sort.Field]

	query.WriteString(fmt.Sprintf(" GROUP BY p.id ORDER BY %s %s, p.id %s LIMIT $%d OFFSET $%d",
		column, sort.Direction, sort.Direction, argID, argID+1))
	args = append(args, page.Limit, page.Offset)

	return query.String(), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*model.Project, error) {
	var p model.Project
	err := row.Scan(&p.ID, &p.CreatorName, &p.Title, &p.Slug, &p.Description,
		&p.GithubURL, &p.DemoURL, &p.Tags, &p.Category, &p.CreatedAt, &p.UpdatedAt, &p.CommentCount)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
