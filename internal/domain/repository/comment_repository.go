package repository

import (
	"context"
	"fmt"

	"showcase/internal/common"
	"showcase/internal/domain/model"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	ListByProject(ctx context.Context, projectID int64) ([]model.Comment, error)
}

type sqlCommentRepository struct {
	db DBTX
}

func NewCommentRepository(db DBTX) CommentRepository {
	return &sqlCommentRepository{db: db}
}

// Create inserts the comment. The project and author references are enforced
// by the database; a violation is reported as common.ErrReference.
func (r *sqlCommentRepository) Create(ctx context.Context, c *model.Comment) error {
	query := `INSERT INTO comments (user_id, project_id, content, created_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	err := r.db.QueryRowContext(ctx, query, c.UserID, c.ProjectID, c.Content, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("comment on project %d: %w", c.ProjectID, common.ErrReference)
		}
		return fmt.Errorf("commentRepository.Create: %w: %w", common.ErrStorage, err)
	}
	return nil
}

func (r *sqlCommentRepository) ListByProject(ctx context.Context, projectID int64) ([]model.Comment, error) {
	query := `SELECT c.id, c.project_id, c.user_id, u.username, c.content, c.created_at
              FROM comments c
              JOIN users u ON c.user_id = u.id
              WHERE c.project_id = $1
              ORDER BY c.created_at ASC, c.id ASC`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("commentRepository.ListByProject query: %w: %w", common.ErrStorage, err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.UserID, &c.Username, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("commentRepository.ListByProject scan: %w: %w", common.ErrStorage, err)
		}
		comments = append(comments, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("commentRepository.ListByProject rows.Err: %w: %w", common.ErrStorage, err)
	}
	return comments, nil
}
