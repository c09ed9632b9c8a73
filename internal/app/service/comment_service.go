package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"showcase/internal/common"
	"showcase/internal/domain/model"
	"showcase/internal/domain/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	now         func() time.Time
}

func NewCommentService(commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, now: time.Now}
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

type CreateCommentResponse struct {
	Message   string `json:"message"`
	CommentID int64  `json:"comment_id"`
}

// Create stores a comment by author on projectID. A missing project is
// reported by the database as common.ErrReference.
func (s *CommentService) Create(ctx context.Context, author model.Identity, projectID int64, req CreateCommentRequest) (*CreateCommentResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, common.NewValidationError("Comment content is required")
	}

	comment := &model.Comment{
		ProjectID: projectID,
		UserID:    author.UserID,
		Username:  author.Username,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	return &CreateCommentResponse{Message: "Comment added successfully", CommentID: comment.ID}, nil
}
