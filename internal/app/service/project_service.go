package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"showcase/internal/common"
	"showcase/internal/domain/model"
	"showcase/internal/domain/repository"
	"showcase/internal/platform/queue"
)

type ProjectService struct {
	projectRepo repository.ProjectRepository
	commentRepo repository.CommentRepository
	publisher   queue.Publisher
	logger      *slog.Logger
	now         func() time.Time
}

func NewProjectService(
	projectRepo repository.ProjectRepository,
	commentRepo repository.CommentRepository,
	publisher queue.Publisher,
	logger *slog.Logger,
) *ProjectService {
	if publisher == nil {
		publisher = queue.NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectService{
		projectRepo: projectRepo,
		commentRepo: commentRepo,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

type CreateProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatorName string `json:"creator_name"`
	GithubURL   string `json:"github_url,omitempty"`
	DemoURL     string `json:"demo_url,omitempty"`
	Tags        string `json:"tags,omitempty"`
	Category    string `json:"category,omitempty"`
}

type CreateProjectResponse struct {
	Message   string `json:"message"`
	ProjectID int64  `json:"project_id"`
}

// ListProjectsRequest carries the raw listing parameters; sort and paging are
// normalized before they reach the repository.
type ListProjectsRequest struct {
	Category string
	Search   string
	Sort     string
	Order    string
	Limit    int
	Offset   int
}

func (s *ProjectService) Create(ctx context.Context, req CreateProjectRequest) (*CreateProjectResponse, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	creator := strings.TrimSpace(req.CreatorName)
	if title == "" || description == "" || creator == "" {
		return nil, common.NewValidationError("Title, description, and creator name are required")
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = model.DefaultCategory
	}

	now := s.now().UTC()
	project := &model.Project{
		CreatorName: creator,
		Title:       title,
		Slug:        slug.Make(title),
		Description: description,
		GithubURL:   optional(req.GithubURL),
		DemoURL:     optional(req.DemoURL),
		Tags:        optional(req.Tags),
		Category:    category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	event := queue.ProjectCreatedEvent{
		ProjectID:   project.ID,
		Title:       project.Title,
		CreatorName: project.CreatorName,
		Category:    project.Category,
		CreatedAt:   project.CreatedAt,
	}
	if err := s.publisher.PublishProjectCreated(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish project event", "project_id", project.ID, "error", err)
	}

	return &CreateProjectResponse{Message: "Project created successfully", ProjectID: project.ID}, nil
}

func (s *ProjectService) List(ctx context.Context, req ListProjectsRequest) ([]model.Project, error) {
	filter := model.ProjectFilter{
		Category: strings.TrimSpace(req.Category),
		Search:   strings.TrimSpace(req.Search),
	}
	projects, err := s.projectRepo.List(ctx, filter,
		repository.ResolveSort(req.Sort, req.Order),
		repository.ResolvePage(req.Limit, req.Offset))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Get returns the project with its comments attached, oldest first.
func (s *ProjectService) Get(ctx context.Context, id int64) (*model.ProjectDetail, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("project %d: %w", id, err)
	}
	comments, err := s.commentRepo.ListByProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("comments of project %d: %w", id, err)
	}
	return &model.ProjectDetail{Project: *project, Comments: comments}, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
