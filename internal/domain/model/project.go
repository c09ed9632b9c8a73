package model

import (
	"time"
)

// DefaultCategory is assigned to submissions that do not name a category.
const DefaultCategory = "tools"

type Project struct {
	ID           int64     `json:"id"`
	CreatorName  string    `json:"creator_name"` // Copied from the submitter, not a users reference
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	GithubURL    *string   `json:"github_url"`
	DemoURL      *string   `json:"demo_url"`
	Tags         *string   `json:"tags"`
	Category     string    `json:"category"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	CommentCount int64     `json:"comment_count"`
}

// ProjectDetail is a project together with its comments, oldest first.
type ProjectDetail struct {
	Project
	Comments []Comment `json:"comments"`
}

type ProjectFilter struct {
	Category string
	Search   string
}

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

type ProjectSort struct {
	Field     string
	Direction SortDirection
}

type Page struct {
	Limit  int
	Offset int
}
