package model

import (
	"time"
)

type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Not exposed
	GithubUsername *string   `json:"github_username"`
	CreatedAt      time.Time `json:"created_at"`
}

// Identity is what a verified session token says about its bearer.
type Identity struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
}
