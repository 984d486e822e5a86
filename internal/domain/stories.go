package domain

import "time"

type Story struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Content    string    `json:"content,omitempty"`
	ImageURL   string    `json:"image_url,omitempty"`
	ViewsCount int       `json:"views_count"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type StoryWithUser struct {
	Story
	User UserSummary `json:"user"`
}
