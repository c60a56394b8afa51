package models

import "time"

// PostView is one deduplicated view event
type PostView struct {
	PostID     string
	UserID     *string // nil for anonymous viewers
	ViewedAt   time.Time
	ViewedHour time.Time
}

// NewPostView stamps a view at now, bucketed to the UTC hour
func NewPostView(postID string, userID *string, now time.Time) PostView {
	now = now.UTC()
	return PostView{
		PostID:     postID,
		UserID:     userID,
		ViewedAt:   now,
		ViewedHour: now.Truncate(time.Hour),
	}
}

type RecordViewResponse struct {
	Success bool   `json:"success"`
	Counted bool   `json:"counted"`
	Message string `json:"message,omitempty"`
}

type ViewCountResponse struct {
	PostID string `json:"postId"`
	Views  int64  `json:"views"`
}
