package models

import "time"

// PortalSession is the admin portal session carried in the encrypted cookie
type PortalSession struct {
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

type PortalLoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=255"`
}

type PortalLoginResponse struct {
	Success bool           `json:"success"`
	Session *PortalSession `json:"session,omitempty"`
}

// PortalOverview are the admin dashboard counters
type PortalOverview struct {
	TotalUsers      int64     `json:"totalUsers"`
	TotalTrainers   int64     `json:"totalTrainers"`
	TrainersPublic  int64     `json:"trainersPublic"`
	TrainersPrivate int64     `json:"trainersPrivate"`
	TotalChats      int64     `json:"totalChats"`
	ChatsLast7d     int64     `json:"chatsLast7d"`
	PendingRequests int64     `json:"pendingRequests"`
	GeneratedAt     time.Time `json:"generatedAt"`
}
