package models

import (
	"time"

	"github.com/jackc/pgx/v5"
)

// MessageType identifies the transition that produced a UserMessage
type MessageType string

const (
	MessageTrainerReviewApproved MessageType = "trainer_review_approved"
	MessageTrainerReviewRejected MessageType = "trainer_review_rejected"
	MessageAccessRequestReceived MessageType = "access_request_received"
	MessageAccessRequestApproved MessageType = "access_request_approved"
	MessageAccessRequestRejected MessageType = "access_request_rejected"
)

// UserMessage is an in-app notification
type UserMessage struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	Type      MessageType `json:"type"`
	Title     string      `json:"title"`
	Body      string      `json:"body"`
	ReadAt    *time.Time  `json:"readAt"`
	CreatedAt time.Time   `json:"createdAt"`
}

const UserMessageColumns = `id, user_id, type, title, body, read_at, created_at`

func ScanUserMessage(row pgx.Row) (*UserMessage, error) {
	var m UserMessage
	if err := row.Scan(&m.ID, &m.UserID, &m.Type, &m.Title, &m.Body, &m.ReadAt, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func ScanUserMessages(rows pgx.Rows) ([]*UserMessage, error) {
	defer rows.Close()

	messages := []*UserMessage{}
	for rows.Next() {
		m, err := ScanUserMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

type MessagesResponse struct {
	Messages []*UserMessage `json:"messages"`
	Unread   int            `json:"unread"`
}
