package models

import (
	"time"

	"github.com/jackc/pgx/v5"
)

// AccessRequestStatus is the state of an alumni→trainer access request
type AccessRequestStatus string

const (
	AccessRequestPending  AccessRequestStatus = "pending"
	AccessRequestApproved AccessRequestStatus = "approved"
	AccessRequestRejected AccessRequestStatus = "rejected"
)

// AccessRequestStatusFor maps an admin decision to the terminal status
func AccessRequestStatusFor(action ReviewAction) AccessRequestStatus {
	if action == ReviewActionApprove {
		return AccessRequestApproved
	}
	return AccessRequestRejected
}

type AccessRequest struct {
	ID          string              `json:"id"`
	UserID      string              `json:"userId"`
	TrainerID   string              `json:"trainerId"`
	Message     *string             `json:"message"`
	Status      AccessRequestStatus `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
	ProcessedAt *time.Time          `json:"processedAt"`
}

// AccessRequestColumns is the select list ScanAccessRequest expects
const AccessRequestColumns = `id, user_id, trainer_id, message, status, created_at, processed_at`

func ScanAccessRequest(row pgx.Row) (*AccessRequest, error) {
	var r AccessRequest
	if err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.TrainerID,
		&r.Message,
		&r.Status,
		&r.CreatedAt,
		&r.ProcessedAt,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

func ScanAccessRequests(rows pgx.Rows) ([]*AccessRequest, error) {
	defer rows.Close()

	requests := []*AccessRequest{}
	for rows.Next() {
		r, err := ScanAccessRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}

// RequestTrainer is the trainer summary attached to a pending request
type RequestTrainer struct {
	ID          string  `json:"id"`
	Slug        string  `json:"slug"`
	TrainerName string  `json:"trainerName"`
	Email       *string `json:"email"`
}

type PendingAccessRequest struct {
	*AccessRequest
	Trainer *RequestTrainer `json:"trainer"`
}

type PendingRequestsResponse struct {
	Requests []PendingAccessRequest `json:"requests"`
}

type CreateAccessRequestPayload struct {
	TrainerSlug string `json:"trainerSlug" binding:"required,max=200"`
	Message     string `json:"message" binding:"max=1000"`
}

type CreateAccessRequestResponse struct {
	Success bool                `json:"success"`
	ID      string              `json:"id"`
	Status  AccessRequestStatus `json:"status"`
}

type ProcessAccessRequestPayload struct {
	Action ReviewAction `json:"action" binding:"required,oneof=approve reject"`
}

type ProcessAccessRequestResponse struct {
	Success bool           `json:"success"`
	Request *AccessRequest `json:"request"`
}
