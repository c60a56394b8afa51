package models

import (
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// VisibilityStatus is the public-visibility lifecycle state of a trainer
type VisibilityStatus string

const (
	VisibilityPrivate       VisibilityStatus = "PRIVATE"
	VisibilityRequestAccess VisibilityStatus = "REQUEST_ACCESS"
	VisibilityPendingReview VisibilityStatus = "PENDING_REVIEW"
	VisibilityPublic        VisibilityStatus = "PUBLIC"
	VisibilityRejected      VisibilityStatus = "REJECTED"
)

func (s VisibilityStatus) IsValid() bool {
	switch s {
	case VisibilityPrivate, VisibilityRequestAccess, VisibilityPendingReview, VisibilityPublic, VisibilityRejected:
		return true
	}
	return false
}

// ReviewAction is an admin moderation decision
type ReviewAction string

const (
	ReviewActionApprove ReviewAction = "approve"
	ReviewActionReject  ReviewAction = "reject"
)

func (a ReviewAction) IsValid() bool {
	return a == ReviewActionApprove || a == ReviewActionReject
}

// TargetStatus is the visibility status a pending trainer moves to
func (a ReviewAction) TargetStatus() VisibilityStatus {
	if a == ReviewActionApprove {
		return VisibilityPublic
	}
	return VisibilityRejected
}

// PrivacyMode controls whether the trainer appears in the public catalog
type PrivacyMode string

const (
	PrivacyPublic  PrivacyMode = "public"
	PrivacyPrivate PrivacyMode = "private"
)

// Trainer is the canonical trainer record
type Trainer struct {
	ID               string           `json:"id"`
	Slug             string           `json:"slug"`
	UserID           string           `json:"userId"`
	TrainerName      string           `json:"trainerName"`
	FullName         *string          `json:"fullName"`
	Email            *string          `json:"email"`
	VisibilityStatus VisibilityStatus `json:"visibilityStatus"`
	AdminReviewToken *string          `json:"-"`
	RequestedAt      *time.Time       `json:"requestedAt"`
	ReviewedAt       *time.Time       `json:"reviewedAt"`
	PrivacyMode      PrivacyMode      `json:"privacyMode"`
	AverageRating    *float64         `json:"averageRating"`
	TotalRatings     int              `json:"totalRatings"`
	ActiveStudents   int              `json:"activeStudents"`
	TotalStudents    int              `json:"totalStudents"`
	Certificates     *string          `json:"certificates"`
	SocialHandle     *string          `json:"socialHandle"`
	SocialProof      *string          `json:"socialProof"`
	Description      *string          `json:"description"`
	IsActive         bool             `json:"isActive"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// TrainerColumns is the select list ScanTrainer expects, in order
const TrainerColumns = `id, slug, user_id, trainer_name, full_name, email, visibility_status,
	admin_review_token, requested_at, reviewed_at, privacy_mode, average_rating::float8,
	total_ratings, active_students, total_students, certificates, social_handle,
	social_proof, description, is_active, created_at`

// ScanTrainer scans a single row selected with TrainerColumns
func ScanTrainer(row pgx.Row) (*Trainer, error) {
	var t Trainer
	err := row.Scan(
		&t.ID,
		&t.Slug,
		&t.UserID,
		&t.TrainerName,
		&t.FullName,
		&t.Email,
		&t.VisibilityStatus,
		&t.AdminReviewToken,
		&t.RequestedAt,
		&t.ReviewedAt,
		&t.PrivacyMode,
		&t.AverageRating,
		&t.TotalRatings,
		&t.ActiveStudents,
		&t.TotalStudents,
		&t.Certificates,
		&t.SocialHandle,
		&t.SocialProof,
		&t.Description,
		&t.IsActive,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ScanTrainers scans all rows and closes them
func ScanTrainers(rows pgx.Rows) ([]*Trainer, error) {
	defer rows.Close()

	trainers := []*Trainer{}
	for rows.Next() {
		t, err := ScanTrainer(rows)
		if err != nil {
			return nil, err
		}
		trainers = append(trainers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return trainers, nil
}

// MissingPublicFields lists the profile fields a trainer must fill before asking for review
func (t *Trainer) MissingPublicFields() []string {
	missing := []string{}
	if isBlank(t.Certificates) {
		missing = append(missing, "certificates")
	}
	if isBlank(t.SocialHandle) {
		missing = append(missing, "socialHandle")
	}
	if isBlank(t.SocialProof) {
		missing = append(missing, "socialProof")
	}
	if isBlank(t.Description) {
		missing = append(missing, "description")
	}
	return missing
}

func isBlank(s *string) bool {
	if s == nil {
		return true
	}
	return strings.TrimSpace(*s) == ""
}

// ReviewTrainerRequest is the admin moderation payload
type ReviewTrainerRequest struct {
	Token  string       `json:"token" binding:"required,max=128"`
	Action ReviewAction `json:"action" binding:"required,oneof=approve reject"`
}

// ReviewedTrainer is the state after a successful moderation transition
type ReviewedTrainer struct {
	ID               string           `json:"id"`
	UserID           string           `json:"-"`
	Slug             string           `json:"slug"`
	TrainerName      string           `json:"-"`
	VisibilityStatus VisibilityStatus `json:"visibilityStatus"`
	ReviewedAt       time.Time        `json:"reviewedAt"`
}

type ReviewTrainerResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Trainer *ReviewedTrainer `json:"trainer"`
}

// RequestPublicResponse is returned when a trainer enters PENDING_REVIEW
type RequestPublicResponse struct {
	Success          bool             `json:"success"`
	Message          string           `json:"message"`
	VisibilityStatus VisibilityStatus `json:"visibilityStatus"`
	RequestedAt      time.Time        `json:"requestedAt"`
}

// ReviewRequestedEvent is posted to the review webhook
type ReviewRequestedEvent struct {
	Type         string `json:"type"`
	TrainerID    string `json:"trainerId"`
	TrainerName  string `json:"trainerName"`
	TrainerEmail string `json:"trainerEmail"`
	ReviewURL    string `json:"reviewUrl"`
}

// TrainerOwner is the owner profile attached to portal trainer rows
type TrainerOwner struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
}

// PortalTrainer is a trainer row annotated with its owner's profile
type PortalTrainer struct {
	*Trainer
	Owner *TrainerOwner `json:"owner"`
}

type TrainerListResponse struct {
	Trainers []PortalTrainer `json:"trainers"`
	Total    int             `json:"total"`
}

// TrainerStats are live counters for the trainer workspace
type TrainerStats struct {
	ActiveStudents int `json:"activeStudents"`
}
