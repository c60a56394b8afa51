package models

import (
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// UserProfile is owned by the profile subsystem; this service only reads it
type UserProfile struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	FullName      *string   `json:"fullName"`
	PreferredName *string   `json:"preferredName"`
	Email         *string   `json:"email"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// DisplayName prefers the preferred name, then the full name
func (p *UserProfile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.PreferredName != nil && strings.TrimSpace(*p.PreferredName) != "" {
		return *p.PreferredName
	}
	if p.FullName != nil {
		return *p.FullName
	}
	return ""
}

const UserProfileColumns = `id, user_id, full_name, preferred_name, email, created_at, updated_at`

func ScanUserProfile(row pgx.Row) (*UserProfile, error) {
	var p UserProfile
	if err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.FullName,
		&p.PreferredName,
		&p.Email,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func ScanUserProfiles(rows pgx.Rows) ([]*UserProfile, error) {
	defer rows.Close()

	profiles := []*UserProfile{}
	for rows.Next() {
		p, err := ScanUserProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// TrainerChatLink records that a user chats with a trainer. It is the only source of
// truth for "is this user a student of that trainer".
type TrainerChatLink struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	TrainerSlug string    `json:"trainerSlug"`
	CreatedAt   time.Time `json:"createdAt"`
}

const TrainerChatLinkColumns = `id, user_id, trainer_slug, created_at`

func ScanTrainerChatLinks(rows pgx.Rows) ([]*TrainerChatLink, error) {
	defer rows.Close()

	links := []*TrainerChatLink{}
	for rows.Next() {
		var l TrainerChatLink
		if err := rows.Scan(&l.ID, &l.UserID, &l.TrainerSlug, &l.CreatedAt); err != nil {
			return nil, err
		}
		links = append(links, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return links, nil
}

// PortalUser is a profile annotated with the trainers it chats with
type PortalUser struct {
	*UserProfile
	TrainerSlugs []string `json:"trainerSlugs"`
	HasTrainer   bool     `json:"hasTrainer"`
}

type UserListResponse struct {
	Users []PortalUser `json:"users"`
	Total int          `json:"total"`
}

// UserListParams are the normalized portal user filters
type UserListParams struct {
	Query       string
	WithTrainer *bool
}

// ParseUserListParams accepts withTrainer=true|false only; other values are ignored
func ParseUserListParams(values url.Values) UserListParams {
	params := UserListParams{Query: strings.TrimSpace(values.Get("q"))}

	switch values.Get("withTrainer") {
	case "true":
		v := true
		params.WithTrainer = &v
	case "false":
		v := false
		params.WithTrainer = &v
	}

	return params
}

// Student is a user chatting with the caller's trainer profile
type Student struct {
	UserID   string  `json:"userId"`
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
}

type StudentsResponse struct {
	Students []Student `json:"students"`
}
