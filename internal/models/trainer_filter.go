package models

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// TrainerSortField is a sortable trainer column
type TrainerSortField string

const (
	SortByCreatedAt      TrainerSortField = "created_at"
	SortByAverageRating  TrainerSortField = "average_rating"
	SortByActiveStudents TrainerSortField = "active_students"
	SortByTrainerName    TrainerSortField = "trainer_name"
)

var trainerSortFields = map[TrainerSortField]struct{}{
	SortByCreatedAt:      {},
	SortByAverageRating:  {},
	SortByActiveStudents: {},
	SortByTrainerName:    {},
}

// SortOrder is asc or desc
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// TrainerListParams are the normalized portal trainer filters.
// Nil pointers mean "no restriction".
type TrainerListParams struct {
	Query       string
	MinRating   *float64
	MinStudents *int
	Privacy     *PrivacyMode
	SortBy      TrainerSortField
	SortOrder   SortOrder
}

// ParseTrainerListParams normalizes raw query values. Unknown sort fields fall back to
// created_at, non-numeric or non-finite bounds and unknown privacy values are dropped.
func ParseTrainerListParams(values url.Values) TrainerListParams {
	params := TrainerListParams{
		Query:     strings.TrimSpace(values.Get("q")),
		SortBy:    SortByCreatedAt,
		SortOrder: SortDesc,
	}

	if raw := strings.TrimSpace(values.Get("minRating")); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			params.MinRating = &v
		}
	}

	if raw := strings.TrimSpace(values.Get("minStudents")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			params.MinStudents = &v
		}
	}

	switch mode := PrivacyMode(strings.ToLower(values.Get("privacy"))); mode {
	case PrivacyPublic, PrivacyPrivate:
		params.Privacy = &mode
	}

	if field := TrainerSortField(values.Get("sortBy")); field != "" {
		if _, ok := trainerSortFields[field]; ok {
			params.SortBy = field
		}
	}

	if strings.EqualFold(values.Get("sortOrder"), string(SortAsc)) {
		params.SortOrder = SortAsc
	}

	return params
}
