package postgres

import (
	"strings"
	"testing"

	"github.com/gymratia/gymratia-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildTrainerListQuery_Defaults(t *testing.T) {
	query, args := buildTrainerListQuery(models.TrainerListParams{
		SortBy:    models.SortByCreatedAt,
		SortOrder: models.SortDesc,
	})

	assert.NotContains(t, query, "WHERE")
	assert.True(t, strings.HasSuffix(query, "ORDER BY created_at DESC NULLS LAST, id ASC"))
	assert.Empty(t, args)
}

func TestBuildTrainerListQuery_RatingFilterAscending(t *testing.T) {
	minRating := 4.5
	query, args := buildTrainerListQuery(models.TrainerListParams{
		MinRating: &minRating,
		SortBy:    models.SortByAverageRating,
		SortOrder: models.SortAsc,
	})

	assert.Contains(t, query, "WHERE average_rating >= $1")
	assert.Contains(t, query, "ORDER BY average_rating ASC NULLS LAST")
	assert.Equal(t, []any{4.5}, args)
}

func TestBuildTrainerListQuery_AllFilters(t *testing.T) {
	minRating := 4.0
	minStudents := 3
	privacy := models.PrivacyPublic

	query, args := buildTrainerListQuery(models.TrainerListParams{
		Query:       "ana_50%",
		MinRating:   &minRating,
		MinStudents: &minStudents,
		Privacy:     &privacy,
		SortBy:      models.SortByTrainerName,
		SortOrder:   models.SortAsc,
	})

	assert.Contains(t, query, "(slug ILIKE $1 OR trainer_name ILIKE $1 OR email ILIKE $1)")
	assert.Contains(t, query, "average_rating >= $2")
	assert.Contains(t, query, "active_students >= $3")
	assert.Contains(t, query, "privacy_mode = $4")
	assert.Contains(t, query, "ORDER BY trainer_name ASC NULLS LAST")
	assert.Equal(t, []any{`%ana\_50\%%`, 4.0, 3, "public"}, args)
}

func TestTrainerSortColumn_UnknownFallsBack(t *testing.T) {
	assert.Equal(t, "created_at", trainerSortColumn("password"))
	assert.Equal(t, "active_students", trainerSortColumn(models.SortByActiveStudents))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%coach%", likePattern("coach"))
	assert.Equal(t, `%a\\b\_c\%%`, likePattern(`a\b_c%`))
}
