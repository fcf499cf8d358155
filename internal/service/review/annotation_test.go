package review

import (
	"errors"
	"strings"
	"testing"
	"time"

	"designsight/internal/config"
	"designsight/internal/domain"
	"designsight/internal/domain/models"
	"designsight/internal/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckBounds(t *testing.T) {
	b := models.Bounds{Width: 800, Height: 600}

	tests := []struct {
		name string
		c    models.Coordinates
		ok   bool
	}{
		{"inside", models.Coordinates{X: 100, Y: 100, Width: 200, Height: 100}, true},
		{"touches bottom right corner", models.Coordinates{X: 700, Y: 500, Width: 100, Height: 100}, true},
		{"whole image", models.Coordinates{X: 0, Y: 0, Width: 800, Height: 600}, true},
		{"one pixel past right", models.Coordinates{X: 701, Y: 0, Width: 100, Height: 10}, false},
		{"past bottom", models.Coordinates{X: 0, Y: 550, Width: 10, Height: 51}, false},
		{"negative x", models.Coordinates{X: -1, Y: 0, Width: 10, Height: 10}, false},
		{"negative y", models.Coordinates{X: 0, Y: -5, Width: 10, Height: 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckBounds(tt.c, b)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
		})
	}
}

func TestCheckBounds_ReportsEveryProblem(t *testing.T) {
	err := CheckBounds(models.Coordinates{X: -1, Y: 590, Width: 10, Height: 20}, models.Bounds{Width: 800, Height: 600})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x must be >= 0")
	assert.Contains(t, err.Error(), "exceeds image height 600")
}

func TestTokenMapping(t *testing.T) {
	assert.Equal(t, models.CategoryAccessibility, MapCategory("Contrast"))
	assert.Equal(t, models.CategoryContent, MapCategory("typography"))
	assert.Equal(t, models.CategoryUXPatterns, MapCategory("ux-patterns"))
	assert.Equal(t, models.CategoryVisualHierarchy, MapCategory("layout"))
	assert.Equal(t, models.CategoryVisualHierarchy, MapCategory("something new"))

	assert.Equal(t, models.SeverityHigh, MapSeverity("critical"))
	assert.Equal(t, models.SeverityLow, MapSeverity(" LOW "))
	assert.Equal(t, models.SeverityMedium, MapSeverity(""))

	assert.Equal(t, []models.Role{models.RolePM}, MapRoles("client"))
	assert.Equal(t, []models.Role{models.RoleDesigner, models.RoleDeveloper, models.RolePM}, MapRoles("all"))
	assert.Equal(t, []models.Role{models.RoleDesigner}, MapRoles("marketing"))
}

func TestMapRoles_ReturnsCopy(t *testing.T) {
	roles := MapRoles("all")
	roles[0] = models.RoleReviewer
	assert.Equal(t, models.RoleDesigner, MapRoles("all")[0])
}

func TestClampToBounds(t *testing.T) {
	b := models.Bounds{Width: 800, Height: 600}

	got := ClampToBounds(models.Coordinates{X: 780, Y: -20, Width: 100, Height: 50}, b)
	assert.Equal(t, models.Coordinates{X: 700, Y: 0, Width: 100, Height: 50}, got)

	got = ClampToBounds(models.Coordinates{X: 10, Y: 10, Width: 2000, Height: 0}, b)
	assert.Equal(t, models.Coordinates{X: 0, Y: 10, Width: 800, Height: 1}, got)

	assert.NoError(t, CheckBounds(got, b))
}

func TestFindingToFeedback(t *testing.T) {
	img := &models.Image{ID: "img-1", Metadata: models.ImageMetadata{Width: 800, Height: 600}}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	f := FindingToFeedback(services.Finding{
		X: 790, Y: 100,
		Category:    "accessibility",
		Severity:    "high",
		Title:       "  " + strings.Repeat("t", 300),
		Description: "",
		Suggestion:  "Increase contrast",
		TargetRole:  "developer",
	}, img, now)

	assert.NotEmpty(t, f.ID)
	assert.Equal(t, "img-1", f.ImageID)
	assert.Equal(t, models.CategoryAccessibility, f.Category)
	assert.Equal(t, models.SeverityHigh, f.Severity)
	assert.Equal(t, []models.Role{models.RoleDeveloper}, f.TargetRoles)
	assert.Equal(t, []string{"Increase contrast"}, f.Recommendations)
	assert.Equal(t, models.FeedbackOpen, f.Status)
	assert.Equal(t, models.DefaultPriority, f.Priority)
	assert.Equal(t, now, f.CreatedAt)
	assert.Len(t, []rune(f.Title), config.MaxFeedbackTitleLength)
	assert.NotEmpty(t, f.Description, "description falls back to the title")

	// default 50x50 region shifted to fit
	assert.Equal(t, models.Coordinates{X: 750, Y: 100, Width: 50, Height: 50}, f.Coordinates)
}
