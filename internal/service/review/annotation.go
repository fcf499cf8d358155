package review

import (
	"fmt"
	"math"
	"strings"
	"time"

	"designsight/internal/config"
	"designsight/internal/domain"
	"designsight/internal/domain/models"
	"designsight/internal/domain/services"

	"github.com/google/uuid"
)

// defaultFindingSize is used when a finding omits width or height.
const defaultFindingSize = 50

// CheckBounds rejects a region that starts at negative coordinates or
// extends past the image's right or bottom edge.
func CheckBounds(c models.Coordinates, b models.Bounds) error {
	var problems []string
	if c.X < 0 {
		problems = append(problems, "x must be >= 0")
	}
	if c.Y < 0 {
		problems = append(problems, "y must be >= 0")
	}
	if c.X+c.Width > b.Width {
		problems = append(problems, fmt.Sprintf("x+width (%g) exceeds image width %g", c.X+c.Width, b.Width))
	}
	if c.Y+c.Height > b.Height {
		problems = append(problems, fmt.Sprintf("y+height (%g) exceeds image height %g", c.Y+c.Height, b.Height))
	}
	if len(problems) > 0 {
		return domain.NewValidation("coordinates", strings.Join(problems, "; "))
	}
	return nil
}

var categoryTokens = map[string]models.Category{
	"layout":           models.CategoryVisualHierarchy,
	"color":            models.CategoryVisualHierarchy,
	"spacing":          models.CategoryVisualHierarchy,
	"hierarchy":        models.CategoryVisualHierarchy,
	"visual_hierarchy": models.CategoryVisualHierarchy,
	"typography":       models.CategoryContent,
	"branding":         models.CategoryContent,
	"copy":             models.CategoryContent,
	"content":          models.CategoryContent,
	"accessibility":    models.CategoryAccessibility,
	"contrast":         models.CategoryAccessibility,
	"usability":        models.CategoryUXPatterns,
	"navigation":       models.CategoryUXPatterns,
	"interaction":      models.CategoryUXPatterns,
	"ux_patterns":      models.CategoryUXPatterns,
}

// MapCategory maps a critic category token onto a feedback category.
// Unknown tokens map to visual_hierarchy.
func MapCategory(token string) models.Category {
	if c, ok := categoryTokens[normalizeToken(token)]; ok {
		return c
	}
	return models.CategoryVisualHierarchy
}

var roleTokens = map[string][]models.Role{
	"designer":    {models.RoleDesigner},
	"developer":   {models.RoleDeveloper},
	"pm":          {models.RolePM},
	"client":      {models.RolePM},
	"stakeholder": {models.RolePM},
	"reviewer":    {models.RoleReviewer},
	"all":         {models.RoleDesigner, models.RoleDeveloper, models.RolePM},
}

// MapRoles maps a critic role token onto target roles.
// Unknown tokens map to designer.
func MapRoles(token string) []models.Role {
	if roles, ok := roleTokens[normalizeToken(token)]; ok {
		return append([]models.Role(nil), roles...)
	}
	return []models.Role{models.RoleDesigner}
}

// MapSeverity maps a critic severity token. Unknown tokens map to medium.
func MapSeverity(token string) models.Severity {
	switch normalizeToken(token) {
	case "high", "critical":
		return models.SeverityHigh
	case "low", "minor":
		return models.SeverityLow
	default:
		return models.SeverityMedium
	}
}

func normalizeToken(token string) string {
	t := strings.ToLower(strings.TrimSpace(token))
	return strings.NewReplacer("-", "_", " ", "_").Replace(t)
}

// ClampToBounds fits a finding region inside the image so a slightly
// out-of-range finding does not block the batch it arrived in.
func ClampToBounds(c models.Coordinates, b models.Bounds) models.Coordinates {
	maxW := math.Max(1, b.Width)
	maxH := math.Max(1, b.Height)

	c.Width = clamp(c.Width, 1, maxW)
	c.Height = clamp(c.Height, 1, maxH)
	c.X = clamp(c.X, 0, maxW-c.Width)
	c.Y = clamp(c.Y, 0, maxH-c.Height)
	return c
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}

// FindingToFeedback materializes one critic finding into a feedback record
// for image. Tokens go through the category, role and severity tables and
// the region is clamped into the image.
func FindingToFeedback(f services.Finding, image *models.Image, now time.Time) *models.Feedback {
	width, height := float64(defaultFindingSize), float64(defaultFindingSize)
	if f.Width != nil && *f.Width > 0 {
		width = *f.Width
	}
	if f.Height != nil && *f.Height > 0 {
		height = *f.Height
	}

	title := strings.TrimSpace(f.Title)
	if title == "" {
		title = "Untitled finding"
	}
	description := strings.TrimSpace(f.Description)
	if description == "" {
		description = title
	}

	recommendations := []string{}
	if s := strings.TrimSpace(f.Suggestion); s != "" {
		recommendations = append(recommendations, s)
	}

	return &models.Feedback{
		ID:          uuid.NewString(),
		ImageID:     image.ID,
		Category:    MapCategory(f.Category),
		Severity:    MapSeverity(f.Severity),
		Title:       truncate(title, config.MaxFeedbackTitleLength),
		Description: description,
		Coordinates: ClampToBounds(models.Coordinates{
			X: f.X, Y: f.Y, Width: width, Height: height,
		}, image.Bounds()),
		TargetRoles:     MapRoles(f.TargetRole),
		Recommendations: recommendations,
		Status:          models.FeedbackOpen,
		Priority:        models.DefaultPriority,
		Tags:            []string{"ai-generated"},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// uniqueStrings trims, drops empties and collapses duplicates, keeping the
// first occurrence order.
func uniqueStrings(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func uniqueRoles(values []string) []models.Role {
	roles := make([]models.Role, 0, len(values))
	for _, v := range uniqueStrings(values) {
		roles = append(roles, models.Role(v))
	}
	return roles
}
