package models

import "time"

type Category string

const (
	CategoryAccessibility   Category = "accessibility"
	CategoryVisualHierarchy Category = "visual_hierarchy"
	CategoryContent         Category = "content"
	CategoryUXPatterns      Category = "ux_patterns"
)

// Categories lists every feedback category in display order.
var Categories = []Category{CategoryAccessibility, CategoryVisualHierarchy, CategoryContent, CategoryUXPatterns}

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

var Severities = []Severity{SeverityHigh, SeverityMedium, SeverityLow}

// Role is a team role. Feedback targets designer, developer, pm or reviewer;
// comment authors may additionally be stakeholders.
type Role string

const (
	RoleDesigner    Role = "designer"
	RoleDeveloper   Role = "developer"
	RolePM          Role = "pm"
	RoleReviewer    Role = "reviewer"
	RoleStakeholder Role = "stakeholder"
)

var (
	TargetRoles = []Role{RoleDesigner, RoleDeveloper, RolePM, RoleReviewer}
	AuthorRoles = []Role{RoleDesigner, RoleDeveloper, RolePM, RoleReviewer, RoleStakeholder}
)

type FeedbackStatus string

const (
	FeedbackOpen       FeedbackStatus = "open"
	FeedbackInProgress FeedbackStatus = "in_progress"
	FeedbackResolved   FeedbackStatus = "resolved"
	FeedbackDismissed  FeedbackStatus = "dismissed"
)

var FeedbackStatuses = []FeedbackStatus{FeedbackOpen, FeedbackInProgress, FeedbackResolved, FeedbackDismissed}

const DefaultPriority = 3

// Coordinates is a pixel-space rectangle anchored at its top-left corner.
type Coordinates struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds are the pixel dimensions of an image.
type Bounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Feedback struct {
	ID              string         `json:"id" db:"id"`
	ImageID         string         `json:"imageId" db:"image_id"`
	Category        Category       `json:"category" db:"category"`
	Severity        Severity       `json:"severity" db:"severity"`
	Title           string         `json:"title" db:"title"`
	Description     string         `json:"description" db:"description"`
	Coordinates     Coordinates    `json:"coordinates" db:"coordinates"`
	TargetRoles     []Role         `json:"targetRoles" db:"target_roles"`
	Recommendations []string       `json:"recommendations" db:"recommendations"`
	Status          FeedbackStatus `json:"status" db:"status"`
	Priority        int            `json:"priority" db:"priority"`
	Tags            []string       `json:"tags" db:"tags"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time      `json:"updatedAt" db:"updated_at"`
	ResolvedAt      *time.Time     `json:"resolvedAt,omitempty" db:"resolved_at"`
}

// SetStatus applies a status change and stamps resolvedAt the first time
// the feedback becomes resolved. resolvedAt is never cleared.
func (f *Feedback) SetStatus(status FeedbackStatus, at time.Time) {
	f.Status = status
	if status == FeedbackResolved && f.ResolvedAt == nil {
		resolved := at
		f.ResolvedAt = &resolved
	}
}

// FeedbackStats aggregates the feedback of one image.
type FeedbackStats struct {
	ImageID    string         `json:"imageId"`
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"byCategory"`
	BySeverity map[string]int `json:"bySeverity"`
	ByStatus   map[string]int `json:"byStatus"`
}

// NewFeedbackStats counts items by category, severity and status. Every known
// enum value is present in the maps, with zero when absent.
func NewFeedbackStats(imageID string, items []Feedback) *FeedbackStats {
	stats := &FeedbackStats{
		ImageID:    imageID,
		Total:      len(items),
		ByCategory: make(map[string]int, len(Categories)),
		BySeverity: make(map[string]int, len(Severities)),
		ByStatus:   make(map[string]int, len(FeedbackStatuses)),
	}
	for _, c := range Categories {
		stats.ByCategory[string(c)] = 0
	}
	for _, s := range Severities {
		stats.BySeverity[string(s)] = 0
	}
	for _, s := range FeedbackStatuses {
		stats.ByStatus[string(s)] = 0
	}
	for _, f := range items {
		stats.ByCategory[string(f.Category)]++
		stats.BySeverity[string(f.Severity)]++
		stats.ByStatus[string(f.Status)]++
	}
	return stats
}
