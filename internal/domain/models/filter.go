package models

import "math"

// Pagination is a 1-based page request.
type Pagination struct {
	Page  int
	Limit int
}

// Offset returns the number of rows to skip. It saturates at math.MaxInt
// instead of overflowing for very large pages.
func (p Pagination) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Page is one page of a listing plus the total size of the result set.
type Page[T any] struct {
	Items []T
	Total int
	Page  int
	Limit int
}

// Pages returns ceil(total/limit).
func (p *Page[T]) Pages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

type ProjectFilter struct {
	Status ProjectStatus
	Pagination
}

type ImageFilter struct {
	ProjectID string
	Status    AnalysisStatus
	Pagination
}

type FeedbackSort int

const (
	// SortNewest orders by createdAt descending.
	SortNewest FeedbackSort = iota
	// SortPriority orders by priority descending, then createdAt descending.
	SortPriority
)

type FeedbackFilter struct {
	// ImageIDs restricts results to these images. A non-nil empty slice matches nothing.
	ImageIDs []string
	Category Category
	Severity Severity
	Role     Role
	Status   FeedbackStatus
	Sort     FeedbackSort
	Pagination
}

type CommentFilter struct {
	FeedbackID string
	// ParentCommentID restricts to direct replies of this comment.
	ParentCommentID string
	AuthorRole      Role
	IncludeDeleted  bool
	Pagination
}
