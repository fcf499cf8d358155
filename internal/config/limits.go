package config

const (
	// MaxProjectNameLength is the maximum length for project names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxProjectNameLength = 255

	// MaxProjectDescriptionLength bounds free-form project descriptions.
	MaxProjectDescriptionLength = 2000

	// MaxFeedbackTitleLength is the maximum length for feedback titles.
	MaxFeedbackTitleLength = 255

	// MaxFeedbackDescriptionLength bounds feedback descriptions, which may
	// come verbatim from the critic.
	MaxFeedbackDescriptionLength = 5000

	// MaxCommentLength is the maximum length for comment content.
	MaxCommentLength = 5000

	// MaxAuthorNameLength bounds comment and reaction author names.
	MaxAuthorNameLength = 100

	// DefaultMaxUploadMB is the default upload cap for a single image.
	DefaultMaxUploadMB = 50

	// DefaultPageSize and MaxPageSize bound list endpoints.
	DefaultPageSize = 50
	MaxPageSize     = 100
)
