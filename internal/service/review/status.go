package review

import (
	"fmt"
	"time"

	"designsight/internal/config"
	"designsight/internal/domain"
	"designsight/internal/domain/models"
)

// StatusPolicy decides which feedback status changes are allowed.
type StatusPolicy interface {
	Allow(from, to models.FeedbackStatus) bool
}

// PermissivePolicy accepts any known status.
type PermissivePolicy struct{}

func (PermissivePolicy) Allow(_, _ models.FeedbackStatus) bool { return true }

// ForwardPolicy only moves forward through
// open → in_progress → resolved|dismissed, with open → resolved|dismissed
// as shortcuts. Saving the current status again is allowed.
type ForwardPolicy struct{}

var forwardTransitions = map[models.FeedbackStatus][]models.FeedbackStatus{
	models.FeedbackOpen:       {models.FeedbackInProgress, models.FeedbackResolved, models.FeedbackDismissed},
	models.FeedbackInProgress: {models.FeedbackResolved, models.FeedbackDismissed},
}

func (ForwardPolicy) Allow(from, to models.FeedbackStatus) bool {
	if from == to {
		return true
	}
	for _, next := range forwardTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NewStatusPolicy returns the policy named by FEEDBACK_STATUS_POLICY.
func NewStatusPolicy(name string) StatusPolicy {
	if name == config.StatusPolicyForward {
		return ForwardPolicy{}
	}
	return PermissivePolicy{}
}

// AnalysisTransitions checks image analysis status changes.
//
//	pending    → processing
//	processing → completed | failed
//	failed     → processing
//
// completed is terminal. A processing image whose analysis started more
// than StaleAfter ago counts as abandoned and may re-enter processing.
type AnalysisTransitions struct {
	StaleAfter time.Duration
}

var analysisTransitions = map[models.AnalysisStatus][]models.AnalysisStatus{
	models.AnalysisPending:    {models.AnalysisProcessing},
	models.AnalysisProcessing: {models.AnalysisCompleted, models.AnalysisFailed},
	models.AnalysisFailed:     {models.AnalysisProcessing},
}

// IsStale reports whether image has been processing for longer than StaleAfter.
func (t AnalysisTransitions) IsStale(image *models.Image, now time.Time) bool {
	if image.AnalysisStatus != models.AnalysisProcessing || t.StaleAfter <= 0 {
		return false
	}
	started := image.UpdatedAt
	if image.AnalysisStartedAt != nil {
		started = *image.AnalysisStartedAt
	}
	return now.Sub(started) > t.StaleAfter
}

// Check returns a ConflictError when image may not move to next.
func (t AnalysisTransitions) Check(image *models.Image, next models.AnalysisStatus, now time.Time) error {
	from := image.AnalysisStatus
	for _, allowed := range analysisTransitions[from] {
		if allowed == next {
			return nil
		}
	}
	if next == models.AnalysisProcessing && t.IsStale(image, now) {
		return nil
	}

	msg := fmt.Sprintf("image analysis cannot move from %s to %s", from, next)
	switch {
	case from == models.AnalysisProcessing && next == models.AnalysisProcessing:
		msg = "image analysis is already in progress"
	case from == models.AnalysisCompleted:
		msg = "image analysis is already completed"
	}
	return &domain.ConflictError{
		Message:      msg,
		ResourceType: "image",
		ResourceID:   image.ID,
	}
}
