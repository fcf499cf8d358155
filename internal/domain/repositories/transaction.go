package repositories

import "context"

// TxFn is a unit of work that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager groups repository calls into one atomic write,
// e.g. creating an image and appending it to its project.
type TransactionManager interface {
	// ExecTx runs fn in a transaction, committing when fn returns nil
	ExecTx(ctx context.Context, fn TxFn) error
}

// Set bundles the repositories of one store backend
type Set struct {
	Projects  ProjectRepository
	Images    ImageRepository
	Feedback  FeedbackRepository
	Comments  CommentRepository
	TxManager TransactionManager
}
