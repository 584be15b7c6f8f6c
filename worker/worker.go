package worker

import "context"

// Worker is a long-running job supervised by the Manager. Start blocks
// until ctx is cancelled or the worker fails.
type Worker interface {
	Name() string
	Start(ctx context.Context) error
}
