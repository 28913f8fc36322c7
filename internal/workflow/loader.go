package workflow

import (
	"context"
	"sync"

	"github.com/spigell/applicant/internal/portal"
	"go.uber.org/zap"
)

type jobSource interface {
	GetJob(ctx context.Context) (*portal.JobPosting, error)
}

// JobLoader fetches the job posting once per workflow session.
type JobLoader struct {
	source jobSource
	store  *Store
	logger *zap.Logger

	once sync.Once
	job  *portal.JobPosting
	err  error
}

func NewJobLoader(source jobSource, store *Store, logger *zap.Logger) *JobLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobLoader{source: source, store: store, logger: logger}
}

// Load fetches the posting and publishes it, or the load error, to the store.
// Only the first call performs a request; later calls return the same outcome.
func (l *JobLoader) Load(ctx context.Context) (*portal.JobPosting, error) {
	l.once.Do(func() {
		l.store.jobLoading()

		job, err := l.source.GetJob(ctx)
		if err != nil {
			l.logger.Warn("loading job details", zap.Error(err))
			l.err = &LoadError{Message: MsgJobLoadFailed, Err: err}
			l.store.jobFailed(MsgJobLoadFailed)
			return
		}

		l.logger.Debug("job details loaded", zap.String("job_title", job.JobTitle))
		l.job = job
		l.store.jobLoaded(job)
	})

	return l.job, l.err
}

// Start runs Load in the background. The returned channel is closed when it finishes.
func (l *JobLoader) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		// the outcome is published to the store
		_, _ = l.Load(ctx)
	}()
	return done
}
