package workflow

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/spigell/applicant/internal/logger"
	"github.com/spigell/applicant/internal/portal"
	"github.com/spigell/applicant/internal/utils"
	"go.uber.org/zap"
)

const justificationLogLength = 120

type assessor interface {
	Analyze(ctx context.Context, requestID string, app *portal.Application) (*portal.Assessment, error)
}

// ControllerConfig tunes the submission controller.
type ControllerConfig struct {
	// StrictEmail enables the email format check on top of the presence check.
	StrictEmail bool
}

// Controller owns the submission lifecycle. At most one submission is in flight at a time.
type Controller struct {
	assessor assessor
	store    *Store
	logger   *zap.Logger
	cfg      ControllerConfig
	newID    func() string
}

func NewController(a assessor, store *Store, cfg ControllerConfig, log *zap.Logger) *Controller {
	return &Controller{
		assessor: a,
		store:    store,
		logger:   logger.WithFields(log),
		cfg:      cfg,
		newID:    uuid.NewString,
	}
}

// Submit validates app and, when admitted, sends it in the background.
//
// It returns ErrInFlight while another submission is running, or a *ValidationError when
// the input is incomplete; no request is made in both cases. Otherwise the returned channel
// delivers exactly one Outcome and is closed.
//
// On admission the controller takes ownership of app.Resume and closes it when done.
func (c *Controller) Submit(ctx context.Context, app *portal.Application) (<-chan Outcome, error) {
	if c.store.Snapshot().Phase == PhaseInFlight {
		return nil, ErrInFlight
	}

	if err := app.Validate(c.cfg.StrictEmail); err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			return nil, err
		}
		if !c.store.rejectInput(verr.Message) {
			return nil, ErrInFlight
		}
		c.logger.Info("application rejected locally", zap.String("field", verr.Field), zap.String("reason", verr.Message))
		return nil, verr
	}

	attemptID := c.newID()
	if !c.store.admit(attemptID) {
		return nil, ErrInFlight
	}

	log := c.logger.With(logger.AttemptFields(attemptID, app.Resume.FileName)...)
	log.Info("submitting application")

	outcomes := make(chan Outcome, 1)
	go func() {
		defer close(outcomes)
		defer app.Resume.Close()

		outcome := c.send(ctx, attemptID, app)
		c.reconcile(attemptID, outcome, log)
		outcomes <- outcome
	}()

	return outcomes, nil
}

// SubmitAndWait is Submit followed by waiting for the outcome.
func (c *Controller) SubmitAndWait(ctx context.Context, app *portal.Application) (Outcome, error) {
	outcomes, err := c.Submit(ctx, app)
	if err != nil {
		return nil, err
	}
	return <-outcomes, nil
}

func (c *Controller) send(ctx context.Context, attemptID string, app *portal.Application) Outcome {
	result, err := c.assessor.Analyze(ctx, attemptID, app)
	if err == nil {
		return Succeeded{Result: result}
	}

	var statusErr *portal.StatusError
	var decodeErr *portal.DecodeError
	switch {
	case errors.As(err, &statusErr):
		reason := statusErr.Detail
		if reason == "" {
			reason = MsgAnalysisFailed
		}
		return Rejected{StatusCode: statusErr.StatusCode, Reason: reason}
	case errors.As(err, &decodeErr):
		return Malformed{Err: err}
	default:
		return TransportFailure{Err: err}
	}
}

func (c *Controller) reconcile(attemptID string, outcome Outcome, log *zap.Logger) {
	if success, ok := outcome.(Succeeded); ok {
		c.store.succeed(attemptID, success.Result)
		log.Info("application assessed",
			zap.String("decision", string(success.Result.Decision)),
			zap.Float64("compatibility_score", success.Result.CompatibilityScore),
			zap.String("justification_preview", utils.TruncateForLog(success.Result.Justification, justificationLogLength)),
		)
		return
	}

	c.store.fail(attemptID, outcome.Message())
	log.Warn("application submission failed", zap.Error(OutcomeError(outcome)))
}
