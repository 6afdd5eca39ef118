package playthrough

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/playlens/internal/learneraction"
)

// Recorder collects the actions of one learner session. Whether the
// session is recorded at all is decided once, when the recorder is
// created.
type Recorder struct {
	expID      string
	expVersion int
	sampled    bool
	thresholds Thresholds
	now        func() time.Time
	logger     *zap.Logger

	actions []learneraction.LearnerAction
}

// RecorderOption configures a Recorder.
type RecorderOption func(*recorderConfig)

type recorderConfig struct {
	thresholds Thresholds
	rng        *rand.Rand
	now        func() time.Time
	logger     *zap.Logger
	disabled   bool
}

// WithThresholds overrides the issue detection thresholds.
func WithThresholds(th Thresholds) RecorderOption {
	return func(c *recorderConfig) { c.thresholds = th }
}

// WithRand sets the random source used for the sampling decision.
func WithRand(r *rand.Rand) RecorderOption {
	return func(c *recorderConfig) { c.rng = r }
}

// WithClock sets the clock used to stamp finished playthroughs.
func WithClock(now func() time.Time) RecorderOption {
	return func(c *recorderConfig) { c.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) RecorderOption {
	return func(c *recorderConfig) { c.logger = l }
}

// WithRecordingDisabled turns the recorder into a no-op regardless of
// sampling, for explorations where recording is switched off.
func WithRecordingDisabled() RecorderOption {
	return func(c *recorderConfig) { c.disabled = true }
}

// NewRecorder creates a recorder for one session. The session is sampled
// with the given probability in [0, 1].
func NewRecorder(expID string, expVersion int, probability float64, opts ...RecorderOption) *Recorder {
	cfg := recorderConfig{
		thresholds: DefaultThresholds(),
		now:        time.Now,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var roll float64
	if cfg.rng != nil {
		roll = cfg.rng.Float64()
	} else {
		roll = rand.Float64()
	}
	sampled := !cfg.disabled && roll < probability

	cfg.logger.Debug("playthrough recorder created",
		zap.String("exp_id", expID),
		zap.Int("exp_version", expVersion),
		zap.Bool("sampled", sampled),
	)

	return &Recorder{
		expID:      expID,
		expVersion: expVersion,
		sampled:    sampled,
		thresholds: cfg.thresholds,
		now:        cfg.now,
		logger:     cfg.logger,
	}
}

// Sampled reports whether this session is being recorded.
func (r *Recorder) Sampled() bool {
	return r.sampled
}

// RecordExplorationStart records the learner opening the exploration.
func (r *Recorder) RecordExplorationStart(initStateName string) {
	r.record(learneraction.ExplorationStart{StateName: initStateName})
}

// RecordAnswerSubmit records an answer submitted on stateName that sent the
// learner to destStateName.
func (r *Recorder) RecordAnswerSubmit(stateName, destStateName, interactionID string, answer any, feedback string, timeSpentSecs float64) {
	r.record(learneraction.AnswerSubmit{
		StateName:       stateName,
		DestStateName:   destStateName,
		InteractionID:   interactionID,
		SubmittedAnswer: answer,
		Feedback:        feedback,
		TimeSpentMsecs:  secsToMsecs(timeSpentSecs),
	})
}

// RecordExplorationQuit records the learner leaving from stateName.
func (r *Recorder) RecordExplorationQuit(stateName string, timeSpentSecs float64) {
	r.record(learneraction.ExplorationQuit{
		StateName:      stateName,
		TimeSpentMsecs: secsToMsecs(timeSpentSecs),
	})
}

// Actions returns a copy of the recorded actions.
func (r *Recorder) Actions() []learneraction.LearnerAction {
	out := make([]learneraction.LearnerAction, len(r.actions))
	copy(out, r.actions)
	return out
}

// Finish ends the session. It returns the playthrough worth storing, or
// nil when the learner completed the exploration, the session was not
// sampled, or no issue was found.
func (r *Recorder) Finish(completed bool) *Playthrough {
	if !r.sampled || completed || len(r.actions) == 0 {
		return nil
	}
	issue, ok := DetectIssue(r.actions, r.thresholds)
	if !ok {
		r.logger.Debug("playthrough has no issue", zap.String("exp_id", r.expID))
		return nil
	}

	r.logger.Info("playthrough issue detected",
		zap.String("exp_id", r.expID),
		zap.String("issue_type", string(issue.Type)),
		zap.Int("actions", len(r.actions)),
	)
	return &Playthrough{
		ID:                     uuid.NewString(),
		ExpID:                  r.expID,
		ExpVersion:             r.expVersion,
		IssueType:              issue.Type,
		IssueCustomizationArgs: issue.Args,
		Actions:                r.Actions(),
		CreatedAt:              r.now().UTC(),
	}
}

func (r *Recorder) record(p learneraction.Payload) {
	if !r.sampled {
		return
	}
	r.actions = append(r.actions, learneraction.New(p))
}

func secsToMsecs(secs float64) int64 {
	return int64(math.Round(secs * 1000))
}
