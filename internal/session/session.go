// Package session steps a learner through an exploration card by card,
// routing answers with the exploration's rules and feeding every step to a
// playthrough recorder.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/playlens/internal/actionrender"
	"github.com/abhisek/playlens/internal/exploration"
	"github.com/abhisek/playlens/internal/playthrough"
)

// EndInteractionID marks a terminal card.
const EndInteractionID = "EndExploration"

// ErrFinished is returned when a step is attempted after the session ended.
var ErrFinished = errors.New("session already finished")

// Session is one learner's run through an exploration.
type Session struct {
	exp *exploration.Exploration
	rec *playthrough.Recorder
	now func() time.Time

	current  string
	entered  time.Time
	finished bool
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used to time each card.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New starts a session on the exploration's initial card and records the
// start.
func New(exp *exploration.Exploration, rec *playthrough.Recorder, opts ...Option) *Session {
	s := &Session{exp: exp, rec: rec, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.current = exp.InitStateName
	s.entered = s.now()
	rec.RecordExplorationStart(s.current)
	return s
}

// Current returns the card the learner is on.
func (s *Session) Current() string {
	return s.current
}

// Card returns the current card.
func (s *Session) Card() exploration.State {
	return s.exp.States[s.current]
}

// AtEnd reports whether the learner reached a terminal card.
func (s *Session) AtEnd() bool {
	return s.Card().Interaction.ID == EndInteractionID
}

// Finished reports whether Quit or Complete was called.
func (s *Session) Finished() bool {
	return s.finished
}

// Continue presses the button on a Continue card.
func (s *Session) Continue() (exploration.Outcome, error) {
	if s.finished {
		return exploration.Outcome{}, ErrFinished
	}
	it := s.Card().Interaction
	if it.ID != actionrender.ContinueInteractionID {
		return exploration.Outcome{}, fmt.Errorf("card %q expects an answer, not a button press", s.current)
	}
	if it.DefaultOutcome == nil {
		return exploration.Outcome{}, fmt.Errorf("card %q has nowhere to continue to", s.current)
	}
	out := *it.DefaultOutcome
	s.move(it.ID, nil, out)
	return out, nil
}

// Submit answers a SetInput card and moves to wherever the answer routes.
func (s *Session) Submit(answer []string) (exploration.Outcome, error) {
	if s.finished {
		return exploration.Outcome{}, ErrFinished
	}
	out, err := s.exp.Classify(s.current, answer)
	if err != nil {
		return exploration.Outcome{}, err
	}
	s.move(exploration.SetInputInteractionID, answer, out)
	return out, nil
}

// Quit leaves the exploration from the current card and returns the
// playthrough worth storing, if any.
func (s *Session) Quit() *playthrough.Playthrough {
	if s.finished {
		return nil
	}
	s.finished = true
	s.rec.RecordExplorationQuit(s.current, s.elapsedSecs())
	return s.rec.Finish(false)
}

// Complete ends a session that reached a terminal card. Completed
// sessions are never stored.
func (s *Session) Complete() *playthrough.Playthrough {
	if s.finished {
		return nil
	}
	s.finished = true
	return s.rec.Finish(true)
}

func (s *Session) move(interactionID string, answer []string, out exploration.Outcome) {
	var submitted any
	if answer != nil {
		submitted = answer
	}
	s.rec.RecordAnswerSubmit(s.current, out.Dest, interactionID, submitted, out.Feedback, s.elapsedSecs())
	s.current = out.Dest
	s.entered = s.now()
}

func (s *Session) elapsedSecs() float64 {
	return s.now().Sub(s.entered).Seconds()
}
