package session

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/abhisek/playlens/internal/exploration"
	"github.com/abhisek/playlens/internal/learneraction"
	"github.com/abhisek/playlens/internal/playthrough"
)

// fakeClock advances by step on every reading.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func testSession(t *testing.T, step time.Duration) *Session {
	t.Helper()
	exp, err := exploration.LoadFile("../exploration/testdata/fractions.yaml")
	if err != nil {
		t.Fatalf("load exploration: %v", err)
	}
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), step: step}
	rec := playthrough.NewRecorder(exp.ID, exp.Version, 1.0,
		playthrough.WithRand(rand.New(rand.NewPCG(1, 2))),
		playthrough.WithClock(clock.now),
	)
	return New(exp, rec, WithClock(clock.now))
}

func TestSession_CompletedRunIsNotStored(t *testing.T) {
	s := testSession(t, time.Second)

	if s.Current() != "Intro" {
		t.Fatalf("expected to start on Intro, got %q", s.Current())
	}
	if _, err := s.Continue(); err != nil {
		t.Fatalf("continue: %v", err)
	}
	out, err := s.Submit([]string{"2/4", "1/2"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Dest != "End" || out.Feedback != "Well done!" {
		t.Errorf("unexpected outcome %+v", out)
	}
	if !s.AtEnd() {
		t.Fatal("expected to be on a terminal card")
	}
	if p := s.Complete(); p != nil {
		t.Errorf("completed session should not be stored, got %+v", p)
	}
	if _, err := s.Submit([]string{"1/2"}); !errors.Is(err, ErrFinished) {
		t.Errorf("expected ErrFinished, got %v", err)
	}
}

func TestSession_RepeatedWrongAnswers(t *testing.T) {
	s := testSession(t, 2*time.Second)

	if _, err := s.Continue(); err != nil {
		t.Fatalf("continue: %v", err)
	}
	for i := 0; i < 3; i++ {
		out, err := s.Submit([]string{"1/2", "1/3"})
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		if out.Dest != "Halves" {
			t.Fatalf("submit %d: expected to stay on Halves, got %q", i, out.Dest)
		}
	}

	p := s.Quit()
	if p == nil {
		t.Fatal("expected a playthrough")
	}
	if p.IssueType != playthrough.IssueMultipleIncorrectSubmissions {
		t.Errorf("expected MultipleIncorrectSubmissions, got %s", p.IssueType)
	}
	if got := p.IssueCustomizationArgs[playthrough.ArgNumTimesAnsweredIncorrectly]; got != 3 {
		t.Errorf("expected 3 incorrect answers, got %v", got)
	}
	if len(p.Actions) != 6 {
		t.Fatalf("expected 6 actions, got %d", len(p.Actions))
	}

	cont, ok := p.Actions[1].AsSubmit()
	if !ok || cont.InteractionID != "Continue" || cont.SubmittedAnswer != nil {
		t.Errorf("unexpected continue action %+v", p.Actions[1])
	}
	wrong, _ := p.Actions[2].AsSubmit()
	if wrong.InteractionID != exploration.SetInputInteractionID {
		t.Errorf("expected SetInput submit, got %q", wrong.InteractionID)
	}
	if wrong.Feedback != "One of those is not a half." {
		t.Errorf("unexpected feedback %q", wrong.Feedback)
	}
	if wrong.TimeSpentMsecs != 2000 {
		t.Errorf("expected 2000ms on the card, got %d", wrong.TimeSpentMsecs)
	}
	if p.Actions[5].Kind() != learneraction.KindExplorationQuit {
		t.Errorf("expected the run to end with a quit, got %s", p.Actions[5].Kind())
	}
}

func TestSession_EarlyQuit(t *testing.T) {
	s := testSession(t, time.Second)

	p := s.Quit()
	if p == nil || p.IssueType != playthrough.IssueEarlyQuit {
		t.Fatalf("expected an EarlyQuit playthrough, got %+v", p)
	}
	if s.Quit() != nil {
		t.Error("second quit should be a no-op")
	}
}

func TestSession_WrongInteraction(t *testing.T) {
	s := testSession(t, time.Second)

	if _, err := s.Submit([]string{"1/2"}); err == nil {
		t.Error("expected an error answering a Continue card")
	}
	if _, err := s.Continue(); err != nil {
		t.Fatalf("continue: %v", err)
	}
	if _, err := s.Continue(); err == nil {
		t.Error("expected an error pressing continue on a SetInput card")
	}
}
