// Package playthrough records learner playthroughs of an exploration,
// detects the issues they reveal and converts them to and from their
// backend form.
package playthrough

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/playlens/internal/learneraction"
)

// Playthrough is a recorded session that exhibited an issue.
type Playthrough struct {
	ID                     string
	ExpID                  string
	ExpVersion             int
	IssueType              IssueType
	IssueCustomizationArgs map[string]any
	Actions                []learneraction.LearnerAction
	CreatedAt              time.Time
}

// BackendDict is the wire form of a playthrough.
type BackendDict struct {
	PlaythroughID          string                                `json:"playthrough_id"`
	ExpID                  string                                `json:"exp_id"`
	ExpVersion             int                                   `json:"exp_version"`
	IssueType              string                                `json:"issue_type"`
	IssueCustomizationArgs map[string]learneraction.WrappedValue `json:"issue_customization_args"`
	Actions                []learneraction.BackendDict           `json:"actions"`
}

// ToBackendDict wraps the playthrough into its wire form.
func (p *Playthrough) ToBackendDict() BackendDict {
	args := make(map[string]learneraction.WrappedValue, len(p.IssueCustomizationArgs))
	for k, v := range p.IssueCustomizationArgs {
		args[k] = learneraction.WrappedValue{Value: v}
	}
	actions := make([]learneraction.BackendDict, len(p.Actions))
	for i, a := range p.Actions {
		actions[i] = a.ToBackendDict()
	}
	return BackendDict{
		PlaythroughID:          p.ID,
		ExpID:                  p.ExpID,
		ExpVersion:             p.ExpVersion,
		IssueType:              string(p.IssueType),
		IssueCustomizationArgs: args,
		Actions:                actions,
	}
}

// ErrNoIssue is returned when a playthrough without an issue type shows
// no detectable issue either.
var ErrNoIssue = errors.New("playthrough shows no issue")

// Valid reports whether t is a known issue type.
func (t IssueType) Valid() bool {
	switch t {
	case IssueEarlyQuit, IssueMultipleIncorrectSubmissions, IssueCyclicStateTransitions:
		return true
	}
	return false
}

// FromBackendDict unwraps a backend dict.
func FromBackendDict(d BackendDict) (*Playthrough, error) {
	if !IssueType(d.IssueType).Valid() {
		return nil, fmt.Errorf("unknown issue type %q", d.IssueType)
	}
	return unwrap(d)
}

func unwrap(d BackendDict) (*Playthrough, error) {
	args := make(map[string]any, len(d.IssueCustomizationArgs))
	for k, w := range d.IssueCustomizationArgs {
		args[k] = w.Value
	}
	actions := make([]learneraction.LearnerAction, 0, len(d.Actions))
	for i, ad := range d.Actions {
		a, err := learneraction.FromBackendDict(ad)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		actions = append(actions, a)
	}
	return &Playthrough{
		ID:                     d.PlaythroughID,
		ExpID:                  d.ExpID,
		ExpVersion:             d.ExpVersion,
		IssueType:              IssueType(d.IssueType),
		IssueCustomizationArgs: args,
		Actions:                actions,
	}, nil
}

// ParseJSON decodes a playthrough backend dict using the default
// detection thresholds.
func ParseJSON(raw []byte) (*Playthrough, error) {
	return ParseJSONWithThresholds(raw, DefaultThresholds())
}

// ParseJSONWithThresholds decodes a playthrough backend dict. Each action
// is validated against the learner action schema. A dict without an
// issue_type gets one from DetectIssue, and ErrNoIssue when none is found.
// A missing playthrough_id is replaced by a fresh UUID.
func ParseJSONWithThresholds(raw []byte, th Thresholds) (*Playthrough, error) {
	var envelope struct {
		BackendDict
		Actions []json.RawMessage `json:"actions"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode playthrough: %w", err)
	}
	d := envelope.BackendDict
	d.Actions = make([]learneraction.BackendDict, len(envelope.Actions))
	for i, ar := range envelope.Actions {
		if err := learneraction.ValidateBackendJSON(ar); err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		if err := json.Unmarshal(ar, &d.Actions[i]); err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
	}

	if d.IssueType != "" {
		p, err := FromBackendDict(d)
		if err != nil {
			return nil, err
		}
		return withID(p), nil
	}
	p, err := unwrap(d)
	if err != nil {
		return nil, err
	}
	issue, ok := DetectIssue(p.Actions, th)
	if !ok {
		return nil, ErrNoIssue
	}
	p.IssueType, p.IssueCustomizationArgs = issue.Type, issue.Args
	return withID(p), nil
}

func withID(p *Playthrough) *Playthrough {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return p
}

// MarshalJSON encodes the playthrough as its backend dict.
func (p *Playthrough) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToBackendDict())
}

// MarshalActions encodes just the action list in backend form.
func MarshalActions(actions []learneraction.LearnerAction) ([]byte, error) {
	return json.Marshal(actions)
}

// UnmarshalActions decodes a backend action list.
func UnmarshalActions(raw []byte) ([]learneraction.LearnerAction, error) {
	var actions []learneraction.LearnerAction
	if err := json.Unmarshal(raw, &actions); err != nil {
		return nil, fmt.Errorf("decode actions: %w", err)
	}
	return actions, nil
}
