package learneraction

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrUnknownKind is returned when a backend dict names an action type this
// package does not know.
var ErrUnknownKind = errors.New("unknown learner action type")

// Customization arg names used by the backend.
const (
	ArgStateName             = "state_name"
	ArgDestStateName         = "dest_state_name"
	ArgInteractionID         = "interaction_id"
	ArgSubmittedAnswer       = "submitted_answer"
	ArgFeedback              = "feedback"
	ArgTimeSpentStateMsecs   = "time_spent_state_in_msecs"
	ArgTimeSpentInStateMsecs = "time_spent_in_state_in_msecs"
)

// WrappedValue is the {"value": ...} envelope the backend puts around
// every customization arg.
type WrappedValue struct {
	Value any `json:"value"`
}

// BackendDict is the wire form of a learner action.
type BackendDict struct {
	ActionType              string                  `json:"action_type"`
	ActionCustomizationArgs map[string]WrappedValue `json:"action_customization_args"`
	SchemaVersion           int                     `json:"schema_version"`
}

// FromBackendDict unwraps a backend dict into a LearnerAction.
func FromBackendDict(d BackendDict) (LearnerAction, error) {
	args := d.ActionCustomizationArgs
	var p Payload

	switch Kind(d.ActionType) {
	case KindExplorationStart:
		state, err := stringArg(args, ArgStateName)
		if err != nil {
			return LearnerAction{}, err
		}
		p = ExplorationStart{StateName: state}

	case KindAnswerSubmit:
		var s AnswerSubmit
		var err error
		if s.StateName, err = stringArg(args, ArgStateName); err != nil {
			return LearnerAction{}, err
		}
		if s.DestStateName, err = stringArg(args, ArgDestStateName); err != nil {
			return LearnerAction{}, err
		}
		if s.InteractionID, err = stringArg(args, ArgInteractionID); err != nil {
			return LearnerAction{}, err
		}
		if s.TimeSpentMsecs, err = msecsArg(args, ArgTimeSpentStateMsecs); err != nil {
			return LearnerAction{}, err
		}
		s.SubmittedAnswer = args[ArgSubmittedAnswer].Value
		s.Feedback = feedbackHTML(args[ArgFeedback].Value)
		p = s

	case KindExplorationQuit:
		var q ExplorationQuit
		var err error
		if q.StateName, err = stringArg(args, ArgStateName); err != nil {
			return LearnerAction{}, err
		}
		if q.TimeSpentMsecs, err = msecsArg(args, ArgTimeSpentInStateMsecs); err != nil {
			return LearnerAction{}, err
		}
		p = q

	default:
		return LearnerAction{}, fmt.Errorf("%w: %q", ErrUnknownKind, d.ActionType)
	}

	version := d.SchemaVersion
	if version == 0 {
		version = CurrentSchemaVersion
	}
	return NewWithVersion(p, version), nil
}

// ToBackendDict wraps the action back into its wire form.
func (a LearnerAction) ToBackendDict() BackendDict {
	args := make(map[string]WrappedValue)

	switch p := a.Payload().(type) {
	case ExplorationStart:
		args[ArgStateName] = WrappedValue{p.StateName}
	case AnswerSubmit:
		args[ArgStateName] = WrappedValue{p.StateName}
		args[ArgDestStateName] = WrappedValue{p.DestStateName}
		args[ArgInteractionID] = WrappedValue{p.InteractionID}
		args[ArgSubmittedAnswer] = WrappedValue{p.SubmittedAnswer}
		args[ArgFeedback] = WrappedValue{p.Feedback}
		args[ArgTimeSpentStateMsecs] = WrappedValue{p.TimeSpentMsecs}
	case ExplorationQuit:
		args[ArgStateName] = WrappedValue{p.StateName}
		args[ArgTimeSpentInStateMsecs] = WrappedValue{p.TimeSpentMsecs}
	}

	return BackendDict{
		ActionType:              string(a.Kind()),
		ActionCustomizationArgs: args,
		SchemaVersion:           a.schemaVersion,
	}
}

// ParseJSON validates raw backend JSON and decodes it into a LearnerAction.
func ParseJSON(raw []byte) (LearnerAction, error) {
	if err := ValidateBackendJSON(raw); err != nil {
		return LearnerAction{}, err
	}
	var d BackendDict
	if err := json.Unmarshal(raw, &d); err != nil {
		return LearnerAction{}, fmt.Errorf("decode learner action: %w", err)
	}
	return FromBackendDict(d)
}

// MarshalJSON encodes the action as its backend dict.
func (a LearnerAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.ToBackendDict())
}

// UnmarshalJSON decodes a backend dict, validating it first.
func (a *LearnerAction) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func stringArg(args map[string]WrappedValue, name string) (string, error) {
	w, ok := args[name]
	if !ok {
		return "", fmt.Errorf("missing customization arg %q", name)
	}
	s, ok := w.Value.(string)
	if !ok {
		return "", fmt.Errorf("customization arg %q: expected string, got %T", name, w.Value)
	}
	return s, nil
}

// msecsArg reads a numeric duration. Missing durations decode as zero since
// older recordings omitted them.
func msecsArg(args map[string]WrappedValue, name string) (int64, error) {
	w, ok := args[name]
	if !ok || w.Value == nil {
		return 0, nil
	}
	switch v := w.Value.(type) {
	case float64:
		return int64(math.Round(v)), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("customization arg %q: %w", name, err)
		}
		return int64(math.Round(f)), nil
	default:
		return 0, fmt.Errorf("customization arg %q: expected number, got %T", name, w.Value)
	}
}

// feedbackHTML accepts both a plain HTML string and the {"_html": "..."}
// object some clients send.
func feedbackHTML(v any) string {
	switch f := v.(type) {
	case string:
		return f
	case map[string]any:
		if s, ok := f["_html"].(string); ok {
			return s
		}
		if s, ok := f["html"].(string); ok {
			return s
		}
	}
	return ""
}
