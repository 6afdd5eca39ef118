// Package exploration holds the lesson graph that playthroughs are recorded
// against: its cards ("states"), their interactions and the parameters the
// lesson declares.
package exploration

import (
	"errors"
	"fmt"
	"sort"

	"github.com/abhisek/playlens/internal/setinput"
)

// SetInputInteractionID identifies the multi-select interaction whose
// answers are evaluated with the setinput rules.
const SetInputInteractionID = "SetInput"

// Exploration is a lesson made of cards connected by answer outcomes.
type Exploration struct {
	ID            string               `yaml:"id" json:"id"`
	Version       int                  `yaml:"version" json:"version"`
	Title         string               `yaml:"title" json:"title"`
	InitStateName string               `yaml:"init_state_name" json:"init_state_name"`
	States        map[string]State     `yaml:"states" json:"states"`
	ParamSpecs    map[string]ParamSpec `yaml:"param_specs,omitempty" json:"param_specs,omitempty"`
}

// State is a single card.
type State struct {
	Content     string      `yaml:"content,omitempty" json:"content,omitempty"`
	Interaction Interaction `yaml:"interaction" json:"interaction"`
}

// Interaction is the widget shown on a card and how answers to it route.
type Interaction struct {
	ID string `yaml:"id" json:"id"`
	// CustomizationArgs keeps the backend {"name": {"value": ...}} form.
	CustomizationArgs map[string]any `yaml:"customization_args,omitempty" json:"customization_args,omitempty"`
	AnswerGroups      []AnswerGroup  `yaml:"answer_groups,omitempty" json:"answer_groups,omitempty"`
	DefaultOutcome    *Outcome       `yaml:"default_outcome,omitempty" json:"default_outcome,omitempty"`
}

// AnswerGroup routes an answer to Outcome when any of its rules match.
type AnswerGroup struct {
	RuleSpecs []RuleSpec `yaml:"rule_specs" json:"rule_specs"`
	Outcome   Outcome    `yaml:"outcome" json:"outcome"`
}

// RuleSpec names a rule and its inputs.
type RuleSpec struct {
	RuleType string         `yaml:"rule_type" json:"rule_type"`
	Inputs   map[string]any `yaml:"inputs" json:"inputs"`
}

// Outcome is where an answer sends the learner and what they are told.
type Outcome struct {
	Dest     string `yaml:"dest" json:"dest"`
	Feedback string `yaml:"feedback,omitempty" json:"feedback,omitempty"`
}

// StateNames returns the card names in sorted order.
func (e *Exploration) StateNames() []string {
	names := make([]string, 0, len(e.States))
	for name := range e.States {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParamNames returns the declared parameter names in sorted order.
func (e *Exploration) ParamNames() []string {
	names := make([]string, 0, len(e.ParamSpecs))
	for name := range e.ParamSpecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InteractionCustomizationArgs returns the customization args of a card's
// interaction. ok is false for unknown cards and cards without args.
func (e *Exploration) InteractionCustomizationArgs(stateName string) (map[string]any, bool) {
	st, ok := e.States[stateName]
	if !ok || st.Interaction.CustomizationArgs == nil {
		return nil, false
	}
	return st.Interaction.CustomizationArgs, true
}

// InteractionID returns the interaction used on a card.
func (e *Exploration) InteractionID(stateName string) (string, bool) {
	st, ok := e.States[stateName]
	if !ok {
		return "", false
	}
	return st.Interaction.ID, true
}

// Classify routes a SetInput answer on the given card. The first answer
// group with a matching rule wins; otherwise the default outcome applies,
// and without one the learner stays on the card.
func (e *Exploration) Classify(stateName string, answer []string) (Outcome, error) {
	st, ok := e.States[stateName]
	if !ok {
		return Outcome{}, fmt.Errorf("unknown state %q", stateName)
	}
	if st.Interaction.ID != SetInputInteractionID {
		return Outcome{}, fmt.Errorf("state %q uses %q, not %s", stateName, st.Interaction.ID, SetInputInteractionID)
	}

	for _, group := range st.Interaction.AnswerGroups {
		for _, spec := range group.RuleSpecs {
			matched, err := setinput.Evaluate(spec.RuleType, answer, spec.ruleInput())
			if err != nil {
				return Outcome{}, fmt.Errorf("state %q: %w", stateName, err)
			}
			if matched {
				return group.Outcome, nil
			}
		}
	}
	if st.Interaction.DefaultOutcome != nil {
		return *st.Interaction.DefaultOutcome, nil
	}
	return Outcome{Dest: stateName}, nil
}

// Validate checks the graph is internally consistent.
func (e *Exploration) Validate() error {
	var errs []error
	if e.ID == "" {
		errs = append(errs, errors.New("exploration id is required"))
	}
	if len(e.States) == 0 {
		errs = append(errs, errors.New("exploration has no states"))
	}
	if _, ok := e.States[e.InitStateName]; !ok {
		errs = append(errs, fmt.Errorf("init state %q does not exist", e.InitStateName))
	}

	for _, name := range e.StateNames() {
		it := e.States[name].Interaction
		for gi, group := range it.AnswerGroups {
			if _, ok := e.States[group.Outcome.Dest]; !ok {
				errs = append(errs, fmt.Errorf("state %q answer group %d: unknown dest %q", name, gi, group.Outcome.Dest))
			}
			if it.ID != SetInputInteractionID {
				continue
			}
			for _, spec := range group.RuleSpecs {
				if _, err := setinput.Lookup(spec.RuleType); err != nil {
					errs = append(errs, fmt.Errorf("state %q answer group %d: %w", name, gi, err))
				}
			}
		}
		if it.DefaultOutcome != nil {
			if _, ok := e.States[it.DefaultOutcome.Dest]; !ok {
				errs = append(errs, fmt.Errorf("state %q default outcome: unknown dest %q", name, it.DefaultOutcome.Dest))
			}
		}
	}

	for _, name := range e.ParamNames() {
		if err := e.ParamSpecs[name].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("param %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// ruleInput reads the "x" input of a SetInput rule.
func (r RuleSpec) ruleInput() setinput.RuleInput {
	var in setinput.RuleInput
	switch xs := r.Inputs["x"].(type) {
	case []string:
		in.X = xs
	case []any:
		for _, v := range xs {
			if s, ok := v.(string); ok {
				in.X = append(in.X, s)
			} else {
				in.X = append(in.X, fmt.Sprint(v))
			}
		}
	}
	return in
}
