// Package learneraction models the actions a learner takes while playing
// through an exploration: starting it, submitting answers, and quitting.
package learneraction

import "fmt"

// Kind identifies which variant a LearnerAction holds. The string values
// match the backend action_type names.
type Kind string

const (
	KindExplorationStart Kind = "ExplorationStart"
	KindAnswerSubmit     Kind = "AnswerSubmit"
	KindExplorationQuit  Kind = "ExplorationQuit"
)

// CurrentSchemaVersion is the schema version stamped on newly recorded actions.
const CurrentSchemaVersion = 1

// Valid reports whether k is one of the known action kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindExplorationStart, KindAnswerSubmit, KindExplorationQuit:
		return true
	}
	return false
}

// Payload is the kind-specific data of a LearnerAction. The interface is
// sealed: only the three payload types in this package implement it.
type Payload interface {
	kind() Kind
	stateName() string
}

// ExplorationStart is recorded when the learner opens the exploration.
type ExplorationStart struct {
	StateName string
}

// AnswerSubmit is recorded each time the learner submits an answer.
type AnswerSubmit struct {
	StateName       string
	DestStateName   string
	InteractionID   string
	SubmittedAnswer any
	Feedback        string // feedback HTML shown to the learner
	TimeSpentMsecs  int64
}

// ExplorationQuit is recorded when the learner leaves the exploration.
type ExplorationQuit struct {
	StateName      string
	TimeSpentMsecs int64
}

func (ExplorationStart) kind() Kind { return KindExplorationStart }
func (AnswerSubmit) kind() Kind     { return KindAnswerSubmit }
func (ExplorationQuit) kind() Kind  { return KindExplorationQuit }

func (p ExplorationStart) stateName() string { return p.StateName }
func (p AnswerSubmit) stateName() string     { return p.StateName }
func (p ExplorationQuit) stateName() string  { return p.StateName }

// StaysInState reports whether the submission left the learner on the
// same card, which is how incorrect answers show up in a playthrough.
func (p AnswerSubmit) StaysInState() bool {
	return p.StateName == p.DestStateName
}

// LearnerAction is a single recorded action. Values are immutable; build
// them with New or NewWithVersion.
type LearnerAction struct {
	payload       Payload
	schemaVersion int
}

// New creates an action at the current schema version.
func New(p Payload) LearnerAction {
	return NewWithVersion(p, CurrentSchemaVersion)
}

// NewWithVersion creates an action with an explicit schema version.
func NewWithVersion(p Payload, schemaVersion int) LearnerAction {
	if p == nil {
		panic("learneraction: nil payload")
	}
	return LearnerAction{payload: p, schemaVersion: schemaVersion}
}

// Kind returns the action's variant.
func (a LearnerAction) Kind() Kind {
	return a.mustPayload().kind()
}

// SchemaVersion returns the schema version the action was recorded with.
func (a LearnerAction) SchemaVersion() int {
	return a.schemaVersion
}

// StateName returns the card the action happened on.
func (a LearnerAction) StateName() string {
	return a.mustPayload().stateName()
}

// Payload returns the kind-specific data. Callers switch on its concrete type.
func (a LearnerAction) Payload() Payload {
	return a.mustPayload()
}

// AsStart returns the ExplorationStart payload if a holds one.
func (a LearnerAction) AsStart() (ExplorationStart, bool) {
	p, ok := a.payload.(ExplorationStart)
	return p, ok
}

// AsSubmit returns the AnswerSubmit payload if a holds one.
func (a LearnerAction) AsSubmit() (AnswerSubmit, bool) {
	p, ok := a.payload.(AnswerSubmit)
	return p, ok
}

// AsQuit returns the ExplorationQuit payload if a holds one.
func (a LearnerAction) AsQuit() (ExplorationQuit, bool) {
	p, ok := a.payload.(ExplorationQuit)
	return p, ok
}

// String returns a short debug representation.
func (a LearnerAction) String() string {
	if a.payload == nil {
		return "LearnerAction(<zero>)"
	}
	return fmt.Sprintf("%s(%s)", a.payload.kind(), a.payload.stateName())
}

func (a LearnerAction) mustPayload() Payload {
	if a.payload == nil {
		panic("learneraction: zero LearnerAction used")
	}
	return a.payload
}
