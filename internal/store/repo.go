package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	ExpID     string // playthroughs only
	IssueType string // playthroughs only
	Purpose   string // LLM events only
}

// PlaythroughRecord is a persisted playthrough. Actions and issue args are
// kept in their backend JSON form.
type PlaythroughRecord struct {
	ID                     string
	Sequence               int64
	ExpID                  string
	ExpVersion             int
	IssueType              string
	IssueCustomizationArgs json.RawMessage
	Actions                json.RawMessage
	CreatedAt              time.Time
}

// PlaythroughRepo stores recorded playthroughs.
type PlaythroughRepo interface {
	// Save inserts or replaces a playthrough. A new sequence number is
	// assigned on every save.
	Save(ctx context.Context, rec *PlaythroughRecord) error

	// Get returns the playthrough with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*PlaythroughRecord, error)

	// List returns playthroughs newest first.
	List(ctx context.Context, opts QueryOpts) ([]PlaythroughRecord, error)

	// Delete removes a playthrough. Deleting a missing ID returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// CountByIssue counts playthroughs per issue type, optionally for one
	// exploration.
	CountByIssue(ctx context.Context, expID string) (map[string]int, error)
}

// ExplorationRecord is a persisted exploration version.
type ExplorationRecord struct {
	ID        string
	Version   int
	Title     string
	Data      json.RawMessage
	UpdatedAt time.Time
}

// ExplorationRepo stores explorations by ID and version.
type ExplorationRepo interface {
	// Save inserts or replaces the given version.
	Save(ctx context.Context, rec *ExplorationRecord) error

	// Get returns the latest version of an exploration or ErrNotFound.
	Get(ctx context.Context, id string) (*ExplorationRecord, error)

	// GetVersion returns a specific version or ErrNotFound.
	GetVersion(ctx context.Context, id string, version int) (*ExplorationRecord, error)

	// List returns the latest version of every exploration, without Data.
	List(ctx context.Context) ([]ExplorationRecord, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMPurposeUsage aggregates LLM calls by purpose.
type LLMPurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates LLM token usage by model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns a single event or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMPurposeUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
