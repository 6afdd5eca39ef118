package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions applied by the ent migrator on Open.

var (
	// PlaythroughsColumns holds the columns for the "playthroughs" table.
	PlaythroughsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "exp_id", Type: field.TypeString},
		{Name: "exp_version", Type: field.TypeInt},
		{Name: "issue_type", Type: field.TypeString},
		{Name: "issue_customization_args", Type: field.TypeJSON},
		{Name: "actions", Type: field.TypeJSON},
		{Name: "created_at", Type: field.TypeTime},
	}
	// PlaythroughsTable holds the schema information for the "playthroughs" table.
	PlaythroughsTable = &schema.Table{
		Name:       "playthroughs",
		Columns:    PlaythroughsColumns,
		PrimaryKey: []*schema.Column{PlaythroughsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "playthrough_exp_id",
				Unique:  false,
				Columns: []*schema.Column{PlaythroughsColumns[2]},
			},
			{
				Name:    "playthrough_issue_type",
				Unique:  false,
				Columns: []*schema.Column{PlaythroughsColumns[4]},
			},
		},
	}

	// ExplorationsColumns holds the columns for the "explorations" table.
	ExplorationsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "version", Type: field.TypeInt},
		{Name: "title", Type: field.TypeString, Default: ""},
		{Name: "data", Type: field.TypeJSON},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// ExplorationsTable holds the schema information for the "explorations" table.
	ExplorationsTable = &schema.Table{
		Name:       "explorations",
		Columns:    ExplorationsColumns,
		PrimaryKey: []*schema.Column{ExplorationsColumns[0], ExplorationsColumns[1]},
	}

	// LlmRequestEventsColumns holds the columns for the "llm_request_events" table.
	LlmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Default: ""},
		{Name: "response_body", Type: field.TypeString, Default: ""},
	}
	// LlmRequestEventsTable holds the schema information for the "llm_request_events" table.
	LlmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LlmRequestEventsColumns,
		PrimaryKey: []*schema.Column{LlmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequestevent_purpose",
				Unique:  false,
				Columns: []*schema.Column{LlmRequestEventsColumns[5]},
			},
			{
				Name:    "llmrequestevent_timestamp",
				Unique:  false,
				Columns: []*schema.Column{LlmRequestEventsColumns[2]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		PlaythroughsTable,
		ExplorationsTable,
		LlmRequestEventsTable,
	}
)
