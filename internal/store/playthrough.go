package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var playthroughFields = []string{
	"id", "sequence", "exp_id", "exp_version", "issue_type",
	"issue_customization_args", "actions", "created_at",
}

// playthroughRepo implements PlaythroughRepo with ent-built SQL.
type playthroughRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *playthroughRepo) Save(ctx context.Context, rec *PlaythroughRecord) error {
	if rec.ID == "" {
		return errors.New("save playthrough: empty id")
	}
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	query, args := builder().Insert(PlaythroughsTable.Name).
		Columns(playthroughFields...).
		Values(
			rec.ID,
			seqNum,
			rec.ExpID,
			rec.ExpVersion,
			rec.IssueType,
			jsonText(rec.IssueCustomizationArgs, "{}"),
			jsonText(rec.Actions, "[]"),
			rec.CreatedAt,
		).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save playthrough: %w", err)
	}
	rec.Sequence = seqNum
	return nil
}

func (r *playthroughRepo) Get(ctx context.Context, id string) (*PlaythroughRecord, error) {
	b := builder()
	query, args := b.Select(playthroughFields...).
		From(b.Table(PlaythroughsTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	rec, err := scanPlaythrough(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("playthrough %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get playthrough: %w", err)
	}
	return rec, nil
}

func (r *playthroughRepo) List(ctx context.Context, opts QueryOpts) ([]PlaythroughRecord, error) {
	b := builder()
	sel := b.Select(playthroughFields...).From(b.Table(PlaythroughsTable.Name))
	if opts.ExpID != "" {
		sel.Where(entsql.EQ("exp_id", opts.ExpID))
	}
	if opts.IssueType != "" {
		sel.Where(entsql.EQ("issue_type", opts.IssueType))
	}
	applySequenceOpts(sel, opts, "created_at")
	query, args := sel.OrderBy(entsql.Desc("sequence")).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list playthroughs: %w", err)
	}
	defer rows.Close()

	var out []PlaythroughRecord
	for rows.Next() {
		rec, err := scanPlaythrough(rows)
		if err != nil {
			return nil, fmt.Errorf("scan playthrough: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *playthroughRepo) Delete(ctx context.Context, id string) error {
	query, args := builder().Delete(PlaythroughsTable.Name).
		Where(entsql.EQ("id", id)).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete playthrough: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete playthrough: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("playthrough %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *playthroughRepo) CountByIssue(ctx context.Context, expID string) (map[string]int, error) {
	b := builder()
	sel := b.Select("issue_type", entsql.Count("*")).
		From(b.Table(PlaythroughsTable.Name)).
		GroupBy("issue_type")
	if expID != "" {
		sel.Where(entsql.EQ("exp_id", expID))
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count playthroughs: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var issue string
		var n int
		if err := rows.Scan(&issue, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[issue] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlaythrough(row rowScanner) (*PlaythroughRecord, error) {
	var rec PlaythroughRecord
	var issueArgs, actions string
	err := row.Scan(
		&rec.ID,
		&rec.Sequence,
		&rec.ExpID,
		&rec.ExpVersion,
		&rec.IssueType,
		&issueArgs,
		&actions,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.IssueCustomizationArgs = json.RawMessage(issueArgs)
	rec.Actions = json.RawMessage(actions)
	return &rec, nil
}

// applySequenceOpts adds the shared sequence, time window and limit
// filters of QueryOpts to a selector.
func applySequenceOpts(sel *entsql.Selector, opts QueryOpts, timeCol string) {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE(timeCol, opts.From))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE(timeCol, opts.To))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}

func jsonText(raw json.RawMessage, empty string) string {
	if len(raw) == 0 {
		return empty
	}
	return string(raw)
}
