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

// explorationRepo implements ExplorationRepo with ent-built SQL.
type explorationRepo struct {
	db *sql.DB
}

func (r *explorationRepo) Save(ctx context.Context, rec *ExplorationRecord) error {
	if rec.ID == "" {
		return errors.New("save exploration: empty id")
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}

	query, args := builder().Insert(ExplorationsTable.Name).
		Columns("id", "version", "title", "data", "updated_at").
		Values(rec.ID, rec.Version, rec.Title, jsonText(rec.Data, "{}"), rec.UpdatedAt).
		OnConflict(entsql.ConflictColumns("id", "version"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save exploration: %w", err)
	}
	return nil
}

func (r *explorationRepo) Get(ctx context.Context, id string) (*ExplorationRecord, error) {
	b := builder()
	query, args := b.Select("id", "version", "title", "data", "updated_at").
		From(b.Table(ExplorationsTable.Name)).
		Where(entsql.EQ("id", id)).
		OrderBy(entsql.Desc("version")).
		Limit(1).
		Query()
	return r.getOne(ctx, id, query, args)
}

func (r *explorationRepo) GetVersion(ctx context.Context, id string, version int) (*ExplorationRecord, error) {
	b := builder()
	query, args := b.Select("id", "version", "title", "data", "updated_at").
		From(b.Table(ExplorationsTable.Name)).
		Where(entsql.And(entsql.EQ("id", id), entsql.EQ("version", version))).
		Query()
	return r.getOne(ctx, fmt.Sprintf("%s@%d", id, version), query, args)
}

func (r *explorationRepo) getOne(ctx context.Context, label, query string, args []any) (*ExplorationRecord, error) {
	var rec ExplorationRecord
	var data string
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&rec.ID, &rec.Version, &rec.Title, &data, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("exploration %s: %w", label, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get exploration: %w", err)
	}
	rec.Data = json.RawMessage(data)
	return &rec, nil
}

func (r *explorationRepo) List(ctx context.Context) ([]ExplorationRecord, error) {
	b := builder()
	query, args := b.Select("id", "version", "title", "updated_at").
		From(b.Table(ExplorationsTable.Name)).
		OrderBy("id", entsql.Desc("version")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list explorations: %w", err)
	}
	defer rows.Close()

	var out []ExplorationRecord
	for rows.Next() {
		var rec ExplorationRecord
		if err := rows.Scan(&rec.ID, &rec.Version, &rec.Title, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan exploration: %w", err)
		}
		// Rows arrive newest version first within each id.
		if n := len(out); n > 0 && out[n-1].ID == rec.ID {
			continue
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
