package playthrough

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/playlens/internal/store"
)

// Service persists playthroughs through the store.
type Service struct {
	repo   store.PlaythroughRepo
	logger *zap.Logger
}

// NewService creates a Service. A nil logger disables logging.
func NewService(repo store.PlaythroughRepo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Save stores p, replacing any playthrough with the same ID.
func (s *Service) Save(ctx context.Context, p *Playthrough) error {
	rec, err := toRecord(p)
	if err != nil {
		return err
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		return err
	}
	p.CreatedAt = rec.CreatedAt
	s.logger.Debug("playthrough saved",
		zap.String("id", p.ID),
		zap.String("exp_id", p.ExpID),
		zap.Int64("sequence", rec.Sequence),
	)
	return nil
}

// Get loads a playthrough by ID.
func (s *Service) Get(ctx context.Context, id string) (*Playthrough, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return fromRecord(rec)
}

// List loads playthroughs matching opts, newest first.
func (s *Service) List(ctx context.Context, opts store.QueryOpts) ([]*Playthrough, error) {
	recs, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	out := make([]*Playthrough, 0, len(recs))
	for i := range recs {
		p, err := fromRecord(&recs[i])
		if err != nil {
			s.logger.Warn("skipping unreadable playthrough",
				zap.String("id", recs[i].ID), zap.Error(err))
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Delete removes a playthrough.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// CountByIssue counts stored playthroughs per issue type.
func (s *Service) CountByIssue(ctx context.Context, expID string) (map[IssueType]int, error) {
	counts, err := s.repo.CountByIssue(ctx, expID)
	if err != nil {
		return nil, err
	}
	out := make(map[IssueType]int, len(counts))
	for k, v := range counts {
		out[IssueType(k)] = v
	}
	return out, nil
}

func toRecord(p *Playthrough) (*store.PlaythroughRecord, error) {
	d := p.ToBackendDict()
	args, err := json.Marshal(d.IssueCustomizationArgs)
	if err != nil {
		return nil, fmt.Errorf("encode issue args: %w", err)
	}
	actions, err := json.Marshal(d.Actions)
	if err != nil {
		return nil, fmt.Errorf("encode actions: %w", err)
	}
	return &store.PlaythroughRecord{
		ID:                     p.ID,
		ExpID:                  p.ExpID,
		ExpVersion:             p.ExpVersion,
		IssueType:              string(p.IssueType),
		IssueCustomizationArgs: args,
		Actions:                actions,
		CreatedAt:              p.CreatedAt,
	}, nil
}

func fromRecord(rec *store.PlaythroughRecord) (*Playthrough, error) {
	d := BackendDict{
		PlaythroughID: rec.ID,
		ExpID:         rec.ExpID,
		ExpVersion:    rec.ExpVersion,
		IssueType:     rec.IssueType,
	}
	if err := json.Unmarshal(rec.IssueCustomizationArgs, &d.IssueCustomizationArgs); err != nil {
		return nil, fmt.Errorf("decode issue args: %w", err)
	}
	if err := json.Unmarshal(rec.Actions, &d.Actions); err != nil {
		return nil, fmt.Errorf("decode actions: %w", err)
	}
	p, err := FromBackendDict(d)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = rec.CreatedAt
	return p, nil
}
