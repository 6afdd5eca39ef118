package exploration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/playlens/internal/store"
)

// Service keeps imported explorations in the store.
type Service struct {
	repo   store.ExplorationRepo
	logger *zap.Logger
}

// NewService creates a Service. A nil logger disables logging.
func NewService(repo store.ExplorationRepo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Import validates exp and stores it under its ID and version.
func (s *Service) Import(ctx context.Context, exp *Exploration) error {
	if err := exp.Validate(); err != nil {
		return fmt.Errorf("invalid exploration %q: %w", exp.ID, err)
	}
	data, err := json.Marshal(exp)
	if err != nil {
		return fmt.Errorf("encode exploration: %w", err)
	}
	if err := s.repo.Save(ctx, &store.ExplorationRecord{
		ID:      exp.ID,
		Version: exp.Version,
		Title:   exp.Title,
		Data:    data,
	}); err != nil {
		return err
	}
	s.logger.Info("exploration imported",
		zap.String("exp_id", exp.ID),
		zap.Int("version", exp.Version),
		zap.Int("states", len(exp.States)),
	)
	return nil
}

// Get returns the given version of an exploration, or the latest one when
// version is zero.
func (s *Service) Get(ctx context.Context, id string, version int) (*Exploration, error) {
	var rec *store.ExplorationRecord
	var err error
	if version > 0 {
		rec, err = s.repo.GetVersion(ctx, id, version)
	} else {
		rec, err = s.repo.Get(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	return Parse(rec.Data)
}

// ForPlaythrough returns the exploration version a playthrough was
// recorded against, falling back to the latest version. It returns nil
// without error when the exploration was never imported.
func (s *Service) ForPlaythrough(ctx context.Context, id string, version int) (*Exploration, error) {
	exp, err := s.Get(ctx, id, version)
	if errors.Is(err, store.ErrNotFound) && version > 0 {
		s.logger.Debug("exploration version not imported, using latest",
			zap.String("exp_id", id), zap.Int("version", version))
		exp, err = s.Get(ctx, id, 0)
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return exp, err
}

// List returns the latest version of each stored exploration, without
// states.
func (s *Service) List(ctx context.Context) ([]store.ExplorationRecord, error) {
	return s.repo.List(ctx)
}
