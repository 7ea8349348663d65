package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/tournament-data/internal/domain/points"
	"github.com/riskibarqy/tournament-data/internal/domain/settings"
	"github.com/riskibarqy/tournament-data/internal/domain/team"
	"github.com/riskibarqy/tournament-data/internal/platform/logging"
)

const defaultPointsWorkers = 4

// PointsProvider computes a team's points from an external statistics site.
type PointsProvider interface {
	GetTeamPoints(ctx context.Context, t team.Team, s settings.Settings) (points.Report, error)
}

type PointsService struct {
	store    *DocumentStore
	provider PointsProvider
	workers  int
	logger   *logging.Logger
}

func NewPointsService(store *DocumentStore, provider PointsProvider, workers int, logger *logging.Logger) *PointsService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = defaultPointsWorkers
	}

	return &PointsService{
		store:    store,
		provider: provider,
		workers:  workers,
		logger:   logger,
	}
}

func (s *PointsService) TeamPoints(ctx context.Context, teamID int64) (points.Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.TeamPoints")
	defer span.End()

	if teamID <= 0 {
		return points.Report{}, fmt.Errorf("%w: team id must be greater than zero", ErrInvalidInput)
	}
	if s.provider == nil {
		return points.Report{}, fmt.Errorf("%w: points provider is not configured", ErrUnsupportedOperation)
	}

	t, ok, err := s.store.Team(ctx, teamID)
	if err != nil {
		return points.Report{}, fmt.Errorf("get team: %w", err)
	}
	if !ok {
		return points.Report{}, fmt.Errorf("%w: team=%d", ErrNotFound, teamID)
	}
	cfg, err := s.store.Settings(ctx)
	if err != nil {
		return points.Report{}, fmt.Errorf("get settings: %w", err)
	}

	report, err := s.provider.GetTeamPoints(ctx, t, cfg)
	if err != nil {
		return points.Report{}, fmt.Errorf("get team points team=%d: %w", teamID, err)
	}
	return report, nil
}

// AllTeamPoints computes every team's report on a bounded worker pool. Reports
// come back in team order; teams whose lookup failed are left out and their
// errors joined into the returned error.
func (s *PointsService) AllTeamPoints(ctx context.Context) ([]points.Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.AllTeamPoints")
	defer span.End()

	if s.provider == nil {
		return nil, fmt.Errorf("%w: points provider is not configured", ErrUnsupportedOperation)
	}

	teams, err := s.store.Teams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	cfg, err := s.store.Settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	if len(teams) == 0 {
		return []points.Report{}, nil
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, fmt.Errorf("create points worker pool: %w", err)
	}
	defer pool.Release()

	reports := make([]points.Report, len(teams))
	errs := make([]error, len(teams))
	var wg sync.WaitGroup
	for i := range teams {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				errs[i] = ctx.Err()
				return
			}
			reports[i], errs[i] = s.provider.GetTeamPoints(ctx, teams[i], cfg)
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = fmt.Errorf("submit team=%d: %w", teams[i].ID, submitErr)
		}
	}
	wg.Wait()

	out := make([]points.Report, 0, len(teams))
	var failed []error
	for i := range teams {
		if errs[i] != nil {
			s.logger.WarnContext(ctx, "team points lookup failed", "team_id", teams[i].ID, "error", errs[i])
			failed = append(failed, fmt.Errorf("team=%d: %w", teams[i].ID, errs[i]))
			continue
		}
		out = append(out, reports[i])
	}
	return out, errors.Join(failed...)
}
