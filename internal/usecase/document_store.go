package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/tournament-data/internal/domain/document"
	"github.com/riskibarqy/tournament-data/internal/domain/match"
	"github.com/riskibarqy/tournament-data/internal/domain/player"
	"github.com/riskibarqy/tournament-data/internal/domain/rule"
	"github.com/riskibarqy/tournament-data/internal/domain/settings"
	"github.com/riskibarqy/tournament-data/internal/domain/team"
	"github.com/riskibarqy/tournament-data/internal/platform/cache"
	"github.com/riskibarqy/tournament-data/internal/platform/logging"
)

const (
	documentCacheKey = "tournament-document"
	DefaultSource    = "default"
)

// DocumentStore loads the tournament document from its candidate sources and
// keeps the result until Invalidate is called.
type DocumentStore struct {
	sources []document.Source
	cache   *cache.Store[document.Snapshot]
	logger  *logging.Logger
}

func NewDocumentStore(sources []document.Source, logger *logging.Logger) *DocumentStore {
	if logger == nil {
		logger = logging.Default()
	}

	return &DocumentStore{
		sources: sources,
		cache:   cache.NewStore[document.Snapshot](),
		logger:  logger,
	}
}

// Load returns the cached document, loading it first when needed. When every
// source fails the default document is cached and returned with Degraded set;
// only a cancelled context produces an error. The returned document is shared
// with the cache and must not be modified.
func (s *DocumentStore) Load(ctx context.Context) (document.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DocumentStore.Load")
	defer span.End()

	return s.cache.GetOrLoad(ctx, documentCacheKey, s.Fetch)
}

// Fetch walks the sources without consulting or filling the cache.
func (s *DocumentStore) Fetch(ctx context.Context) (document.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DocumentStore.Fetch")
	defer span.End()

	for _, src := range s.sources {
		doc, err := src.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return document.Snapshot{}, ctx.Err()
			}
			if errors.Is(err, ErrConfiguration) {
				s.logger.DebugContext(ctx, "skip unconfigured tournament document source",
					"source", src.Name(),
				)
				continue
			}
			s.logger.WarnContext(ctx, "load tournament document from source failed",
				"source", src.Name(),
				"error", err,
			)
			continue
		}

		doc.Normalize()
		return document.Snapshot{Document: doc, Source: src.Name()}, nil
	}

	s.logger.ErrorContext(ctx, "all tournament document sources failed, using default document",
		"sources", len(s.sources),
	)
	return document.Snapshot{
		Document: document.Default(),
		Source:   DefaultSource,
		Degraded: true,
	}, nil
}

func (s *DocumentStore) Invalidate(ctx context.Context) {
	s.cache.Delete(ctx, documentCacheKey)
}

func (s *DocumentStore) Players(ctx context.Context, filter player.Filter) ([]player.Player, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	return filter.Apply(player.FromRecords(snap.Document.Players)), nil
}

func (s *DocumentStore) Player(ctx context.Context, id int64) (player.Player, bool, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return player.Player{}, false, fmt.Errorf("load document: %w", err)
	}

	rec, ok := findRecord(snap.Document.Players, id)
	if !ok {
		return player.Player{}, false, nil
	}
	return player.FromRecord(rec), true, nil
}

// PlayerRecord returns the raw player record, including fields the Player view
// does not model. The record is shared with the cache and must not be modified.
func (s *DocumentStore) PlayerRecord(ctx context.Context, id int64) (document.Record, bool, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("load document: %w", err)
	}

	rec, ok := findRecord(snap.Document.Players, id)
	return rec, ok, nil
}

func (s *DocumentStore) Teams(ctx context.Context) ([]team.Team, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	return resolveTeams(snap.Document), nil
}

func (s *DocumentStore) Team(ctx context.Context, id int64) (team.Team, bool, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return team.Team{}, false, fmt.Errorf("load document: %w", err)
	}

	rec, ok := findRecord(snap.Document.Teams, id)
	if !ok {
		return team.Team{}, false, nil
	}
	return resolveTeam(rec, indexRecords(snap.Document.Players)), true, nil
}

func (s *DocumentStore) Matches(ctx context.Context) ([]match.Match, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	return attachTeamNames(match.FromRecords(snap.Document.Matches), snap.Document.Teams), nil
}

func (s *DocumentStore) Bracket(ctx context.Context) (match.Bracket, error) {
	matches, err := s.Matches(ctx)
	if err != nil {
		return match.Bracket{}, err
	}

	return buildBracket(matches), nil
}

func (s *DocumentStore) Rules(ctx context.Context) ([]rule.Rule, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	return rule.Ordered(snap.Document.Rules), nil
}

func (s *DocumentStore) RuleCards(ctx context.Context) ([]rule.Card, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	return rule.OrderedCards(snap.Document.RuleCards), nil
}

func (s *DocumentStore) Settings(ctx context.Context) (settings.Settings, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("load document: %w", err)
	}

	return settings.FromRecord(snap.Document.Settings), nil
}
