package mealplan

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/mealweek/internal/domain/nutrition"
	apperrors "github.com/yanqian/mealweek/pkg/errors"
	"github.com/yanqian/mealweek/pkg/metrics"
	"github.com/yanqian/mealweek/pkg/util"
)

// Service generates weekly meal plans.
type Service interface {
	// Targets resolves the daily and per-slot calorie targets for a profile.
	Targets(profile nutrition.Profile, mealsPerDay int) (CalorieTarget, error)
	// GeneratePlan acquires one recipe pool per slot and tiles them over
	// the week. observer may be nil.
	GeneratePlan(ctx context.Context, req PlanRequest, observer RetryObserver) (Plan, error)
}

type service struct {
	cfg      Config
	searcher RecipeSearcher
	cache    *PoolCache
	metrics  *metrics.Collector
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// NewService wires up the plan assembler.
func NewService(cfg Config, searcher RecipeSearcher, store Store, collector *metrics.Collector, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		searcher: searcher,
		cache:    NewPoolCache(store, cfg.CacheTTL, collector, logger),
		metrics:  collector,
		logger:   logger.With("component", "mealplan.service"),
		now:      util.NowUTC,
		newID:    func() string { return uuid.NewString() },
	}
}

func (s *service) Targets(profile nutrition.Profile, mealsPerDay int) (CalorieTarget, error) {
	if err := profile.Validate(); err != nil {
		return CalorieTarget{}, err
	}
	return PlanSlots(mealsPerDay, nutrition.DailyCalories(profile))
}

type slotOutcome struct {
	pool    RecipePool
	term    string
	relaxed bool
	source  string
	err     error
}

func (s *service) GeneratePlan(ctx context.Context, req PlanRequest, observer RetryObserver) (Plan, error) {
	started := s.now()
	target, err := s.Targets(req.Profile, req.MealsPerDay)
	if err != nil {
		s.metrics.PlanCompleted(apperrors.CodeInvalidInput, 0)
		return Plan{}, err
	}

	// Upstream calls and cache writes finish even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	pools := make([]RecipePool, len(target.Slots))
	results := make([]SlotResult, len(target.Slots))
	var failures []error
	for i, slot := range target.Slots {
		outcome := s.acquire(ctx, slot, req.Filters, observer)
		pools[i] = outcome.pool
		results[i] = SlotResult{
			SlotTarget: slot,
			SearchTerm: outcome.term,
			PoolSize:   len(outcome.pool),
			Relaxed:    outcome.relaxed,
			Source:     outcome.source,
		}
		if outcome.err != nil {
			results[i].Error = apperrors.CodeOf(outcome.err)
			failures = append(failures, outcome.err)
			s.logger.Warn("slot acquisition failed", "slot", slot.Name, "index", i, "error", outcome.err)
			continue
		}
		if len(outcome.pool) == 0 {
			s.logger.Info("slot has no matching recipes", "slot", slot.Name, "index", i)
		}
	}

	grid := TileWeek(pools)
	if grid.IsEmpty() {
		err := s.planFailure(failures, len(target.Slots))
		s.metrics.PlanCompleted(outcomeLabel(err), s.now().Sub(started))
		return Plan{}, err
	}

	plan := Plan{
		ID:          s.newID(),
		GeneratedAt: s.now().UTC(),
		DailyKcal:   target.DailyKcal,
		Filters:     req.Filters,
		Slots:       results,
		Grid:        grid,
	}
	s.metrics.PlanCompleted("ok", s.now().Sub(started))
	s.logger.Info("plan generated", "plan_id", plan.ID, "daily_kcal", plan.DailyKcal, "slots", len(results))
	return plan, nil
}

// acquire fetches a slot pool, relaxing to the generic term once when the
// slot-specific search comes back empty.
func (s *service) acquire(ctx context.Context, slot SlotTarget, filters Filters, observer RetryObserver) slotOutcome {
	term := SearchTerm(slot.Name)
	pool, source, err := s.fetchPool(ctx, term, slot.Kcal, filters, observer)
	if err != nil {
		return slotOutcome{term: term, err: err}
	}
	if len(pool) > 0 || term == GenericSearchTerm {
		return slotOutcome{pool: pool, term: term, source: source}
	}

	s.metrics.Relaxation()
	s.logger.Info("relaxing slot search", "slot", slot.Name, "term", GenericSearchTerm)
	pool, source, err = s.fetchPool(ctx, GenericSearchTerm, slot.Kcal, filters, observer)
	if err != nil {
		return slotOutcome{term: GenericSearchTerm, relaxed: true, err: err}
	}
	return slotOutcome{pool: pool, term: GenericSearchTerm, relaxed: true, source: source}
}

func (s *service) fetchPool(ctx context.Context, term string, kcal int, filters Filters, observer RetryObserver) (RecipePool, string, error) {
	in := QueryInput{SearchText: term, SlotKcal: &kcal, Filters: filters}
	key := CacheKey(in)
	if pool, ok := s.cache.Get(ctx, key); ok {
		return pool, SourceCache, nil
	}
	pool, err := s.searcher.Search(ctx, BuildQuery(in), observer)
	if err != nil {
		return nil, "", err
	}
	s.cache.Put(ctx, key, pool)
	return pool, SourceUpstream, nil
}

// planFailure picks the plan-level error when no slot produced a recipe.
// A network failure wins over upstream errors; only when every slot failed
// is an error other than no_matches reported.
func (s *service) planFailure(failures []error, slots int) error {
	if len(failures) < slots || len(failures) == 0 {
		return apperrors.Wrap(apperrors.CodeNoMatches, "no recipes matched; try relaxing filters or cuisines", nil)
	}
	for _, err := range failures {
		if apperrors.IsCode(err, apperrors.CodeNetwork) {
			return err
		}
	}
	return failures[len(failures)-1]
}

func outcomeLabel(err error) string {
	if code := apperrors.CodeOf(err); code != "" {
		return code
	}
	return apperrors.CodeInternal
}
