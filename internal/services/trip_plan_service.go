package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"tripplanner/internal/crew"
	"tripplanner/internal/models/db_models"
	"tripplanner/internal/models/request_models"
	"tripplanner/internal/models/response_models"
	"tripplanner/internal/repositories"
	"tripplanner/pkg/utils"
)

type TripPlanServiceInterface interface {
	FormOptions() response_models.TripFormOptionsResponse
	GenerateTravelPlan(ctx context.Context, sessionID string, req request_models.GenerateTripPlanRequest) (*response_models.TripPlanResponse, error)
	GetCurrentPlan(ctx context.Context, sessionID string) (*response_models.TripPlanResponse, error)
	GetCurrentSessionPlan(ctx context.Context, sessionID string) (*db_models.SessionPlan, error)
	ClearCurrentPlan(ctx context.Context, sessionID string) error
	GetPlanHistoryItem(ctx context.Context, sessionID, planID string) (*response_models.TripPlanHistoryItem, error)
	ListPlanHistory(ctx context.Context, sessionID string, page, pageSize int) ([]response_models.TripPlanHistoryItem, error)
	PurgeExpiredPlans(ctx context.Context, retention time.Duration) (int64, error)
}

type TripPlanServiceConfig struct {
	CrewTimeout time.Duration
	Location    *time.Location
}

type TripPlanService struct {
	crew     crew.Runner
	store    repositories.SessionPlanStore
	repo     repositories.TripPlanRepository
	logger   *zap.Logger
	cfg      TripPlanServiceConfig
	inflight singleflight.Group
	now      func() time.Time
}

func NewTripPlanService(
	runner crew.Runner,
	store repositories.SessionPlanStore,
	repo repositories.TripPlanRepository,
	logger *zap.Logger,
	cfg TripPlanServiceConfig,
) TripPlanServiceInterface {
	return newTripPlanService(runner, store, repo, logger, cfg)
}

func newTripPlanService(
	runner crew.Runner,
	store repositories.SessionPlanStore,
	repo repositories.TripPlanRepository,
	logger *zap.Logger,
	cfg TripPlanServiceConfig,
) *TripPlanService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TripPlanService{
		crew:   runner,
		store:  store,
		repo:   repo,
		logger: logger.Named("trip_plan"),
		cfg:    cfg,
		now:    time.Now,
	}
}

func (s *TripPlanService) today() time.Time {
	return utils.DateOnly(s.now(), s.cfg.Location)
}

func (s *TripPlanService) FormOptions() response_models.TripFormOptionsResponse {
	return FormOptions(s.today())
}

// GenerateTravelPlan validates the form, runs the crew and replaces the
// session's current plan. A failed run leaves the previous plan in place.
// Identical requests from one session share a single crew run.
func (s *TripPlanService) GenerateTravelPlan(ctx context.Context, sessionID string, req request_models.GenerateTripPlanRequest) (*response_models.TripPlanResponse, error) {
	today := s.today()
	form, err := BuildTripForm(req, today)
	if err != nil {
		return nil, err
	}
	if err := ValidateTripForm(form, today); err != nil {
		return nil, err
	}

	input := crew.Input{
		Origin:    form.Origin,
		Cities:    FormatCities(form.Destinations),
		DateRange: FormatDateRange(form.StartDate, form.EndDate),
		Interests: FormatInterests(form.Interests),
	}
	key := strings.Join([]string{sessionID, input.Origin, input.Cities, input.DateRange, input.Interests}, "|")

	// The shared run must outlive any single caller; each caller stops
	// waiting on its own context.
	runCtx := context.WithoutCancel(ctx)
	ch := s.inflight.DoChan(key, func() (interface{}, error) {
		return s.generate(runCtx, sessionID, form, input)
	})

	select {
	case <-ctx.Done():
		s.logger.Info("caller left before generation finished", zap.String("session_id", sessionID))
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("joined in-flight generation", zap.String("session_id", sessionID))
		}
		resp := *res.Val.(*response_models.TripPlanResponse)
		return &resp, nil
	}
}

func (s *TripPlanService) generate(ctx context.Context, sessionID string, form TripForm, input crew.Input) (*response_models.TripPlanResponse, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.cfg.CrewTimeout)
	defer cancel()

	started := s.now()
	s.logger.Info("generating travel plan",
		zap.String("session_id", sessionID),
		zap.String("origin", input.Origin),
		zap.String("cities", input.Cities),
		zap.String("date_range", input.DateRange))

	content, err := s.crew.Run(runCtx, input)
	if err != nil {
		s.logger.Error("crew run failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, &utils.GenerationError{Cause: err}
	}
	took := s.now().Sub(started)

	planID := uuid.New()
	plan := &db_models.SessionPlan{
		PlanID:       planID.String(),
		Origin:       form.Origin,
		Destinations: form.Destinations,
		StartDate:    utils.FormatDate(form.StartDate),
		EndDate:      utils.FormatDate(form.EndDate),
		Interests:    form.Interests,
		Content:      content,
		GeneratedAt:  s.now().Unix(),
	}
	if err := s.store.Save(ctx, sessionID, plan); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrCacheError, err)
	}

	s.recordHistory(ctx, sessionID, planID, form, input, content, took)

	s.logger.Info("travel plan generated",
		zap.String("session_id", sessionID),
		zap.String("plan_id", plan.PlanID),
		zap.Duration("took", took))

	resp := toTripPlanResponse(plan, form)
	return &resp, nil
}

// recordHistory is best effort: the plan is already the session's current
// plan when this runs.
func (s *TripPlanService) recordHistory(ctx context.Context, sessionID string, planID uuid.UUID, form TripForm, input crew.Input, content string, took time.Duration) {
	if s.repo == nil {
		return
	}
	sessionUUID, err := uuid.Parse(sessionID)
	if err != nil {
		s.logger.Warn("session id is not a uuid, skipping history", zap.String("session_id", sessionID))
		return
	}

	record := &db_models.TripPlan{
		BaseModel:    db_models.BaseModel{ID: planID},
		SessionID:    sessionUUID,
		Origin:       form.Origin,
		Destinations: strings.Join(form.Destinations, "\n"),
		DateRange:    input.DateRange,
		StartDate:    form.StartDate,
		EndDate:      form.EndDate,
		Interests:    input.Interests,
		Content:      content,
		DurationMs:   took.Milliseconds(),
	}
	if err := s.repo.CreateTripPlan(ctx, record); err != nil {
		s.logger.Warn("failed to record plan history", zap.String("plan_id", planID.String()), zap.Error(err))
	}
}

func (s *TripPlanService) GetCurrentSessionPlan(ctx context.Context, sessionID string) (*db_models.SessionPlan, error) {
	plan, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionPlanNotFound) {
			return nil, utils.ErrPlanNotFound
		}
		return nil, fmt.Errorf("%w: %v", utils.ErrCacheError, err)
	}
	return plan, nil
}

func (s *TripPlanService) GetCurrentPlan(ctx context.Context, sessionID string) (*response_models.TripPlanResponse, error) {
	plan, err := s.GetCurrentSessionPlan(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	resp := toTripPlanResponse(plan, sessionPlanForm(plan, s.cfg.Location))
	resp.Tips = TravelTips()
	return &resp, nil
}

func (s *TripPlanService) ListPlanHistory(ctx context.Context, sessionID string, page, pageSize int) ([]response_models.TripPlanHistoryItem, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}

	sessionUUID, err := uuid.Parse(sessionID)
	if err != nil {
		return []response_models.TripPlanHistoryItem{}, nil
	}

	plans, err := s.repo.ListTripPlansBySession(ctx, sessionUUID, page, pageSize)
	if err != nil {
		s.logger.Error("failed to list plan history", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	items := make([]response_models.TripPlanHistoryItem, 0, len(plans))
	for i := range plans {
		items = append(items, toHistoryItem(&plans[i]))
	}
	return items, nil
}

// GetPlanHistoryItem returns one persisted plan. Plans of other sessions
// are reported as not found.
func (s *TripPlanService) GetPlanHistoryItem(ctx context.Context, sessionID, planID string) (*response_models.TripPlanHistoryItem, error) {
	id, err := uuid.Parse(planID)
	if err != nil {
		return nil, fmt.Errorf("%w: plan id must be a uuid", utils.ErrInvalidInput)
	}

	plan, err := s.repo.GetTripPlanById(ctx, id)
	if err != nil {
		s.logger.Error("failed to get plan history item", zap.String("plan_id", planID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if plan == nil || plan.SessionID.String() != sessionID {
		return nil, utils.ErrPlanNotFound
	}

	item := toHistoryItem(plan)
	return &item, nil
}

// ClearCurrentPlan drops the session's current plan. History is kept.
func (s *TripPlanService) ClearCurrentPlan(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrCacheError, err)
	}
	return nil
}

func (s *TripPlanService) PurgeExpiredPlans(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention).Unix()
	n, err := s.repo.DeleteTripPlansCreatedBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("failed to purge plan history", zap.Error(err))
		return 0, utils.ErrDatabaseError
	}
	return n, nil
}

func toHistoryItem(plan *db_models.TripPlan) response_models.TripPlanHistoryItem {
	return response_models.TripPlanHistoryItem{
		ID: plan.ID.String(),
		Preferences: response_models.TravelPreferences{
			From:         plan.Origin,
			Destinations: FormatCities(ParseDestinations(plan.Destinations)),
			DateRange:    plan.DateRange,
			Interests:    plan.Interests,
		},
		Plan:        plan.Content,
		GeneratedAt: plan.CreatedAt,
		DurationMs:  plan.DurationMs,
	}
}

// sessionPlanForm rebuilds the form a stored plan was generated from.
func sessionPlanForm(plan *db_models.SessionPlan, loc *time.Location) TripForm {
	start, _ := utils.ParseDate(plan.StartDate, loc)
	end, _ := utils.ParseDate(plan.EndDate, loc)
	return TripForm{
		Origin:       plan.Origin,
		Destinations: plan.Destinations,
		StartDate:    start,
		EndDate:      end,
		Interests:    plan.Interests,
	}
}

func toTripPlanResponse(plan *db_models.SessionPlan, form TripForm) response_models.TripPlanResponse {
	return response_models.TripPlanResponse{
		ID:          plan.PlanID,
		Plan:        plan.Content,
		Preferences: Preferences(form),
		StartDate:   plan.StartDate,
		EndDate:     plan.EndDate,
		GeneratedAt: plan.GeneratedAt,
	}
}
