package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tripplanner/internal/crew"
	"tripplanner/internal/models/db_models"
	"tripplanner/internal/models/request_models"
	"tripplanner/internal/repositories"
	"tripplanner/pkg/utils"
)

type fakeRunner struct {
	calls  int32
	inputs []crew.Input
	mu     sync.Mutex
	run    func(ctx context.Context, in crew.Input) (string, error)
}

func (f *fakeRunner) Run(ctx context.Context, in crew.Input) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.inputs = append(f.inputs, in)
	f.mu.Unlock()
	return f.run(ctx, in)
}

type fakeTripPlanRepo struct {
	mu        sync.Mutex
	plans     []db_models.TripPlan
	createErr error
	deleted   int64
	cutoff    int64
}

func (r *fakeTripPlanRepo) CreateTripPlan(ctx context.Context, plan *db_models.TripPlan) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	plan.CreatedAt = time.Now().Unix()
	r.plans = append([]db_models.TripPlan{*plan}, r.plans...)
	return nil
}

func (r *fakeTripPlanRepo) GetTripPlanById(ctx context.Context, id uuid.UUID) (*db_models.TripPlan, error) {
	for i := range r.plans {
		if r.plans[i].ID == id {
			return &r.plans[i], nil
		}
	}
	return nil, nil
}

func (r *fakeTripPlanRepo) ListTripPlansBySession(ctx context.Context, sessionID uuid.UUID, page, pageSize int) ([]db_models.TripPlan, error) {
	var out []db_models.TripPlan
	for _, p := range r.plans {
		if p.SessionID == sessionID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeTripPlanRepo) DeleteTripPlansCreatedBefore(ctx context.Context, cutoffUnix int64) (int64, error) {
	r.cutoff = cutoffUnix
	return r.deleted, nil
}

var fixedNow = time.Date(2024, time.May, 1, 10, 30, 0, 0, time.UTC)

func newTestService(runner crew.Runner, repo repositories.TripPlanRepository) (*TripPlanService, repositories.SessionPlanStore) {
	store := repositories.NewMemorySessionPlanStore(time.Hour)
	svc := newTripPlanService(runner, store, repo, nil, TripPlanServiceConfig{
		CrewTimeout: time.Second,
		Location:    time.UTC,
	})
	svc.now = func() time.Time { return fixedNow }
	return svc, store
}

func validRequest() request_models.GenerateTripPlanRequest {
	return request_models.GenerateTripPlanRequest{
		Origin:           "New York",
		DestinationsText: "Paris\n\n  Rome \n",
		StartDate:        "2024-06-01",
		EndDate:          "2024-06-07",
		Interests:        []string{"Art & Museums", "Food & Cuisine"},
	}
}

func TestGenerateTravelPlan_Success(t *testing.T) {
	runner := &fakeRunner{run: func(ctx context.Context, in crew.Input) (string, error) {
		return "Day 1: Louvre", nil
	}}
	repo := &fakeTripPlanRepo{}
	svc, store := newTestService(runner, repo)
	sessionID := uuid.NewString()

	resp, err := svc.GenerateTravelPlan(context.Background(), sessionID, validRequest())
	require.NoError(t, err)

	assert.Equal(t, "Day 1: Louvre", resp.Plan)
	assert.Equal(t, "New York", resp.Preferences.From)
	assert.Equal(t, "Paris, Rome", resp.Preferences.Destinations)
	assert.Equal(t, "June 01-07, 2024", resp.Preferences.DateRange)
	assert.Equal(t, "Art & Museums, Food & Cuisine", resp.Preferences.Interests)
	assert.Equal(t, fixedNow.Unix(), resp.GeneratedAt)

	require.Len(t, runner.inputs, 1)
	assert.Equal(t, crew.Input{
		Origin:    "New York",
		Cities:    "Paris, Rome",
		DateRange: "June 01-07, 2024",
		Interests: "Art & Museums, Food & Cuisine",
	}, runner.inputs[0])

	stored, err := store.Get(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, stored.PlanID)
	assert.Equal(t, []string{"Paris", "Rome"}, stored.Destinations)

	require.Len(t, repo.plans, 1)
	assert.Equal(t, resp.ID, repo.plans[0].ID.String())
	assert.Equal(t, "Paris\nRome", repo.plans[0].Destinations)
}

func TestGenerateTravelPlan_ValidationStopsBeforeCrew(t *testing.T) {
	runner := &fakeRunner{run: func(ctx context.Context, in crew.Input) (string, error) {
		return "unused", nil
	}}
	svc, _ := newTestService(runner, &fakeTripPlanRepo{})

	req := validRequest()
	req.Origin = "  "
	_, err := svc.GenerateTravelPlan(context.Background(), uuid.NewString(), req)
	assert.ErrorIs(t, err, utils.ErrMissingRequiredFields)

	req = validRequest()
	req.EndDate = "2024-05-30"
	_, err = svc.GenerateTravelPlan(context.Background(), uuid.NewString(), req)
	assert.ErrorIs(t, err, utils.ErrInvalidDateRange)

	assert.Equal(t, int32(0), atomic.LoadInt32(&runner.calls))
}

func TestGenerateTravelPlan_FailureKeepsPreviousPlan(t *testing.T) {
	fail := false
	runner := &fakeRunner{run: func(ctx context.Context, in crew.Input) (string, error) {
		if fail {
			return "", errors.New("quota exceeded")
		}
		return "first plan", nil
	}}
	svc, _ := newTestService(runner, &fakeTripPlanRepo{})
	sessionID := uuid.NewString()

	_, err := svc.GenerateTravelPlan(context.Background(), sessionID, validRequest())
	require.NoError(t, err)

	fail = true
	req := validRequest()
	req.DestinationsText = "Lisbon"
	_, err = svc.GenerateTravelPlan(context.Background(), sessionID, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrPlanGenerationFailed)
	assert.Equal(t, "An error occurred while generating your travel plan: quota exceeded", utils.GenerationErrorMessage(err))

	current, err := svc.GetCurrentPlan(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, "first plan", current.Plan)
	assert.Equal(t, "Paris, Rome", current.Preferences.Destinations)
	assert.Equal(t, TravelTips(), current.Tips)
}

func TestGenerateTravelPlan_CrewTimeout(t *testing.T) {
	runner := &fakeRunner{run: func(ctx context.Context, in crew.Input) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	svc, _ := newTestService(runner, &fakeTripPlanRepo{})
	svc.cfg.CrewTimeout = 10 * time.Millisecond

	_, err := svc.GenerateTravelPlan(context.Background(), uuid.NewString(), validRequest())
	assert.ErrorIs(t, err, utils.ErrPlanGenerationFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGenerateTravelPlan_HistoryFailureIsNotFatal(t *testing.T) {
	runner := &fakeRunner{run: func(ctx context.Context, in crew.Input) (string, error) {
		return "plan", nil
	}}
	svc, _ := newTestService(runner, &fakeTripPlanRepo{createErr: errors.New("db down")})

	resp, err := svc.GenerateTravelPlan(context.Background(), uuid.NewString(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "plan", resp.Plan)
}

func TestGenerateTravelPlan_CollapsesConcurrentRequests(t *testing.T) {
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	runner := &fakeRunner{run: func(ctx context.Context, in crew.Input) (string, error) {
		started <- struct{}{}
		<-release
		return "shared plan", nil
	}}
	svc, _ := newTestService(runner, &fakeTripPlanRepo{})
	sessionID := uuid.NewString()

	var wg sync.WaitGroup
	results := make([]string, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := svc.GenerateTravelPlan(context.Background(), sessionID, validRequest())
			if err == nil {
				results[i] = resp.ID
			}
		}(i)
		if i == 0 {
			<-started
		}
	}
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&runner.calls))
	assert.NotEmpty(t, results[0])
	assert.Equal(t, results[0], results[1])
}

func TestGetCurrentPlan_NotFound(t *testing.T) {
	svc, _ := newTestService(&fakeRunner{}, &fakeTripPlanRepo{})

	_, err := svc.GetCurrentPlan(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, utils.ErrPlanNotFound)
}

func TestListPlanHistory(t *testing.T) {
	runner := &fakeRunner{run: func(ctx context.Context, in crew.Input) (string, error) {
		return "plan for " + in.Cities, nil
	}}
	svc, _ := newTestService(runner, &fakeTripPlanRepo{})
	sessionID := uuid.NewString()

	_, err := svc.GenerateTravelPlan(context.Background(), sessionID, validRequest())
	require.NoError(t, err)

	items, err := svc.ListPlanHistory(context.Background(), sessionID, 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "plan for Paris, Rome", items[0].Plan)
	assert.Equal(t, "Paris, Rome", items[0].Preferences.Destinations)
	assert.Equal(t, "June 01-07, 2024", items[0].Preferences.DateRange)

	_, err = svc.ListPlanHistory(context.Background(), sessionID, 0, 10)
	assert.ErrorIs(t, err, utils.ErrInvalidPage)
	_, err = svc.ListPlanHistory(context.Background(), sessionID, 1, 101)
	assert.ErrorIs(t, err, utils.ErrInvalidPageSize)

	items, err = svc.ListPlanHistory(context.Background(), "not-a-uuid", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestPurgeExpiredPlans(t *testing.T) {
	repo := &fakeTripPlanRepo{deleted: 3}
	svc, _ := newTestService(&fakeRunner{}, repo)

	n, err := svc.PurgeExpiredPlans(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, fixedNow.Add(-24*time.Hour).Unix(), repo.cutoff)
}

func TestGenerateTravelPlan_CallerCancelDoesNotFailOthers(t *testing.T) {
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	runner := &fakeRunner{run: func(ctx context.Context, in crew.Input) (string, error) {
		started <- struct{}{}
		select {
		case <-release:
			return "shared plan", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}}
	svc, store := newTestService(runner, &fakeTripPlanRepo{})
	sessionID := uuid.NewString()

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.GenerateTravelPlan(firstCtx, sessionID, validRequest())
		firstErr <- err
	}()
	<-started

	type result struct {
		plan string
		err  error
	}
	second := make(chan result, 1)
	go func() {
		resp, err := svc.GenerateTravelPlan(context.Background(), sessionID, validRequest())
		if err != nil {
			second <- result{err: err}
			return
		}
		second <- result{plan: resp.Plan}
	}()
	time.Sleep(100 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, "shared plan", got.plan)
	assert.Equal(t, int32(1), atomic.LoadInt32(&runner.calls))

	stored, err := store.Get(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, "shared plan", stored.Content)
}

func TestGenerateTravelPlan_PlanSavedAfterCallerLeaves(t *testing.T) {
	release := make(chan struct{})
	done := make(chan struct{})
	runner := &fakeRunner{run: func(ctx context.Context, in crew.Input) (string, error) {
		<-release
		return "late plan", ctx.Err()
	}}
	svc, store := newTestService(runner, &fakeTripPlanRepo{})
	sessionID := uuid.NewString()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer close(done)
		_, err := svc.GenerateTravelPlan(ctx, sessionID, validRequest())
		assert.ErrorIs(t, err, context.Canceled)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done
	close(release)

	require.Eventually(t, func() bool {
		plan, err := store.Get(context.Background(), sessionID)
		return err == nil && plan.Content == "late plan"
	}, time.Second, 10*time.Millisecond)
}

func TestGetPlanHistoryItem(t *testing.T) {
	runner := &fakeRunner{run: func(ctx context.Context, in crew.Input) (string, error) {
		return "stored plan", nil
	}}
	svc, _ := newTestService(runner, &fakeTripPlanRepo{})
	sessionID := uuid.NewString()

	resp, err := svc.GenerateTravelPlan(context.Background(), sessionID, validRequest())
	require.NoError(t, err)

	item, err := svc.GetPlanHistoryItem(context.Background(), sessionID, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, item.ID)
	assert.Equal(t, "stored plan", item.Plan)
	assert.Equal(t, "Paris, Rome", item.Preferences.Destinations)

	_, err = svc.GetPlanHistoryItem(context.Background(), uuid.NewString(), resp.ID)
	assert.ErrorIs(t, err, utils.ErrPlanNotFound)

	_, err = svc.GetPlanHistoryItem(context.Background(), sessionID, uuid.NewString())
	assert.ErrorIs(t, err, utils.ErrPlanNotFound)

	_, err = svc.GetPlanHistoryItem(context.Background(), sessionID, "42")
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestClearCurrentPlan(t *testing.T) {
	runner := &fakeRunner{run: func(ctx context.Context, in crew.Input) (string, error) {
		return "plan", nil
	}}
	repo := &fakeTripPlanRepo{}
	svc, _ := newTestService(runner, repo)
	sessionID := uuid.NewString()

	_, err := svc.GenerateTravelPlan(context.Background(), sessionID, validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.ClearCurrentPlan(context.Background(), sessionID))
	_, err = svc.GetCurrentPlan(context.Background(), sessionID)
	assert.ErrorIs(t, err, utils.ErrPlanNotFound)
	assert.Len(t, repo.plans, 1)

	assert.NoError(t, svc.ClearCurrentPlan(context.Background(), sessionID))
}
