package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formgate/gateway/internal/dbrpc"
	"github.com/formgate/gateway/internal/testsupport"
)

type fakeClaimer struct {
	claimed []string
	err     error
}

func (f *fakeClaimer) ClaimAndProcess(ctx context.Context, eventID string) error {
	f.claimed = append(f.claimed, eventID)
	return f.err
}

type fakeCatalogSyncer struct {
	called  bool
	forced  bool
	scanned int
	err     error
}

func (f *fakeCatalogSyncer) Sync(ctx context.Context, forced bool) (int, int, int, int, error) {
	f.called = true
	f.forced = forced
	return f.scanned, 0, 0, 0, f.err
}

func TestTick_DispatchesDueRetry(t *testing.T) {
	q := testsupport.New()
	q.ListWebhooksDueForRetryFn = func(ctx context.Context, now time.Time, limit int) ([]dbrpc.WebhookEvent, error) {
		return []dbrpc.WebhookEvent{{EventID: "evt_1"}}, nil
	}
	q.ReclaimExpiredWebhookClaimsFn = func(ctx context.Context, now time.Time, processorID string, claimTTL time.Duration, limit int) ([]dbrpc.WebhookEvent, error) {
		return nil, nil
	}
	claimer := &fakeClaimer{}
	r := New(q, claimer, nil, Config{})

	err := r.Tick(context.Background(), cronDueRetry)
	require.NoError(t, err)
	assert.Equal(t, []string{"evt_1"}, claimer.claimed)
}

func TestRunDueRetry_CombinesDueAndStale(t *testing.T) {
	q := testsupport.New()
	q.ListWebhooksDueForRetryFn = func(ctx context.Context, now time.Time, limit int) ([]dbrpc.WebhookEvent, error) {
		return []dbrpc.WebhookEvent{{EventID: "due_1"}}, nil
	}
	q.ReclaimExpiredWebhookClaimsFn = func(ctx context.Context, now time.Time, processorID string, claimTTL time.Duration, limit int) ([]dbrpc.WebhookEvent, error) {
		return []dbrpc.WebhookEvent{{EventID: "stale_1"}}, nil
	}
	claimer := &fakeClaimer{}
	r := New(q, claimer, nil, Config{RetryBatchSize: 10})

	err := r.RunDueRetry(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"due_1", "stale_1"}, claimer.claimed)
}

func TestRunDueRetry_ClaimFailureDoesNotAbortPass(t *testing.T) {
	q := testsupport.New()
	q.ListWebhooksDueForRetryFn = func(ctx context.Context, now time.Time, limit int) ([]dbrpc.WebhookEvent, error) {
		return []dbrpc.WebhookEvent{{EventID: "a"}, {EventID: "b"}}, nil
	}
	q.ReclaimExpiredWebhookClaimsFn = func(ctx context.Context, now time.Time, processorID string, claimTTL time.Duration, limit int) ([]dbrpc.WebhookEvent, error) {
		return nil, nil
	}
	claimer := &fakeClaimer{err: errors.New("boom")}
	r := New(q, claimer, nil, Config{})

	err := r.RunDueRetry(context.Background())
	require.NoError(t, err)
	assert.Len(t, claimer.claimed, 2)
}

func TestRunGraceExpiry_ExpiresAndFallsBackToFree(t *testing.T) {
	q := testsupport.New()
	q.ListSubscriptionsInGraceFn = func(ctx context.Context, now time.Time, limit int) ([]dbrpc.Subscription, error) {
		return []dbrpc.Subscription{{ID: "sub_1", WorkspaceID: "ws_1"}}, nil
	}
	var expired, ensured bool
	var cachedSlug string
	q.ExpireSubscriptionGraceFn = func(ctx context.Context, subscriptionID string) error {
		expired = subscriptionID == "sub_1"
		return nil
	}
	q.EnsureFreeSubscriptionFn = func(ctx context.Context, workspaceID string) error {
		ensured = workspaceID == "ws_1"
		return nil
	}
	q.RefreshWorkspacePlanCacheFn = func(ctx context.Context, workspaceID, planSlug string) error {
		cachedSlug = planSlug
		return nil
	}
	r := New(q, nil, nil, Config{})

	err := r.RunGraceExpiry(context.Background())
	require.NoError(t, err)
	assert.True(t, expired)
	assert.True(t, ensured)
	assert.Equal(t, "free", cachedSlug)
}

func TestRunGraceExpiry_ExpireFailureSkipsRemainingStepsForThatRow(t *testing.T) {
	q := testsupport.New()
	q.ListSubscriptionsInGraceFn = func(ctx context.Context, now time.Time, limit int) ([]dbrpc.Subscription, error) {
		return []dbrpc.Subscription{{ID: "sub_1", WorkspaceID: "ws_1"}}, nil
	}
	q.ExpireSubscriptionGraceFn = func(ctx context.Context, subscriptionID string) error {
		return errors.New("db down")
	}
	ensuredCalled := false
	q.EnsureFreeSubscriptionFn = func(ctx context.Context, workspaceID string) error {
		ensuredCalled = true
		return nil
	}
	r := New(q, nil, nil, Config{})

	err := r.RunGraceExpiry(context.Background())
	require.NoError(t, err)
	assert.False(t, ensuredCalled)
}

func TestRunCatalogSync_NilSyncerIsNoOp(t *testing.T) {
	r := New(testsupport.New(), nil, nil, Config{})
	err := r.RunCatalogSync(context.Background())
	require.NoError(t, err)
}

func TestRunCatalogSync_InvokesSyncerUnforced(t *testing.T) {
	syncer := &fakeCatalogSyncer{scanned: 3}
	r := New(testsupport.New(), nil, syncer, Config{})

	err := r.RunCatalogSync(context.Background())
	require.NoError(t, err)
	assert.True(t, syncer.called)
	assert.False(t, syncer.forced)
}

func TestRunCatalogSync_PropagatesError(t *testing.T) {
	syncer := &fakeCatalogSyncer{err: errors.New("stripe unavailable")}
	r := New(testsupport.New(), nil, syncer, Config{})

	err := r.RunCatalogSync(context.Background())
	require.Error(t, err)
}

func TestRunRetention_DeletesBeforeCutoff(t *testing.T) {
	q := testsupport.New()
	var gotCutoff time.Time
	q.DeleteCompletedWebhooksBeforeFn = func(ctx context.Context, cutoff time.Time) error {
		gotCutoff = cutoff
		return nil
	}
	r := New(q, nil, nil, Config{RetentionAge: 24 * time.Hour})

	before := time.Now().Add(-24 * time.Hour)
	err := r.RunRetention(context.Background())
	require.NoError(t, err)
	assert.WithinDuration(t, before, gotCutoff, 5*time.Second)
}

func TestTick_UnrecognizedCronRunsAllPasses(t *testing.T) {
	q := testsupport.New()
	q.ListWebhooksDueForRetryFn = func(ctx context.Context, now time.Time, limit int) ([]dbrpc.WebhookEvent, error) {
		return nil, nil
	}
	q.ReclaimExpiredWebhookClaimsFn = func(ctx context.Context, now time.Time, processorID string, claimTTL time.Duration, limit int) ([]dbrpc.WebhookEvent, error) {
		return nil, nil
	}
	q.ListSubscriptionsInGraceFn = func(ctx context.Context, now time.Time, limit int) ([]dbrpc.Subscription, error) {
		return nil, nil
	}
	syncer := &fakeCatalogSyncer{}
	r := New(q, &fakeClaimer{}, syncer, Config{})

	err := r.Tick(context.Background(), "not-a-known-cron")
	require.NoError(t, err)
	assert.True(t, syncer.called)
}
