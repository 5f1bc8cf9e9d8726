package testsupport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formgate/gateway/internal/dbrpc"
)

// Workspaces legitimately accumulate more than one subscription row over
// time (cancel, then a fresh upstream subscription on resubscribe), since
// UpsertSubscription conflicts on id, not workspace_id. This exercises the
// same "newest current_period_start wins" ordering PGXQuerier applies in
// SQL, so a test relying on the default GetSubscriptionByWorkspaceFn can't
// silently pass against a single-row fixture and then break on real data.
func TestFakeQuerier_GetSubscriptionByWorkspace_PicksNewestRow(t *testing.T) {
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	q := New()
	q.Subscriptions = []dbrpc.Subscription{
		{ID: "sub_canceled", WorkspaceID: "ws1", Status: dbrpc.SubCanceled, CurrentPeriodStart: &older},
		{ID: "sub_other_workspace", WorkspaceID: "ws2", CurrentPeriodStart: &newer},
		{ID: "sub_active", WorkspaceID: "ws1", Status: dbrpc.SubActive, CurrentPeriodStart: &newer},
	}

	got, err := q.GetSubscriptionByWorkspace(context.Background(), "ws1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "sub_active", got.ID)
}

func TestFakeQuerier_GetSubscriptionByWorkspace_NilPeriodSortsLast(t *testing.T) {
	started := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	q := New()
	q.Subscriptions = []dbrpc.Subscription{
		{ID: "sub_trialing", WorkspaceID: "ws1", CurrentPeriodStart: nil},
		{ID: "sub_started", WorkspaceID: "ws1", CurrentPeriodStart: &started},
	}

	got, err := q.GetSubscriptionByWorkspace(context.Background(), "ws1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "sub_started", got.ID)
}

func TestFakeQuerier_GetSubscriptionByWorkspace_NoMatch(t *testing.T) {
	q := New()
	got, err := q.GetSubscriptionByWorkspace(context.Background(), "ws-unknown")
	require.NoError(t, err)
	assert.Nil(t, got)
}
