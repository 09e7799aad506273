package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveViewState(t *testing.T) {
	t.Run("UnresolvedAuthShowsLoading", func(t *testing.T) {
		require.Equal(t, ViewLoading, ResolveViewState(ViewAdminDashboard, false, false, true))
		require.Equal(t, ViewLoading, ResolveViewState("", false, true, false))
	})

	t.Run("DefaultIsFeed", func(t *testing.T) {
		require.Equal(t, ViewFeed, ResolveViewState("", true, true, false))
		require.Equal(t, ViewFeed, ResolveViewState(ViewFeed, true, true, true))
	})

	t.Run("AdminRestoreWaitsForAllowList", func(t *testing.T) {
		// Allow-list still loading: restore lands on FEED first.
		require.Equal(t, ViewFeed, ResolveViewState(ViewAdminDashboard, true, false, false))
		// Allow-list arrives and confirms the user: the same inputs now
		// resolve to the dashboard, the deferred upgrade.
		require.Equal(t, ViewAdminDashboard, ResolveViewState(ViewAdminDashboard, true, true, true))
	})

	t.Run("NonAdminNeverRestoresDashboard", func(t *testing.T) {
		require.Equal(t, ViewFeed, ResolveViewState(ViewAdminDashboard, true, true, false))
	})
}

func TestPersistableViewState(t *testing.T) {
	state, ok := PersistableViewState(ViewLoading)
	require.False(t, ok)
	require.Empty(t, state)

	state, ok = PersistableViewState(ViewFeed)
	require.True(t, ok)
	require.Equal(t, ViewFeed, state)

	state, ok = PersistableViewState(ViewAdminDashboard)
	require.True(t, ok)
	require.Equal(t, ViewAdminDashboard, state)
}
