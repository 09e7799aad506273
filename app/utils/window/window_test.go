package window

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColumns(t *testing.T) {
	require.Equal(t, 4, Columns(1280))
	require.Equal(t, 4, Columns(1920))
	require.Equal(t, 3, Columns(1024))
	require.Equal(t, 3, Columns(1279))
	require.Equal(t, 2, Columns(640))
	require.Equal(t, 2, Columns(1023))
	require.Equal(t, 1, Columns(639))
	require.Equal(t, 1, Columns(320))
}

func TestWindow(t *testing.T) {
	t.Run("Advance_GrowsInWholeBatchesAndClamps", func(t *testing.T) {
		w := New(1280, 2)
		require.Equal(t, 8, w.Visible(20, false))

		w.Advance(20)
		require.Equal(t, 16, w.Visible(20, false))

		w.Advance(20)
		require.Equal(t, 20, w.Visible(20, false), "clamped to total, not 24")
	})

	t.Run("Clamp_ShrinkingTotalPullsCountBack", func(t *testing.T) {
		w := New(1280, 2)
		w.Advance(40)
		require.Equal(t, 16, w.Count())

		w.Clamp(5)
		require.Equal(t, 5, w.Count())

		// Clamp never grows the count back.
		w.Clamp(40)
		require.Equal(t, 5, w.Count())
	})

	t.Run("Search_ShowsEverything", func(t *testing.T) {
		w := New(1280, 2)
		require.Equal(t, 100, w.Visible(100, true))
		require.Equal(t, 8, w.Visible(100, false))
	})

	t.Run("Resize_RaisesToNewMinimumBatchNeverLowers", func(t *testing.T) {
		w := New(639, 2) // 1 column, batch 2
		require.Equal(t, 2, w.Count())

		w.Resize(1280) // 4 columns, batch 8
		require.Equal(t, 4, w.Columns())
		require.Equal(t, 8, w.Count())

		w.Advance(100)
		require.Equal(t, 16, w.Count())

		// Narrowing the viewport keeps the revealed count.
		w.Resize(640)
		require.Equal(t, 2, w.Columns())
		require.Equal(t, 16, w.Count())
	})

	t.Run("Restore_SnapsUpToAtLeastOneBatch", func(t *testing.T) {
		w := Restore(1280, 2, 3)
		require.Equal(t, 8, w.Count())

		w = Restore(1280, 2, 24)
		require.Equal(t, 24, w.Count())
	})
}
