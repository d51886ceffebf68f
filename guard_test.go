package raffle

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceGuard(t *testing.T) {
	t.Run("unchanged", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "participants.json", `{"a": 1}`)

		guard, err := WatchSource(path, NewSilentLogger())
		require.NoError(t, err)
		defer guard.Close()

		assert.False(t, guard.Changed())
		assert.NoError(t, guard.Check())
	})

	t.Run("write_is_detected", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "participants.json", `{"a": 1}`)

		guard, err := WatchSource(path, NewSilentLogger())
		require.NoError(t, err)
		defer guard.Close()

		require.NoError(t, os.WriteFile(path, []byte(`{"a": 2}`), 0o644))
		require.Eventually(t, guard.Changed, 2*time.Second, 10*time.Millisecond)
		assert.ErrorIs(t, guard.Check(), ErrSourceChanged)
	})

	t.Run("check_sees_write_before_event", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "participants.json", `{"a": 1}`)

		guard, err := WatchSource(path, NewSilentLogger())
		require.NoError(t, err)
		defer guard.Close()

		// no waiting for the watcher: Check must not depend on event delivery
		require.NoError(t, os.WriteFile(path, []byte(`{"a": 3}`), 0o644))
		assert.ErrorIs(t, guard.Check(), ErrSourceChanged)
		assert.True(t, guard.Changed())
	})

	t.Run("check_sees_removal", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "participants.json", `{"a": 1}`)

		guard, err := WatchSource(path, NewSilentLogger())
		require.NoError(t, err)
		defer guard.Close()

		require.NoError(t, os.Remove(path))
		assert.ErrorIs(t, guard.Check(), ErrSourceChanged)
	})

	t.Run("sibling_files_are_ignored", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "participants.json", `{"a": 1}`)

		guard, err := WatchSource(path, NewSilentLogger())
		require.NoError(t, err)
		defer guard.Close()

		writeFile(t, dir, "other.json", `{}`)
		time.Sleep(100 * time.Millisecond)
		assert.False(t, guard.Changed())
	})

	t.Run("missing_directory", func(t *testing.T) {
		_, err := WatchSource(filepath.Join(t.TempDir(), "nope", "p.json"), nil)
		assert.ErrorIs(t, err, ErrSourceNotFound)
	})
}
