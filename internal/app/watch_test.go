package app_test

import (
	"context"
	"iter"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/prcl/internal/app"
	"go.trai.ch/prcl/internal/core/domain"
	"go.trai.ch/prcl/internal/core/ports"
	"go.trai.ch/prcl/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func seq(events <-chan ports.WatchEvent) iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for ev := range events {
			if !yield(ev) {
				return
			}
		}
	}
}

// syncs records the file sets passed to Watcher.Sync.
type syncs struct {
	mu    sync.Mutex
	calls [][]string
}

func (s *syncs) record(files []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, files)
	return nil
}

func (s *syncs) get() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestApp_Watch_RebuildsOnChange(t *testing.T) {
	f := newFixture(t, map[string]string{
		"main.js": "require('./a')\n",
		"a.js":    "module.exports = 1\n",
	})
	w := mocks.NewMockWatcher(gomock.NewController(t))
	f.loader.EXPECT().Load(f.dir).Return(f.config(), nil)
	f.watchers.EXPECT().New().Return(w, nil)
	f.logger.EXPECT().Info("watching main.js for changes")
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()

	synctest.Test(t, func(t *testing.T) {
		events := make(chan ports.WatchEvent)
		var synced syncs
		w.EXPECT().Start(gomock.Any()).Return(nil)
		w.EXPECT().Events().Return(seq(events))
		w.EXPECT().Sync(gomock.Any()).DoAndReturn(synced.record).Times(2)
		w.EXPECT().Stop().Return(nil)

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() {
			done <- f.app.Bundle(ctx, app.BundleOptions{Input: "main.js", Watch: true})
		}()

		synctest.Wait()
		require.Len(t, synced.get(), 1)
		assert.Equal(t, []string{f.path("a.js"), f.path("main.js"), f.path("main.js")}, synced.get()[0])
		first := f.stdout.Len()

		writeFile(t, f.path("a.js"), "module.exports = 2\n")
		events <- ports.WatchEvent{Path: f.path("a.js"), Operation: ports.OpWrite}
		events <- ports.WatchEvent{Path: f.path("a.js"), Operation: ports.OpWrite}

		time.Sleep(domain.DefaultDebounceWindow + time.Millisecond)
		synctest.Wait()

		require.Len(t, synced.get(), 2)
		assert.Contains(t, f.stdout.String()[first:], "module.exports = 2")

		cancel()
		close(events)
		require.NoError(t, <-done)
	})
}

func TestApp_Watch_IgnoresUnrelatedWrites(t *testing.T) {
	f := newFixture(t, map[string]string{"main.js": "exports.x = 1\n"})
	w := mocks.NewMockWatcher(gomock.NewController(t))
	f.loader.EXPECT().Load(f.dir).Return(f.config(), nil)
	f.watchers.EXPECT().New().Return(w, nil)
	f.store.EXPECT().Get(f.dir, f.path("out.js")).Return(nil, nil)
	f.store.EXPECT().Put(f.dir, gomock.Any()).Return(nil)
	f.logger.EXPECT().Info(gomock.Any()).Times(2)

	synctest.Test(t, func(t *testing.T) {
		events := make(chan ports.WatchEvent)
		w.EXPECT().Start(gomock.Any()).Return(nil)
		w.EXPECT().Events().Return(seq(events))
		w.EXPECT().Sync(gomock.Any()).Return(nil).Times(1)
		w.EXPECT().Stop().Return(nil)

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() {
			done <- f.app.Bundle(ctx, app.BundleOptions{Input: "main.js", Output: "out.js", Watch: true})
		}()
		synctest.Wait()

		for _, ev := range []ports.WatchEvent{
			{Path: f.path("notes.txt"), Operation: ports.OpWrite},
			{Path: f.path("out.js"), Operation: ports.OpWrite},
			{Path: f.path("out.js.map"), Operation: ports.OpCreate},
			{Path: f.path(".out.js.123"), Operation: ports.OpRename},
			{Path: f.path(".prcl"), Operation: ports.OpCreate},
		} {
			events <- ev
		}

		time.Sleep(time.Second)
		synctest.Wait()

		cancel()
		close(events)
		require.NoError(t, <-done)
	})
}

func TestApp_Watch_RecoversFromMissingFile(t *testing.T) {
	f := newFixture(t, map[string]string{"main.js": "require('./a')\n"})
	w := mocks.NewMockWatcher(gomock.NewController(t))
	f.loader.EXPECT().Load(f.dir).Return(f.config(), nil)
	f.watchers.EXPECT().New().Return(w, nil)
	f.logger.EXPECT().Info("watching main.js for changes")
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()

	var mu sync.Mutex
	var logged error
	f.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		mu.Lock()
		logged = err
		mu.Unlock()
	})

	synctest.Test(t, func(t *testing.T) {
		events := make(chan ports.WatchEvent)
		var synced syncs
		w.EXPECT().Start(gomock.Any()).Return(nil)
		w.EXPECT().Events().Return(seq(events))
		w.EXPECT().Sync(gomock.Any()).DoAndReturn(synced.record).Times(2)
		w.EXPECT().Stop().Return(nil)

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() {
			done <- f.app.Bundle(ctx, app.BundleOptions{Input: "main.js", Watch: true})
		}()
		synctest.Wait()

		mu.Lock()
		got := logged
		mu.Unlock()
		require.Error(t, got)
		assert.True(t, domain.IsResolutionError(got))
		require.Len(t, synced.get(), 1)
		assert.Contains(t, synced.get()[0], f.path("main.js"))
		assert.Zero(t, f.stdout.Len())

		writeFile(t, f.path("a.js"), "module.exports = 1\n")
		events <- ports.WatchEvent{Path: f.path("a.js"), Operation: ports.OpCreate}

		time.Sleep(domain.DefaultDebounceWindow + time.Millisecond)
		synctest.Wait()

		require.Len(t, synced.get(), 2)
		assert.Contains(t, f.stdout.String(), "module.exports = 1")

		cancel()
		close(events)
		require.NoError(t, <-done)
	})
}

func TestApp_Watch_StopsOnFatalError(t *testing.T) {
	f := newFixture(t, map[string]string{"main.js": "exports.x = 1\n"})
	w := mocks.NewMockWatcher(gomock.NewController(t))
	f.loader.EXPECT().Load(f.dir).Return(f.config(), nil)
	f.watchers.EXPECT().New().Return(w, nil)
	f.store.EXPECT().Get(f.dir, f.path("out.js")).Return(nil, nil)
	f.store.EXPECT().Put(f.dir, gomock.Any()).Return(domain.ErrStoreWriteFailed)
	w.EXPECT().Start(gomock.Any()).Return(nil)
	w.EXPECT().Stop().Return(nil)

	err := f.app.Bundle(context.Background(), app.BundleOptions{Input: "main.js", Output: "out.js", Watch: true})
	require.ErrorIs(t, err, domain.ErrStoreWriteFailed)
}

func TestApp_Watch_WatcherFailure(t *testing.T) {
	f := newFixture(t, map[string]string{"main.js": "exports.x = 1\n"})
	f.loader.EXPECT().Load(f.dir).Return(f.config(), nil)
	f.watchers.EXPECT().New().Return(nil, domain.ErrWatchFailed)

	err := f.app.Bundle(context.Background(), app.BundleOptions{Input: "main.js", Watch: true})
	require.ErrorIs(t, err, domain.ErrWatchFailed)
}

func TestApp_Watch_SyncFailure(t *testing.T) {
	f := newFixture(t, map[string]string{"main.js": "exports.x = 1\n"})
	w := mocks.NewMockWatcher(gomock.NewController(t))
	f.loader.EXPECT().Load(f.dir).Return(f.config(), nil)
	f.watchers.EXPECT().New().Return(w, nil)
	w.EXPECT().Start(gomock.Any()).Return(nil)
	w.EXPECT().Sync([]string{f.path("main.js"), f.path("main.js")}).Return(domain.ErrWatchFailed)
	w.EXPECT().Stop().Return(nil)

	err := f.app.Bundle(context.Background(), app.BundleOptions{Input: "main.js", Watch: true})
	require.ErrorIs(t, err, domain.ErrWatchFailed)
}

func TestApp_Watch_ReturnsWhenCancelled(t *testing.T) {
	f := newFixture(t, map[string]string{"main.js": "exports.x = 1\n"})
	w := mocks.NewMockWatcher(gomock.NewController(t))
	f.loader.EXPECT().Load(f.dir).Return(f.config(), nil)
	f.watchers.EXPECT().New().Return(w, nil)
	f.logger.EXPECT().Info(gomock.Any())

	synctest.Test(t, func(t *testing.T) {
		events := make(chan ports.WatchEvent)
		w.EXPECT().Start(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
			go func() {
				<-ctx.Done()
				close(events)
			}()
			return nil
		})
		w.EXPECT().Events().Return(seq(events))
		w.EXPECT().Sync(gomock.Any()).Return(nil)
		w.EXPECT().Stop().Return(nil)

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() {
			done <- f.app.Bundle(ctx, app.BundleOptions{Input: "main.js", Watch: true})
		}()
		synctest.Wait()

		cancel()
		require.NoError(t, <-done)
	})
}
