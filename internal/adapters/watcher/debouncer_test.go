package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/prcl/internal/adapters/watcher"
)

func TestDebouncer_Add_SinglePath(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls [][]string
		var mu sync.Mutex
		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			mu.Lock()
			calls = append(calls, paths)
			mu.Unlock()
		})

		d.Add("/project/src/main.js")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, calls, 1)
		assert.Equal(t, []string{"/project/src/main.js"}, calls[0])
	})
}

func TestDebouncer_Add_CoalescedAndSorted(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls [][]string
		var mu sync.Mutex
		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			mu.Lock()
			calls = append(calls, paths)
			mu.Unlock()
		})

		d.Add("/project/src/c.js")
		d.Add("/project/src/a.js")
		d.Add("/project/src/b.js")
		d.Add("/project/src/a.js")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, calls, 1)
		assert.Equal(t, []string{"/project/src/a.js", "/project/src/b.js", "/project/src/c.js"}, calls[0])
	})
}

func TestDebouncer_Add_TimerReset(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls int
		var mu sync.Mutex
		count := func() int {
			mu.Lock()
			defer mu.Unlock()
			return calls
		}

		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
			mu.Lock()
			calls++
			mu.Unlock()
		})

		d.Add("/a.js")
		time.Sleep(80 * time.Millisecond)
		d.Add("/b.js")
		time.Sleep(80 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 0, count(), "window restarts on every event")

		time.Sleep(50 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 1, count())
	})
}

func TestDebouncer_Add_SeparateWindows(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls [][]string
		var mu sync.Mutex
		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			mu.Lock()
			calls = append(calls, paths)
			mu.Unlock()
		})

		d.Add("/a.js")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		d.Add("/b.js")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, [][]string{{"/a.js"}, {"/b.js"}}, calls)
	})
}

func TestDebouncer_Stop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls int
		var mu sync.Mutex
		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
			mu.Lock()
			calls++
			mu.Unlock()
		})

		d.Add("/a.js")
		d.Stop()

		time.Sleep(200 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 0, calls)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		d := watcher.NewDebouncer(10*time.Millisecond, nil)
		d.Add("/a.js")
		time.Sleep(20 * time.Millisecond)
		synctest.Wait()
		d.Add("/b.js")
		d.Stop()
	})
}
