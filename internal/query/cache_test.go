package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestKey_Matches(t *testing.T) {
	assert.True(t, Key("products:abc").Matches("products"))
	assert.True(t, Key("products:abc").Matches("products:abc"))
	assert.False(t, Key("products:abcdef").Matches("products:abc"))
	assert.False(t, Key("currentUserProfile").Matches("products"))
	assert.Equal(t, Key("userProfile:p1"), NewKey("userProfile", "p1"))
}

func TestFetch_CachesUntilInvalidated(t *testing.T) {
	c := NewCache(nil)
	var calls int
	fn := func(context.Context) ([]string, error) {
		calls++
		return []string{"a"}, nil
	}

	got, err := Fetch(context.Background(), c, "products:p1", fn)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)

	_, err = Fetch(context.Background(), c, "products:p1", fn)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "fresh entry must not refetch")

	keys := c.Invalidate("products:p1")
	assert.Equal(t, []Key{"products:p1"}, keys)

	st, ok := c.Peek("products:p1")
	require.True(t, ok)
	assert.True(t, st.Stale)

	_, err = Fetch(context.Background(), c, "products:p1", fn)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	st, _ = c.Peek("products:p1")
	assert.False(t, st.Stale)
	assert.Equal(t, StatusSuccess, st.Status)
	assert.True(t, st.Fetched)
}

func TestFetch_ErrorStoredAndNotRetried(t *testing.T) {
	c := NewCache(nil)
	boom := errors.New("boom")
	var calls int

	_, err := Fetch(context.Background(), c, "currentUserProfile", func(context.Context) (int, error) {
		calls++
		return 0, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)

	st, ok := c.Peek("currentUserProfile")
	require.True(t, ok)
	assert.Equal(t, StatusError, st.Status)
	assert.True(t, st.Fetched)
	assert.ErrorIs(t, st.Err, boom)
	assert.False(t, st.IsLoading())
}

func TestFetch_ConcurrentCallsShareOneRequest(t *testing.T) {
	c := NewCache(nil)
	var calls atomic.Int32
	release := make(chan struct{})

	fn := func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "v", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 5)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := Fetch(context.Background(), c, "k", fn)
			assert.NoError(t, err)
			results[i] = v
		}()
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, "v", v)
	}
}

func TestInvalidate_PrefixAndSubscribers(t *testing.T) {
	c := NewCache(nil)
	c.Set("products:p1", 1)
	c.Set("products:p2", 2)
	c.Set("currentUserProfile", 3)

	var got [][]Key
	unsub := c.Subscribe(func(keys []Key) { got = append(got, keys) })

	keys := c.Invalidate("products")
	assert.ElementsMatch(t, []Key{"products:p1", "products:p2"}, keys)
	require.Len(t, got, 1)
	assert.ElementsMatch(t, keys, got[0])

	st, _ := c.Peek("currentUserProfile")
	assert.False(t, st.Stale)

	unsub()
	c.Invalidate("currentUserProfile")
	assert.Len(t, got, 1, "unsubscribed callback must not run")

	assert.Nil(t, c.Invalidate("nothing"))
}

func TestClear_DropsInFlightResult(t *testing.T) {
	c := NewCache(nil)
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_, _ = Fetch(context.Background(), c, "currentUserProfile", func(context.Context) (string, error) {
			close(started)
			<-release
			return "old session", nil
		})
	}()

	<-started
	c.Clear()
	close(release)
	<-done

	_, ok := c.Peek("currentUserProfile")
	assert.False(t, ok, "result fetched before clear must not be cached")
	assert.Equal(t, 0, c.Len())
}

func TestState_IsLoading(t *testing.T) {
	assert.True(t, State{Status: StatusLoading}.IsLoading())
	assert.False(t, State{Status: StatusLoading, HasData: true}.IsLoading())
	assert.False(t, State{}.IsLoading())
	assert.Equal(t, "loading", StatusLoading.String())
}

func TestInvalidate_DuringInFlightFetch(t *testing.T) {
	c := NewCache(nil)
	var version atomic.Int32
	version.Store(1)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	var first int32

	go func() {
		defer close(done)
		first, _ = Fetch(context.Background(), c, "products:p1", func(context.Context) (int32, error) {
			v := version.Load()
			close(started)
			<-release
			return v, nil
		})
	}()

	<-started
	version.Store(2)
	c.Invalidate("products:p1")

	// A refetch after the write starts its own call instead of joining the old one
	got, err := Fetch(context.Background(), c, "products:p1", func(context.Context) (int32, error) {
		return version.Load(), nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), got)

	close(release)
	<-done
	assert.Equal(t, int32(1), first)

	st, ok := c.Peek("products:p1")
	require.True(t, ok)
	assert.Equal(t, int32(2), st.Data, "older result must not overwrite the refetch")
	assert.False(t, st.Stale)
}

func TestInvalidate_InFlightResultStaysStale(t *testing.T) {
	c := NewCache(nil)
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_, _ = Fetch(context.Background(), c, "currentUserProfile", func(context.Context) (string, error) {
			close(started)
			<-release
			return "before save", nil
		})
	}()

	<-started
	c.Invalidate("currentUserProfile")
	close(release)
	<-done

	st, ok := c.Peek("currentUserProfile")
	require.True(t, ok)
	assert.True(t, st.Stale)
	assert.False(t, st.HasData)
	assert.Equal(t, StatusIdle, st.Status)

	got, err := Fetch(context.Background(), c, "currentUserProfile", func(context.Context) (string, error) {
		return "after save", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "after save", got)
}

func TestChannelSubscriber_CoalescesWhileBusy(t *testing.T) {
	c := NewCache(nil)
	c.Set("products:p1", 1)
	c.Set("products:p2", 2)
	c.Set("currentUserProfile", 3)

	s := NewChannelSubscriber(c)
	c.Invalidate("products:p1")
	c.Invalidate("currentUserProfile")
	c.Invalidate("products:p1")

	keys, ok := s.Next()
	require.True(t, ok)
	assert.ElementsMatch(t, []Key{"products:p1", "currentUserProfile"}, keys)

	s.Close()
	c.Invalidate("products")
	_, ok = s.Next()
	assert.False(t, ok)
}
