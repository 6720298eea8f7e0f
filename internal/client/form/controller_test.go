package form

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonServer(t *testing.T, status int, body string) (*httptest.Server, *[]Fields) {
	t.Helper()
	var (
		mu       sync.Mutex
		received []Fields
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var f Fields
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&f))
		mu.Lock()
		received = append(received, f)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &received
}

func fill(c *Controller) {
	c.SetName("Alice")
	c.SetEmail("alice@x.com")
	c.SetMessage("Hi\nthere")
}

func TestSubmitSuccessClearsFieldsAndResets(t *testing.T) {
	srv, received := jsonServer(t, http.StatusOK, `{"success":true,"message":"Email sent successfully!"}`)
	clock := clockwork.NewFakeClock()
	c := New(srv.URL, WithClock(clock))
	fill(c)

	st, err := c.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusSucceeded, st.Status)
	assert.False(t, st.IsLoading())
	assert.Equal(t, Fields{}, c.Fields())
	require.Len(t, *received, 1)
	assert.Equal(t, Fields{Name: "Alice", Email: "alice@x.com", Message: "Hi\nthere"}, (*received)[0])

	clock.Advance(4999 * time.Millisecond)
	assert.Equal(t, StatusSucceeded, c.State().Status, "banner stays for the full window")

	clock.Advance(time.Millisecond)
	assert.Eventually(t, func() bool {
		return c.State().Status == StatusIdle
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, Fields{}, c.Fields())
}

func TestSubmitServerErrors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"missing fields", http.StatusBadRequest, `{"error":"Missing required fields"}`, "Missing required fields"},
		{"send failure", http.StatusInternalServerError, `{"error":"Failed to send email. Please try again."}`, "Failed to send email. Please try again."},
		{"no error text", http.StatusInternalServerError, `{}`, MsgSendFailed},
		{"non json gateway page", http.StatusBadGateway, `<html>bad gateway</html>`, MsgTransportFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := jsonServer(t, tc.status, tc.body)
			c := New(srv.URL, WithClock(clockwork.NewFakeClock()))
			fill(c)

			st, err := c.Submit(context.Background())
			require.NoError(t, err)

			assert.Equal(t, StatusFailed, st.Status)
			assert.Equal(t, tc.wantMsg, st.ErrorMessage)
			assert.Equal(t, "Alice", c.Fields().Name, "fields are kept on failure")
		})
	}
}

func TestSubmitTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	c := New(endpoint)
	fill(c)

	st, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, State{Status: StatusFailed, ErrorMessage: MsgTransportFailed}, st)
	assert.False(t, c.State().IsLoading())
}

func TestSubmitWhileInFlightIsRejected(t *testing.T) {
	release := make(chan struct{})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write([]byte(`{"success":true,"message":"Email sent successfully!"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithClock(clockwork.NewFakeClock()))
	fill(c)

	done := make(chan State)
	go func() {
		st, _ := c.Submit(context.Background())
		done <- st
	}()

	require.Eventually(t, func() bool { return hits.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, c.State().IsLoading())

	st, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	assert.True(t, st.IsLoading())

	close(release)
	assert.Equal(t, StatusSucceeded, (<-done).Status)
	assert.Equal(t, int32(1), hits.Load(), "second submit was never dispatched")
}

func TestStaleResetTimerIsCancelled(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"Failed to send email. Please try again."}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"message":"Email sent successfully!"}`))
	}))
	defer srv.Close()

	clock := clockwork.NewFakeClock()
	c := New(srv.URL, WithClock(clock))

	t.Run("failure after success keeps its banner", func(t *testing.T) {
		fill(c)
		_, err := c.Submit(context.Background())
		require.NoError(t, err)

		clock.Advance(2 * time.Second)
		fail.Store(true)
		fill(c)
		st, err := c.Submit(context.Background())
		require.NoError(t, err)
		require.Equal(t, StatusFailed, st.Status)

		clock.Advance(10 * time.Second)
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, StatusFailed, c.State().Status)
	})

	t.Run("second success gets a full window", func(t *testing.T) {
		fail.Store(false)
		fill(c)
		_, err := c.Submit(context.Background())
		require.NoError(t, err)

		clock.Advance(3 * time.Second)
		fill(c)
		_, err = c.Submit(context.Background())
		require.NoError(t, err)

		clock.Advance(3 * time.Second)
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, StatusSucceeded, c.State().Status, "first timer must not reset the newer success")

		clock.Advance(2 * time.Second)
		assert.Eventually(t, func() bool {
			return c.State().Status == StatusIdle
		}, time.Second, 5*time.Millisecond)
	})
}

func TestObserverSeesEveryTransition(t *testing.T) {
	srv, _ := jsonServer(t, http.StatusOK, `{"success":true,"message":"Email sent successfully!"}`)

	var (
		mu     sync.Mutex
		states []Status
	)
	c := New(srv.URL,
		WithClock(clockwork.NewFakeClock()),
		WithObserver(func(s Snapshot) {
			mu.Lock()
			defer mu.Unlock()
			states = append(states, s.State.Status)
		}),
	)
	fill(c)

	_, err := c.Submit(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Status{StatusIdle, StatusIdle, StatusIdle, StatusSubmitting, StatusSucceeded}, states)
}

func TestCloseStopsPendingReset(t *testing.T) {
	srv, _ := jsonServer(t, http.StatusOK, `{"success":true,"message":"Email sent successfully!"}`)
	clock := clockwork.NewFakeClock()
	c := New(srv.URL, WithClock(clock))
	fill(c)

	_, err := c.Submit(context.Background())
	require.NoError(t, err)
	c.Close()

	clock.Advance(DefaultResetDelay)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, StatusSucceeded, c.State().Status)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "submitting", StatusSubmitting.String())
	assert.Equal(t, "success", StatusSucceeded.String())
	assert.Equal(t, "error", StatusFailed.String())
}
