package timesource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeclock.app/timeclock/utils"
)

func TestHTTPClockNow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Time/current/zone", r.URL.Path)
		assert.Equal(t, "Europe/Berlin", r.URL.Query().Get("timeZone"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"dateTime":"2024-03-01T09:15:30.1234567"}`))
	}))
	defer srv.Close()

	clock := NewHTTPClock(srv.URL, "Europe/Berlin")
	ts, err := clock.Now(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T09:15:30.1234567", ts)
}

func TestHTTPClockServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	clock := NewHTTPClock(srv.URL, "Europe/Berlin")
	_, err := clock.Now(context.Background())
	assert.Error(t, err)
}

func TestHTTPClockEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	clock := NewHTTPClock(srv.URL, "Europe/Berlin")
	_, err := clock.Now(context.Background())
	assert.Error(t, err)
}

func TestLocalClockNeverFails(t *testing.T) {
	clock := NewLocalClock("Europe/Berlin")
	ts, err := clock.Now(context.Background())
	require.NoError(t, err)

	parsed, err := utils.ParseISOTime(ts)
	require.NoError(t, err)
	assert.False(t, parsed.IsZero())
}

func TestLocalClockUnknownZoneFallsBackToUTC(t *testing.T) {
	clock := NewLocalClock("Not/AZone")
	ts, err := clock.Now(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, ts)
}
