package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, path string) (int, Status) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var st Status
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&st))
	return rec.Code, st
}

func TestNotReady(t *testing.T) {
	s := New(0, Readiness{})
	code, st := get(t, s.Handler(), "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not_ready", st.Status)
}

func TestReadyReportsBusyAndBreaker(t *testing.T) {
	busy := true
	s := New(0, Readiness{
		Busy:    func() bool { return busy },
		Breaker: func() string { return "closed" },
	})
	s.SetReady(true)
	assert.True(t, s.Ready())

	code, st := get(t, s.Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", st.Status)
	assert.False(t, st.Busy)

	code, st = get(t, s.Handler(), "/readyz")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, st.Busy)
	assert.Equal(t, "closed", st.Breaker)

	busy = false
	_, st = get(t, s.Handler(), "/readyz")
	assert.False(t, st.Busy)
}
