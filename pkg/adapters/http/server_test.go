package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/adapters/memory"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/observability"
	"github.com/aretw0/abacus/pkg/session"
)

func newTestHandler(t *testing.T, opts ...Option) (http.Handler, *Server) {
	t.Helper()
	calc := abacus.New()
	sessions := session.NewManager(memory.NewStore(), session.WithStarter(calc.StartSession))

	var captured *Server
	opts = append(opts, func(s *Server) { captured = s })
	return NewHandler(calc, sessions, opts...), captured
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *strings.Reader
	if body != "" {
		rd = strings.NewReader(body)
	} else {
		rd = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) domain.State {
	t.Helper()
	var s domain.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s), rec.Body.String())
	return s
}

func TestSessionLifecycle(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/sessions", `{"session_id": "desk", "angle_mode": "rad"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/sessions/desk", rec.Header().Get("Location"))
	created := decodeState(t, rec)
	assert.Equal(t, "desk", created.SessionID)
	assert.Equal(t, domain.AngleRadians, created.AngleMode)
	assert.Equal(t, "0", created.Display)

	rec = do(t, h, http.MethodPost, "/sessions", `{"session_id": "desk"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/sessions/desk/events", `{"tokens": ["12", "+", "30", "="]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	st := decodeState(t, rec)
	assert.Equal(t, "42", st.Display)
	assert.Equal(t, "12 + 30 = 42", st.Equation)

	rec = do(t, h, http.MethodGet, "/sessions/desk", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", decodeState(t, rec).Display)

	rec = do(t, h, http.MethodGet, "/sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["desk"]`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/sessions/desk", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/sessions/desk", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_UsesInjectedLogger(t *testing.T) {
	before := slog.Default()

	var buf bytes.Buffer
	h, srv := newTestHandler(t, WithLogger(logging.NewWithWriter(&buf, slog.LevelDebug)))
	assert.Same(t, before, slog.Default())
	assert.Same(t, srv.Logger, srv.Streams.Logger)

	rec := do(t, h, http.MethodPost, "/sessions", `{"session_id": "desk"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, h, http.MethodPost, "/sessions/desk/events", `{"tokens": ["7"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	out := buf.String()
	assert.Contains(t, out, "Session created")
	assert.Contains(t, out, "session_id=desk")
	assert.Contains(t, out, "Diff calculated")
}

func TestCreateSession_GeneratedID(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	st := decodeState(t, rec)
	assert.Len(t, st.SessionID, 36)
	assert.Equal(t, domain.AngleDegrees, st.AngleMode)

	rec = do(t, h, http.MethodPost, "/sessions", `{"angle_mode": "grad"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/sessions", `{"session_id": "  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/sessions", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPressKeys_UnknownTokenLeavesSession(t *testing.T) {
	h, _ := newTestHandler(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/sessions", `{"session_id": "s"}`).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/sessions/s/events", `{"tokens": ["7"]}`).Code)

	rec := do(t, h, http.MethodPost, "/sessions/s/events", `{"tokens": ["1", "log"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown key")

	rec = do(t, h, http.MethodGet, "/sessions/s", "")
	assert.Equal(t, "7", decodeState(t, rec).Display)
}

func TestPressKeys_Errors(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/sessions/ghost/events", `{"tokens": ["1"]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/sessions/ghost/events", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/sessions", `{"session_id": "s"}`).Code)
	rec = do(t, h, http.MethodPost, "/sessions/s/events", `{"tokens": ["`+strings.Repeat("1", 2000)+`"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMathErrorIsState(t *testing.T) {
	h, _ := newTestHandler(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/sessions", `{"session_id": "s"}`).Code)

	rec := do(t, h, http.MethodPost, "/sessions/s/events", `{"tokens": ["5", "ms", "/", "0", "="]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decodeState(t, rec)
	assert.Equal(t, domain.ErrorMarker, st.Display)
	require.NotNil(t, st.Error)
	assert.Equal(t, "division by zero", st.Error.Message)

	rec = do(t, h, http.MethodDelete, "/sessions/s/error", "")
	require.Equal(t, http.StatusOK, rec.Code)
	st = decodeState(t, rec)
	assert.Nil(t, st.Error)
	assert.True(t, st.Memory.HasValue)

	rec = do(t, h, http.MethodDelete, "/sessions/s/memory", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeState(t, rec).Memory.HasValue)
}

func TestSetAngleMode(t *testing.T) {
	h, _ := newTestHandler(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/sessions", `{"session_id": "s"}`).Code)

	rec := do(t, h, http.MethodPut, "/sessions/s/angle-mode", `{"angle_mode": "rad"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.AngleRadians, decodeState(t, rec).AngleMode)

	rec = do(t, h, http.MethodPut, "/sessions/s/angle-mode", `{"angle_mode": "grad"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/sessions/nope/angle-mode", `{"angle_mode": "deg"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSession_ETag(t *testing.T) {
	h, _ := newTestHandler(t)
	created := do(t, h, http.MethodPost, "/sessions", `{"session_id": "s"}`)
	require.Equal(t, http.StatusCreated, created.Code)

	rec := do(t, h, http.MethodGet, "/sessions/s", "")
	tag := rec.Header().Get("ETag")
	require.NotEmpty(t, tag)
	assert.Equal(t, created.Header().Get("ETag"), tag)

	req := httptest.NewRequest(http.MethodGet, "/sessions/s", nil)
	req.Header.Set("If-None-Match", tag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())

	do(t, h, http.MethodPost, "/sessions/s/events", `{"tokens": ["9"]}`)
	req = httptest.NewRequest(http.MethodGet, "/sessions/s", nil)
	req.Header.Set("If-None-Match", tag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, tag, rec.Header().Get("ETag"))
}

func TestInfoHealthKeysSpec(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/info", "")
	var info map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "abacus-http", info["app"])
	assert.Equal(t, "1.0.0", info["api_version"])
	assert.Equal(t, strings.TrimSpace(abacus.Version), info["version"])
	assert.Equal(t, "scientific", info["keymap"])

	rec = do(t, h, http.MethodGet, "/keys", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token":"sin"`)

	rec = do(t, h, http.MethodGet, "/openapi.yaml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "openapi: 3.0.3")

	rec = do(t, h, http.MethodOptions, "/sessions", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

// Every operation in openapi.yaml must have a route.
func TestRoutesMatchOpenAPI(t *testing.T) {
	doc, err := GetSwagger()
	require.NoError(t, err)

	r := chi.NewRouter()
	HandlerFromMux(&Server{}, r)

	routes := map[string]bool{}
	require.NoError(t, chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes[method+" "+strings.TrimSuffix(route, "/")] = true
		return nil
	}))

	count := 0
	for path, item := range doc.Paths.Map() {
		for method := range item.Operations() {
			count++
			assert.True(t, routes[method+" "+path], "%s %s has no route", method, path)
		}
	}
	assert.Equal(t, len(routes), count)
}

func TestMetricsEndpoint(t *testing.T) {
	m := observability.NewMetrics()
	h, _ := newTestHandler(t, WithMetrics(m))

	do(t, h, http.MethodGet, "/sessions/missing", "")
	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `abacus_http_request_duration_seconds_count{method="GET",route="/sessions/{sessionID}`)
	assert.Contains(t, body, `status="404"} 1`)
}

func TestStreamSession(t *testing.T) {
	h, srv := newTestHandler(t)
	ts := httptest.NewServer(h)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/sessions", "application/json", strings.NewReader(`{"session_id": "live"}`))
	require.NoError(t, err)
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/sessions/live/stream?watch=memory,error", nil)
	require.NoError(t, err)
	stream, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer stream.Body.Close()
	require.Equal(t, http.StatusOK, stream.StatusCode)
	assert.Equal(t, "text/event-stream", stream.Header.Get("Content-Type"))

	events := make(chan string, 10)
	go func() {
		sc := bufio.NewScanner(stream.Body)
		for sc.Scan() {
			if data, ok := strings.CutPrefix(sc.Text(), "data: "); ok {
				events <- data
			}
		}
		close(events)
	}()

	next := func() string {
		select {
		case e := <-events:
			return e
		case <-ctx.Done():
			t.Fatal("timed out waiting for event")
			return ""
		}
	}

	assert.Equal(t, "connected", next())
	var snapshot domain.StateDiff
	require.NoError(t, json.Unmarshal([]byte(next()), &snapshot))
	require.NotNil(t, snapshot.Display)
	assert.Equal(t, "0", *snapshot.Display)
	require.Eventually(t, func() bool { return srv.Streams.Subscribers("live") == 1 }, time.Second, 10*time.Millisecond)

	press := func(body string) {
		resp, err := http.Post(ts.URL+"/sessions/live/events", "application/json", bytes.NewBufferString(body))
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	press(`{"tokens": ["4"]}`) // display only: filtered out
	press(`{"tokens": ["ms"]}`)

	var diff domain.StateDiff
	require.NoError(t, json.Unmarshal([]byte(next()), &diff))
	assert.Equal(t, "live", diff.SessionID)
	require.NotNil(t, diff.Memory)
	assert.Equal(t, 4.0, diff.Memory.Value)

	press(`{"tokens": ["/", "0", "="]}`)
	diff = domain.StateDiff{}
	require.NoError(t, json.Unmarshal([]byte(next()), &diff))
	require.NotNil(t, diff.Error)
	assert.Equal(t, "division by zero", diff.Error.Message)
}

func TestStreamSession_NotFound(t *testing.T) {
	h, srv := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/sessions/ghost/stream", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, srv.Streams.Subscribers("ghost"))
}

func TestStreamManager_DropsWhenFull(t *testing.T) {
	sm := NewStreamManager()
	ch, cancel := sm.Subscribe("s")

	display := "1"
	for i := 0; i < 15; i++ {
		sm.Broadcast(&domain.StateDiff{SessionID: "s", Display: &display})
	}
	assert.Len(t, ch, 10)

	cancel()
	cancel()
	assert.Equal(t, 0, sm.Subscribers("s"))
	sm.Broadcast(&domain.StateDiff{SessionID: "s", Display: &display})
	sm.Broadcast(nil)
}

func TestMatches(t *testing.T) {
	display := "1"
	second := true
	d := &domain.StateDiff{Display: &display}

	assert.True(t, matches(d, nil))
	assert.True(t, matches(d, parseWatch(ptr("display, memory"))))
	assert.False(t, matches(d, parseWatch(ptr("memory"))))
	assert.True(t, matches(&domain.StateDiff{ErrorCleared: true}, parseWatch(ptr("error"))))
	assert.True(t, matches(&domain.StateDiff{IsSecondMode: &second}, parseWatch(ptr("second"))))
	assert.Nil(t, parseWatch(ptr(" ")))
}

func ptr[T any](v T) *T {
	return &v
}
