package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/brk3/habiterm/internal/config"
	"github.com/brk3/habiterm/internal/service"
	"github.com/brk3/habiterm/internal/storage/bolt"
	"github.com/brk3/habiterm/pkg/habit"
)

var now = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, token string) http.Handler {
	t.Helper()
	st, err := bolt.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := config.Default()
	cfg.AuthToken = token
	svc := service.New(st, service.WithClock(func() time.Time { return now }))
	return New(&cfg, svc).Router()
}

func mockRequest(h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal error: %v (body %s)", err, rr.Body.String())
	}
	return out
}

func createHabit(t *testing.T, h http.Handler, body string) habit.Habit {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/habits/", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create got %d want 201: %s", rr.Code, rr.Body.String())
	}
	return decode[habit.Habit](t, rr)
}

func TestListHabits_Empty(t *testing.T) {
	h := newTestServer(t, "")
	rr := mockRequest(h, http.MethodGet, "/habits/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `{"habits":[]}` {
		t.Fatalf("got %s, want an empty habits array", got)
	}
}

func TestHabitLifecycle(t *testing.T) {
	h := newTestServer(t, "")
	created := createHabit(t, h, `{"name":"guitar","time_limit_minutes":20,"frequency":{"type":"weekly_n","weekly_count":3}}`)
	if created.SortOrder != 1 || created.Frequency.TargetPerWeek() != 3 {
		t.Fatalf("unexpected habit %+v", created)
	}

	rr := mockRequest(h, http.MethodPatch, "/habits/"+created.ID, map[string]any{"name": "bass"})
	if rr.Code != http.StatusOK {
		t.Fatalf("patch got %d want 200: %s", rr.Code, rr.Body.String())
	}
	if got := decode[habit.Habit](t, rr); got.Name != "bass" || got.TimeLimitMinutes != 20 {
		t.Fatalf("patch result %+v", got)
	}

	rr = mockRequest(h, http.MethodPost, "/habits/"+created.ID+"/completions", CompleteRequest{DurationSeconds: 1200})
	if rr.Code != http.StatusCreated {
		t.Fatalf("complete got %d want 201: %s", rr.Code, rr.Body.String())
	}
	done := decode[CompleteResponse](t, rr)
	if done.Completion.DurationSeconds != 1200 || len(done.Habit.Completions) != 1 {
		t.Fatalf("unexpected completion response %+v", done)
	}

	rr = mockRequest(h, http.MethodGet, "/habits/"+created.ID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get got %d want 200", rr.Code)
	}
	if got := decode[habit.Habit](t, rr); len(got.Completions) != 1 {
		t.Fatalf("got %d completions, want 1", len(got.Completions))
	}

	rr = mockRequest(h, http.MethodDelete, "/habits/"+created.ID, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete got %d want 204", rr.Code)
	}
	rr = mockRequest(h, http.MethodGet, "/habits/"+created.ID, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("get after delete got %d want 404", rr.Code)
	}
}

func TestCreateHabit_Invalid(t *testing.T) {
	h := newTestServer(t, "")
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"empty name", `{"name":"  ","time_limit_minutes":10}`, http.StatusBadRequest},
		{"zero minutes", `{"name":"read","time_limit_minutes":0}`, http.StatusBadRequest},
		{"too many minutes", `{"name":"read","time_limit_minutes":121}`, http.StatusBadRequest},
		{"weekly count out of range", `{"name":"read","time_limit_minutes":5,"frequency":{"type":"weekly_n","weekly_count":7}}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/habits/", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Fatalf("got %d want %d: %s", rr.Code, tt.want, rr.Body.String())
			}
			if resp := decode[ErrorResponse](t, rr); resp.Error == "" {
				t.Fatal("expected an error message")
			}
		})
	}
}

func TestComplete_EmptyBodyAndMissingHabit(t *testing.T) {
	h := newTestServer(t, "")
	created := createHabit(t, h, `{"name":"read","time_limit_minutes":5}`)

	rr := mockRequest(h, http.MethodPost, "/habits/"+created.ID+"/completions", nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("got %d want 201: %s", rr.Code, rr.Body.String())
	}
	rr = mockRequest(h, http.MethodPost, "/habits/ghost/completions", CompleteRequest{DurationSeconds: 5})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("got %d want 404", rr.Code)
	}
}

func TestTodayAndWeek(t *testing.T) {
	h := newTestServer(t, "")
	guitar := createHabit(t, h, `{"name":"guitar","time_limit_minutes":20}`)
	createHabit(t, h, `{"name":"read","time_limit_minutes":10}`)
	mockRequest(h, http.MethodPost, "/habits/"+guitar.ID+"/completions", CompleteRequest{DurationSeconds: 60})

	rr := mockRequest(h, http.MethodGet, "/today", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("today got %d want 200", rr.Code)
	}
	today := decode[service.Today](t, rr)
	if today.Progress.Completed != 1 || today.Progress.Total != 2 {
		t.Fatalf("progress = %+v, want 1/2", today.Progress)
	}
	if len(today.Pending) != 1 || today.Pending[0].Name != "read" {
		t.Fatalf("pending = %+v", today.Pending)
	}

	rr = mockRequest(h, http.MethodGet, "/week", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("week got %d want 200", rr.Code)
	}
	week := decode[service.Week](t, rr)
	if len(week.Days) != 7 || len(week.Rows) != 2 {
		t.Fatalf("week has %d days and %d rows", len(week.Days), len(week.Rows))
	}
	if got := week.Rows[0].Cells[6]; got != service.CellDone {
		t.Fatalf("today's cell for guitar = %s, want done", got)
	}
}

func TestTokenMiddleware(t *testing.T) {
	h := newTestServer(t, "s3cret")

	rr := mockRequest(h, http.MethodGet, "/habits/", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("no token: got %d want 401", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/habits/", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token: got %d want 401", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/habits/", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("good token: got %d want 200", rr.Code)
	}

	rr = mockRequest(h, http.MethodGet, "/version", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("version should be public, got %d", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, "")
	mockRequest(h, http.MethodGet, "/habits/", nil)

	rr := mockRequest(h, http.MethodGet, "/metrics", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "habiterm_http_requests_total") {
		t.Fatal("metrics output missing habiterm_http_requests_total")
	}
}

func TestRouter_SeedsActiveHabits(t *testing.T) {
	st, err := bolt.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	svc := service.New(st, service.WithClock(func() time.Time { return now }))
	for _, name := range []string{"guitar", "read"} {
		if _, err := svc.CreateHabit(t.Context(), habit.Draft{Name: name, TimeLimitMinutes: 10}); err != nil {
			t.Fatalf("CreateHabit failed: %v", err)
		}
	}

	cfg := config.Default()
	h := New(&cfg, svc).Router()
	rr := mockRequest(h, http.MethodGet, "/metrics", nil)
	if !strings.Contains(rr.Body.String(), "habiterm_active_habits_total 2") {
		t.Fatalf("gauge not seeded from the store:\n%s", rr.Body.String())
	}

	if rr := mockRequest(h, http.MethodDelete, "/habits/"+mustFirstID(t, svc), nil); rr.Code != http.StatusNoContent {
		t.Fatalf("delete got %d", rr.Code)
	}
	rr = mockRequest(h, http.MethodGet, "/metrics", nil)
	if !strings.Contains(rr.Body.String(), "habiterm_active_habits_total 1") {
		t.Fatalf("gauge did not count down from the seeded total:\n%s", rr.Body.String())
	}
}

func mustFirstID(t *testing.T, svc *service.Service) string {
	t.Helper()
	habits, err := svc.ListHabits(t.Context())
	if err != nil || len(habits) == 0 {
		t.Fatalf("ListHabits = %v, %v", habits, err)
	}
	return habits[0].ID
}
