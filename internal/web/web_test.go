// Package web tests the browser front end against the in-memory dev service.
package web

import (
	"bytes"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist/internal/app"
	"github.com/nibzard/tasklist/internal/devserver"
	"github.com/nibzard/tasklist/internal/task"
	"github.com/nibzard/tasklist/internal/tasksvc"
)

type harness struct {
	web   *httptest.Server
	store *devserver.Store
	lists *atomic.Int64
	http  *http.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store, err := devserver.NewStore("", task.LocaleEN.Categories())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	lists := &atomic.Int64{}
	dev := devserver.New(store, nil)
	service := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			lists.Add(1)
		}
		dev.ServeHTTP(w, r)
	}))
	t.Cleanup(service.Close)

	client, err := tasksvc.NewClient(service.URL, "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	srv, err := New(app.New(client, app.Options{Locale: task.LocaleEN}), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	web := httptest.NewServer(srv)
	t.Cleanup(web.Close)

	jar, _ := cookiejar.New(nil)
	return &harness{
		web:   web,
		store: store,
		lists: lists,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (h *harness) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := h.http.Get(h.web.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

func (h *harness) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := h.http.PostForm(h.web.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

func (h *harness) token(t *testing.T) string {
	t.Helper()
	u, _ := url.Parse(h.web.URL)
	for _, c := range h.http.Jar.Cookies(u) {
		if c.Name == csrfCookie {
			return c.Value
		}
	}
	t.Fatal("no csrf cookie")
	return ""
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

// sections splits a page into its pending and completed lists.
func sections(body string) (pending, completed string) {
	i := strings.Index(body, `id="pending-tasks"`)
	j := strings.Index(body, `id="completed-tasks"`)
	if i < 0 || j < 0 {
		return "", ""
	}
	return body[i:j], body[j:]
}

func TestIndexPage(t *testing.T) {
	h := newHarness(t)
	resp, body := h.get(t, "/")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	for _, id := range []string{"task-form", "description", "category", "deadline", "pending-tasks", "completed-tasks", "toggle-theme"} {
		if !strings.Contains(body, `id="`+id+`"`) {
			t.Errorf("page missing element %q", id)
		}
	}
	for _, cat := range task.LocaleEN.Categories() {
		if !strings.Contains(body, `<option value="`+cat+`">`) {
			t.Errorf("page missing category %q", cat)
		}
	}
	if !strings.Contains(body, "🌙") || strings.Contains(body, `class="dark-mode"`) {
		t.Error("default page should be light with the moon icon")
	}
	if got := resp.Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options: got %q", got)
	}
	if resp.Header.Get(tasksvc.RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
	if h.lists.Load() != 1 {
		t.Errorf("list requests: got %d, want 1", h.lists.Load())
	}
	h.token(t)
}

func TestDarkThemeParam(t *testing.T) {
	h := newHarness(t)
	_, body := h.get(t, "/?theme=dark")
	if !strings.Contains(body, `<body class="dark-mode">`) || !strings.Contains(body, "☀️") {
		t.Error("dark page should carry dark-mode class and sun icon")
	}
	if !strings.Contains(body, `name="theme" value="light"`) {
		t.Error("toggle form should point back to light")
	}
}

func TestAddCompleteDeleteFlow(t *testing.T) {
	h := newHarness(t)
	h.get(t, "/")
	tok := h.token(t)
	label := "Buy milk - Home - Deadline: 2024-01-01"

	before := h.lists.Load()
	resp, body := h.post(t, "/tasks", url.Values{
		"description": {"Buy milk"},
		"category":    {"Home"},
		"deadline":    {"2024-01-01"},
		"theme":       {"dark"},
		"csrf_token":  {tok},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add status: got %d\n%s", resp.StatusCode, body)
	}
	if got := h.lists.Load() - before; got != 1 {
		t.Errorf("add refreshed %d times, want 1", got)
	}
	pending, completed := sections(body)
	if !strings.Contains(pending, label) || strings.Contains(completed, label) {
		t.Fatalf("after add: label not in pending only")
	}
	if !strings.Contains(body, `class="dark-mode"`) {
		t.Error("theme not carried through the post")
	}

	tasks := h.store.List(nil)
	if len(tasks) != 1 {
		t.Fatalf("store: got %d tasks", len(tasks))
	}
	id := tasks[0].ID.String()

	resp, body = h.post(t, "/tasks/"+id+"/complete", url.Values{"csrf_token": {tok}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete status: got %d", resp.StatusCode)
	}
	pending, completed = sections(body)
	if strings.Contains(pending, label) || !strings.Contains(completed, `class="completed"`) {
		t.Fatalf("after complete: task not moved to completed")
	}

	resp, body = h.post(t, "/tasks/"+id+"/delete", url.Values{"csrf_token": {tok}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status: got %d", resp.StatusCode)
	}
	if strings.Contains(body, label) {
		t.Error("after delete: label still rendered")
	}
	if h.store.Len() != 0 {
		t.Errorf("store: got %d tasks, want 0", h.store.Len())
	}
}

func TestCSRFRequired(t *testing.T) {
	h := newHarness(t)
	h.get(t, "/")

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"mismatch", "not-the-cookie"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{"description": {"x"}, "category": {"Home"}, "deadline": {"2024-01-01"}}
			if tt.token != "" {
				form.Set("csrf_token", tt.token)
			}
			resp, _ := h.post(t, "/tasks", form)
			if resp.StatusCode != http.StatusForbidden {
				t.Errorf("status: got %d, want 403", resp.StatusCode)
			}
		})
	}
	if h.store.Len() != 0 {
		t.Errorf("forbidden posts created %d tasks", h.store.Len())
	}
}

func TestAddValidation(t *testing.T) {
	h := newHarness(t)
	h.get(t, "/")
	before := h.lists.Load()

	resp, body := h.post(t, "/tasks", url.Values{
		"description": {"  "},
		"category":    {"Nope"},
		"deadline":    {"tomorrow"},
		"csrf_token":  {h.token(t)},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", resp.StatusCode)
	}
	if !strings.Contains(body, `id="task-form"`) {
		t.Error("page should still be rendered")
	}
	for _, text := range []string{"description is required", "unknown category", "deadline must be"} {
		if strings.Contains(body, text) {
			t.Errorf("page shows validation text %q", text)
		}
	}
	if h.store.Len() != 0 || h.lists.Load() != before {
		t.Error("invalid form reached the service")
	}
}

func TestMutationFailure(t *testing.T) {
	h := newHarness(t)
	h.get(t, "/")
	before := h.lists.Load()

	resp, body := h.post(t, "/tasks/42/complete", url.Values{"csrf_token": {h.token(t)}})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if strings.Contains(body, "Task not found") {
		t.Error("page shows the service error")
	}
	if !strings.Contains(body, `id="pending-tasks"`) {
		t.Error("refreshed page not rendered")
	}
	if got := h.lists.Load() - before; got != 1 {
		t.Errorf("failed mutation refreshed %d times, want 1", got)
	}
}

func TestServiceDown(t *testing.T) {
	client, err := tasksvc.NewClient("http://127.0.0.1:1", "")
	if err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer
	logger := log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel})
	srv, err := New(app.New(client, app.Options{Logger: logger}), Options{Logger: logger})
	if err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, text := range []string{"connection refused", "127.0.0.1:1", "refresh failed", `role="alert"`} {
		if strings.Contains(body, text) {
			t.Errorf("page shows refresh error text %q", text)
		}
	}
	if !strings.Contains(logs.String(), "refresh failed") {
		t.Errorf("refresh failure not logged: %q", logs.String())
	}
	pending, completed := sections(body)
	if strings.Contains(pending, "<li") || strings.Contains(completed, "<li") {
		t.Error("containers should be empty after a failed refresh")
	}
}

func TestSupportRoutes(t *testing.T) {
	h := newHarness(t)
	h.get(t, "/")

	resp, body := h.get(t, "/healthz")
	if resp.StatusCode != http.StatusOK || strings.TrimSpace(body) != "ok" {
		t.Errorf("healthz: got %d %q", resp.StatusCode, body)
	}

	resp, body = h.get(t, "/static/style.css")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "dark-mode") {
		t.Errorf("style.css: got %d", resp.StatusCode)
	}

	resp, body = h.get(t, "/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics: got %d", resp.StatusCode)
	}
	if !strings.Contains(body, `http_requests_total{method="GET",route="/",status="200"} 1`) {
		t.Errorf("metrics missing index counter:\n%s", body)
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Error("metrics missing Go collector")
	}
}
