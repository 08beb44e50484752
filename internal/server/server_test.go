package server

import (
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jpalmerr/assetboard/asset"
	"github.com/jpalmerr/assetboard/internal/store"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockStore implements store.Store for testing.
type mockStore struct {
	mu          sync.RWMutex
	latest      *store.Event
	subscribers map[chan store.Event]struct{}
	subMu       sync.Mutex
}

func newMockStore() *mockStore {
	return &mockStore{
		subscribers: make(map[chan store.Event]struct{}),
	}
}

func (m *mockStore) Publish(event store.Event) {
	if event.Type == store.EventState {
		m.mu.Lock()
		m.latest = &event
		m.mu.Unlock()
	}

	m.subMu.Lock()
	for ch := range m.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
	m.subMu.Unlock()
}

func (m *mockStore) Latest() (store.Event, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.latest == nil {
		return store.Event{}, false
	}
	return *m.latest, true
}

func (m *mockStore) Subscribe() <-chan store.Event {
	ch := make(chan store.Event, 100)
	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()
	return ch
}

func (m *mockStore) Unsubscribe(ch <-chan store.Event) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// mockFacade implements Facade for testing.
type mockFacade struct {
	mu        sync.Mutex
	state     asset.State
	running   bool
	refreshes int
}

func newMockFacade(field1 string) *mockFacade {
	return &mockFacade{state: asset.State{Field1: asset.String(field1)}, running: true}
}

func (m *mockFacade) Snapshot() asset.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

func (m *mockFacade) UpdateField1(value *string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Field1 = value
}

func (m *mockFacade) UpdateField2(data asset.Items) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Field2 = data.Clone()
}

func (m *mockFacade) Refresh() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return false
	}
	m.refreshes++
	return true
}

// mockFS implements fs.ReadFileFS for testing page rendering.
type mockFS struct {
	files map[string]string
}

func pages(content string) *mockFS {
	return &mockFS{files: map[string]string{
		"assets/welcome.html": content,
		"assets/asset.html":   content,
	}}
}

func (m *mockFS) Open(name string) (fs.File, error) {
	return nil, fs.ErrNotExist
}

func (m *mockFS) ReadFile(name string) ([]byte, error) {
	if content, ok := m.files[name]; ok {
		return []byte(content), nil
	}
	return nil, fs.ErrNotExist
}

func newTestServer(t testing.TB, deps Deps, title string) *Server {
	t.Helper()
	srv, err := NewServer(deps, 0, title, testLogger())
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return srv
}

func defaultDeps() (Deps, *mockStore, *mockFacade) {
	ms := newMockStore()
	mf := newMockFacade("https://api.example.com/asset")
	return Deps{Store: ms, Facade: mf, Assets: pages("<title>{{.Title}}</title>")}, ms, mf
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- Routing ---

func TestHandler_RootRedirectsToWelcome(t *testing.T) {
	deps, _, _ := defaultDeps()
	h := newTestServer(t, deps, "").Handler()

	rec := serve(h, http.MethodGet, "/", "")

	if rec.Code != http.StatusFound {
		t.Fatalf("GET / status = %d, want %d", rec.Code, http.StatusFound)
	}
	if got := rec.Header().Get("Location"); got != "/welcome" {
		t.Errorf("Location = %q, want /welcome", got)
	}
}

func TestHandler_FeatureUnitPages(t *testing.T) {
	deps, _, _ := defaultDeps()
	h := newTestServer(t, deps, "Assets").Handler()

	for _, path := range []string{"/welcome", "/welcome/", "/asset", "/asset/"} {
		t.Run(path, func(t *testing.T) {
			rec := serve(h, http.MethodGet, path, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("GET %s status = %d, want 200", path, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "<title>Assets</title>") {
				t.Errorf("GET %s body = %q", path, rec.Body.String())
			}
		})
	}
}

func TestHandler_UnknownPath(t *testing.T) {
	deps, _, _ := defaultDeps()
	h := newTestServer(t, deps, "").Handler()

	rec := serve(h, http.MethodGet, "/nowhere", "")

	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /nowhere status = %d, want 404", rec.Code)
	}
}

func TestHandler_Healthz(t *testing.T) {
	deps, _, _ := defaultDeps()
	h := newTestServer(t, deps, "").Handler()

	rec := serve(h, http.MethodGet, "/healthz", "")

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("GET /healthz = %d %q, want 200 ok", rec.Code, rec.Body.String())
	}
}

func TestHandler_Metrics(t *testing.T) {
	deps, _, _ := defaultDeps()

	h := newTestServer(t, deps, "").Handler()
	if rec := serve(h, http.MethodGet, "/metrics", ""); rec.Code != http.StatusNotFound {
		t.Errorf("GET /metrics without handler = %d, want 404", rec.Code)
	}

	deps.Metrics = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("assetboard_fetches_total 1"))
	})
	h = newTestServer(t, deps, "").Handler()
	rec := serve(h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "assetboard_fetches_total") {
		t.Errorf("GET /metrics = %d %q", rec.Code, rec.Body.String())
	}
}

func TestHandler_AssetUnitUnavailable(t *testing.T) {
	h := newTestServer(t, Deps{Store: newMockStore()}, "").Handler() // no facade

	rec := serve(h, http.MethodGet, "/asset/api/state", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}

	// welcome is an independent unit and still loads
	rec = serve(h, http.MethodGet, "/welcome", "")
	if rec.Code == http.StatusNotFound {
		t.Errorf("welcome status = %d", rec.Code)
	}
}

func TestServer_Routes(t *testing.T) {
	deps, _, _ := defaultDeps()
	srv := newTestServer(t, deps, "")

	routes := srv.Routes()
	if len(routes) != 3 {
		t.Fatalf("len(Routes()) = %d, want 3", len(routes))
	}
	if routes[0].Path != "" || routes[0].RedirectTo != "/welcome" {
		t.Errorf("routes[0] = %+v, want root redirect", routes[0])
	}
	if routes[1].Unit.Name() != UnitWelcome || routes[2].Unit.Name() != UnitAsset {
		t.Errorf("unit order = %s, %s", routes[1].Unit.Name(), routes[2].Unit.Name())
	}
}

// --- Asset API ---

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) asset.State {
	t.Helper()
	var st asset.State
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode state: %v (body %q)", err, rec.Body.String())
	}
	return st
}

func TestAPI_GetState(t *testing.T) {
	deps, _, mf := defaultDeps()
	mf.UpdateField2(asset.Items{Item1: asset.String("a")})
	h := newTestServer(t, deps, "").Handler()

	rec := serve(h, http.MethodGet, "/asset/api/state", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	st := decodeState(t, rec)
	if st.Field1 == nil || *st.Field1 != "https://api.example.com/asset" {
		t.Errorf("Field1 = %v", st.Field1)
	}
	if st.Field2.Item1 == nil || *st.Field2.Item1 != "a" || st.Field2.Item2 != nil {
		t.Errorf("Field2 = %+v", st.Field2)
	}
}

func TestAPI_PutField1(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantField1 *string
	}{
		{"set", `{"field1":"https://other.example.com"}`, http.StatusOK, asset.String("https://other.example.com")},
		{"clear", `{"field1":null}`, http.StatusOK, nil},
		{"missing key", `{}`, http.StatusBadRequest, asset.String("https://api.example.com/asset")},
		{"wrong type", `{"field1":3}`, http.StatusBadRequest, asset.String("https://api.example.com/asset")},
		{"malformed", `{"field1":`, http.StatusBadRequest, asset.String("https://api.example.com/asset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps, _, mf := defaultDeps()
			h := newTestServer(t, deps, "").Handler()

			rec := serve(h, http.MethodPut, "/asset/api/field1", tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %q)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			got := mf.Snapshot().Field1
			if (got == nil) != (tt.wantField1 == nil) || (got != nil && *got != *tt.wantField1) {
				t.Errorf("Field1 = %v, want %v", got, tt.wantField1)
			}
		})
	}
}

func TestAPI_PutField2(t *testing.T) {
	deps, _, mf := defaultDeps()
	h := newTestServer(t, deps, "").Handler()

	rec := serve(h, http.MethodPut, "/asset/api/field2", `{"item1":"x","item2":null}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	st := decodeState(t, rec)
	if st.Field2.Item1 == nil || *st.Field2.Item1 != "x" || st.Field2.Item2 != nil {
		t.Errorf("response Field2 = %+v", st.Field2)
	}
	if got := mf.Snapshot().Field2; got.Item1 == nil || *got.Item1 != "x" {
		t.Errorf("facade Field2 = %+v", got)
	}
}

func TestAPI_PutField2_UnknownField(t *testing.T) {
	deps, _, _ := defaultDeps()
	h := newTestServer(t, deps, "").Handler()

	rec := serve(h, http.MethodPut, "/asset/api/field2", `{"item3":"x"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Error == "" {
		t.Errorf("error body = %q", rec.Body.String())
	}
}

func TestAPI_Refresh(t *testing.T) {
	deps, _, mf := defaultDeps()
	h := newTestServer(t, deps, "").Handler()

	rec := serve(h, http.MethodPost, "/asset/api/refresh", "")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if mf.refreshes != 1 {
		t.Errorf("refreshes = %d, want 1", mf.refreshes)
	}

	mf.mu.Lock()
	mf.running = false
	mf.mu.Unlock()

	rec = serve(h, http.MethodPost, "/asset/api/refresh", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status when stopped = %d, want 503", rec.Code)
	}
}

func TestAPI_MethodNotAllowed(t *testing.T) {
	deps, _, _ := defaultDeps()
	h := newTestServer(t, deps, "").Handler()

	rec := serve(h, http.MethodGet, "/asset/api/field1", "")

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

// --- SSE ---

func TestHandleSSE_BasicFlow(t *testing.T) {
	deps, ms, _ := defaultDeps()
	ms.Publish(store.Event{Type: store.EventState, State: asset.State{Field1: asset.String("published")}})

	srv := newTestServer(t, deps, "")

	req := httptest.NewRequest(http.MethodGet, "/asset/api/sse", nil)
	rec := httptest.NewRecorder()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	srv.handleSSE(rec, req)

	// the latest published event wins over the snapshot
	body := rec.Body.String()
	if !strings.Contains(body, "published") {
		t.Errorf("response should contain the latest event, got: %s", body)
	}
}

func TestHandleSSE_SnapshotWhenNothingPublished(t *testing.T) {
	deps, _, _ := defaultDeps()
	srv := newTestServer(t, deps, "")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/asset/api/sse", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	srv.handleSSE(rec, req)

	events := parseSSEEvents(rec.Body.String())
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Type != store.EventState || *events[0].State.Field1 != "https://api.example.com/asset" {
		t.Errorf("initial event = %+v", events[0])
	}
}

func TestHandleSSE_StreamsUpdates(t *testing.T) {
	deps, ms, _ := defaultDeps()
	srv := newTestServer(t, deps, "")

	req := httptest.NewRequest(http.MethodGet, "/asset/api/sse", nil)
	rec := httptest.NewRecorder()

	ctx, cancel := context.WithCancel(context.Background())
	req = req.WithContext(ctx)

	done := make(chan struct{})
	go func() {
		srv.handleSSE(rec, req)
		close(done)
	}()

	// give handler time to subscribe
	time.Sleep(50 * time.Millisecond)

	msg := "fetch failed"
	ms.Publish(store.Event{Type: store.EventFetchError, FetchID: "f-1", Error: &msg})

	// give time for update to be written
	time.Sleep(50 * time.Millisecond)

	cancel()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("handler did not exit after context cancellation")
	}

	events := parseSSEEvents(rec.Body.String())
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2: %s", len(events), rec.Body.String())
	}
	if events[1].Type != store.EventFetchError || events[1].FetchID != "f-1" {
		t.Errorf("streamed event = %+v", events[1])
	}
}

func TestHandleSSE_ClientDisconnect(t *testing.T) {
	deps, _, _ := defaultDeps()
	srv := newTestServer(t, deps, "")

	req := httptest.NewRequest(http.MethodGet, "/asset/api/sse", nil)
	rec := httptest.NewRecorder()

	ctx, cancel := context.WithCancel(context.Background())
	req = req.WithContext(ctx)

	done := make(chan struct{})
	go func() {
		srv.handleSSE(rec, req)
		close(done)
	}()

	// simulate client disconnect
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("handler did not exit after client disconnect")
	}
}

func TestHandleSSE_NoGoroutineLeaks(t *testing.T) {
	// allow existing goroutines to settle
	runtime.GC()
	time.Sleep(100 * time.Millisecond)
	before := runtime.NumGoroutine()

	deps, _, _ := defaultDeps()
	srv := newTestServer(t, deps, "")

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			req := httptest.NewRequest(http.MethodGet, "/asset/api/sse", nil)
			req = req.WithContext(ctx)
			rec := httptest.NewRecorder()

			srv.handleSSE(rec, req)
		}()
	}

	wg.Wait()

	runtime.GC()
	time.Sleep(200 * time.Millisecond)

	after := runtime.NumGoroutine()
	if after > before+2 { // small tolerance for runtime variance
		t.Errorf("potential goroutine leak: before=%d, after=%d", before, after)
	}
}

func TestHandleSSE_ConcurrentClientsShutdown(t *testing.T) {
	deps, _, _ := defaultDeps()
	srv := newTestServer(t, deps, "")

	serverCtx, serverCancel := context.WithCancel(context.Background())

	numClients := 10
	var wg sync.WaitGroup
	started := make(chan struct{})
	var startedCount atomic.Int32

	for i := 0; i < numClients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := httptest.NewRequest(http.MethodGet, "/asset/api/sse", nil)
			req = req.WithContext(serverCtx)
			rec := httptest.NewRecorder()

			if startedCount.Add(1) == int32(numClients) {
				close(started)
			}

			srv.handleSSE(rec, req)
		}()
	}

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("clients did not start in time")
	}

	time.Sleep(100 * time.Millisecond)
	serverCancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("not all handlers exited after shutdown")
	}
}

func TestHandleSSE_SSENotSupported(t *testing.T) {
	deps, _, _ := defaultDeps()
	srv := newTestServer(t, deps, "")

	req := httptest.NewRequest(http.MethodGet, "/asset/api/sse", nil)
	w := &nonFlushWriter{header: make(http.Header)}

	srv.handleSSE(w, req)

	if w.statusCode != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.statusCode)
	}
}

type nonFlushWriter struct {
	header     http.Header
	statusCode int
	body       []byte
}

func (n *nonFlushWriter) Header() http.Header {
	return n.header
}

func (n *nonFlushWriter) Write(b []byte) (int, error) {
	n.body = append(n.body, b...)
	return len(b), nil
}

func (n *nonFlushWriter) WriteHeader(statusCode int) {
	n.statusCode = statusCode
}

func TestHandleSSE_Headers(t *testing.T) {
	deps, _, _ := defaultDeps()
	srv := newTestServer(t, deps, "")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/asset/api/sse", nil)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	srv.handleSSE(rec, req)

	expectedHeaders := map[string]string{
		"Content-Type":                "text/event-stream",
		"Cache-Control":               "no-cache",
		"Connection":                  "keep-alive",
		"Access-Control-Allow-Origin": "*",
	}

	for key, expected := range expectedHeaders {
		if got := rec.Header().Get(key); got != expected {
			t.Errorf("header %s = %q, want %q", key, got, expected)
		}
	}
}

// TestHandleSSE_ServerShutdownIntegration tests that SSE handlers exit cleanly
// when the server is shut down, using a real HTTP connection.
func TestHandleSSE_ServerShutdownIntegration(t *testing.T) {
	deps, _, _ := defaultDeps()
	srv := newTestServer(t, deps, "")

	serverCtx, serverCancel := context.WithCancel(context.Background())

	// derive request context from server context (simulates BaseContext)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(serverCtx)
		srv.handleSSE(w, r)
	})

	ts := httptest.NewServer(handler)
	defer ts.Close()

	client := ts.Client()
	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	connDone := make(chan error, 1)
	go func() {
		resp, err := client.Do(req)
		if err != nil {
			connDone <- err
			return
		}
		defer func() { _ = resp.Body.Close() }()

		buf := make([]byte, 1024)
		for {
			_, err := resp.Body.Read(buf)
			if err != nil {
				connDone <- nil // expected - connection closed
				return
			}
		}
	}()

	time.Sleep(100 * time.Millisecond)
	serverCancel()

	select {
	case <-connDone:
	case <-time.After(3 * time.Second):
		t.Fatal("SSE connection did not close after server shutdown")
	}
}

func parseSSEEvents(body string) []store.Event {
	var events []store.Event
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "data: ") {
			var ev store.Event
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err == nil {
				events = append(events, ev)
			}
		}
	}
	return events
}

// --- Server Start ---

func TestServer_StartServesRoutes(t *testing.T) {
	deps, _, _ := defaultDeps()
	srv := newTestServer(t, deps, "")

	if got := srv.BaseURL(); got != "" {
		t.Errorf("BaseURL() before Start = %q, want empty", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	base := srv.BaseURL()
	if !strings.HasPrefix(base, "http://localhost:") || !strings.HasSuffix(base, "/") {
		t.Fatalf("BaseURL() = %q", base)
	}

	client := &http.Client{
		Timeout: 2 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Get(base)
	if err != nil {
		t.Fatalf("GET %s: %v", base, err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/welcome" {
		t.Errorf("GET / = %d Location %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestStart_PortInUse_ReturnsError(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}
	defer func() { _ = ln.Close() }()

	port := ln.Addr().(*net.TCPAddr).Port

	deps, _, _ := defaultDeps()
	srv, err := NewServer(deps, port, "", testLogger())
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = srv.Start(ctx)
	if err == nil {
		t.Fatal("Start() on occupied port should return error")
	}
	if !strings.Contains(err.Error(), "failed to bind") {
		t.Errorf("expected bind error, got: %v", err)
	}
}

func TestStart_InvalidPort_ReturnsError(t *testing.T) {
	deps, _, _ := defaultDeps()
	srv, err := NewServer(deps, -1, "", testLogger())
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Start(ctx); err == nil {
		t.Fatal("Start() with invalid port should return error")
	}
}

// --- Page titles ---

func TestPage_DefaultTitle(t *testing.T) {
	deps, _, _ := defaultDeps()
	deps.Assets = pages("<title>{{.Title}}</title><h1>{{.Title}}</h1>")
	h := newTestServer(t, deps, "").Handler()

	body := serve(h, http.MethodGet, "/welcome", "").Body.String()

	if !strings.Contains(body, "<title>AssetBoard</title>") || !strings.Contains(body, "<h1>AssetBoard</h1>") {
		t.Errorf("expected default title AssetBoard, got: %s", body)
	}
}

func TestPage_NotFound(t *testing.T) {
	deps, _, _ := defaultDeps()
	deps.Assets = nil
	h := newTestServer(t, deps, "Custom Title").Handler()

	rec := serve(h, http.MethodGet, "/welcome", "")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
}

func TestPage_TitleIsEscaped(t *testing.T) {
	tests := []struct {
		title string
		want  string
		deny  string
	}{
		{"<script>alert('xss')</script>", "&lt;script&gt;", "<script>"},
		{"Health & Status", "Health &amp; Status", "Health & Status"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			deps, _, _ := defaultDeps()
			h := newTestServer(t, deps, tt.title).Handler()

			body := serve(h, http.MethodGet, "/asset", "").Body.String()

			if strings.Contains(body, tt.deny) {
				t.Errorf("title should be HTML-escaped, got: %s", body)
			}
			if !strings.Contains(body, tt.want) {
				t.Errorf("expected %q in %s", tt.want, body)
			}
		})
	}
}

func BenchmarkHandleSSE_SingleClient(b *testing.B) {
	deps, _, _ := defaultDeps()
	srv := newTestServer(b, deps, "")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		req := httptest.NewRequest(http.MethodGet, "/asset/api/sse", nil)
		req = req.WithContext(ctx)
		rec := httptest.NewRecorder()

		srv.handleSSE(rec, req)
		cancel()
	}
}
