package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/faustbox"
	"github.com/aretw0/faustbox/internal/logging"
	"github.com/aretw0/faustbox/internal/testutils"
	"github.com/aretw0/faustbox/pkg/adapters/memory"
	"github.com/aretw0/faustbox/pkg/factory"
)

func newTestHandler(t *testing.T, loader *memory.Loader) http.Handler {
	t.Helper()
	opts := []faustbox.Option{faustbox.WithLogger(logging.NewNop())}
	if loader != nil {
		opts = append(opts, faustbox.WithLoader(loader))
	}
	svc, err := faustbox.New("", opts...)
	require.NoError(t, err)
	if loader == nil {
		return NewHandler(svc, nil, logging.NewNop())
	}
	return NewHandler(svc, loader, logging.NewNop())
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCompile(t *testing.T) {
	h := newTestHandler(t, nil)

	w := do(h, "POST", "/compile?args=-double&args=-cn&args=Echo", testutils.Echo)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	f, err := factory.Read(w.Body, false)
	require.NoError(t, err)
	assert.Equal(t, "echo", f.Name)
	assert.Equal(t, factory.PrecisionDouble, f.Options.Precision)
	assert.Equal(t, "Echo", f.Options.ClassName)
	assert.Equal(t, `"`+f.SHAKey+`"`, w.Header().Get("ETag"))

	w = do(h, "GET", "/factories", "")
	require.Equal(t, http.StatusOK, w.Code)
	var keys []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &keys))
	assert.Equal(t, []string{f.SHAKey}, keys)

	w = do(h, "GET", "/factories/"+f.SHAKey, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(h, "DELETE", "/factories/"+f.SHAKey, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(h, "GET", "/factories/"+f.SHAKey, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompile_Msgpack(t *testing.T) {
	h := newTestHandler(t, nil)

	req := httptest.NewRequest("POST", "/compile", strings.NewReader(testutils.Echo))
	req.Header.Set("Accept", ContentTypeMsgpack)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ContentTypeMsgpack, w.Header().Get("Content-Type"))
	f, err := factory.Read(w.Body, true)
	require.NoError(t, err)
	assert.Equal(t, "echo", f.Name)
}

func TestCompile_Errors(t *testing.T) {
	h := newTestHandler(t, nil)

	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
		wantDiag   bool
	}{
		{"malformed document", "/compile", "{{{", http.StatusUnprocessableEntity, false},
		{"unknown op", "/compile", "process: main\nboxes:\n  main: { op: nope }\n", http.StatusUnprocessableEntity, true},
		{"arity mismatch", "/compile", "process: main\nboxes:\n  main: { op: seq, args: [c, w] }\n  c: { op: cut }\n  w: { op: wire }\n", http.StatusUnprocessableEntity, false},
		{"unresolved foreign", "/compile", "process: g\nboxes:\n  g: { op: fconst, type: real, name: fGain, file: nowhere.h }\n", http.StatusUnprocessableEntity, true},
		{"bad options", "/compile?args=-single&args=-double", testutils.Echo, http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(h, "POST", tt.target, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			var resp errorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			if tt.wantDiag {
				assert.NotEmpty(t, resp.Diagnostics)
			}
		})
	}
}

func TestGraphAndReport(t *testing.T) {
	h := newTestHandler(t, nil)

	w := do(h, "POST", "/compile", testutils.Echo)
	require.Equal(t, http.StatusOK, w.Code)
	f, err := factory.Read(w.Body, false)
	require.NoError(t, err)

	w = do(h, "GET", "/factories/"+f.SHAKey+"/graph", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "graph LR")
	assert.Contains(t, w.Body.String(), `"z-1"`)
	assert.NotContains(t, w.Body.String(), "<br/>")

	w = do(h, "GET", "/factories/"+f.SHAKey+"/graph?ranges=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<br/>")
	assert.Contains(t, w.Body.String(), "highlight;")

	w = do(h, "GET", "/factories/"+f.SHAKey+"/report", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "# echo")
	assert.Contains(t, w.Body.String(), f.SHAKey)

	w = do(h, "GET", "/factories/missing/graph", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDiagrams(t *testing.T) {
	h := newTestHandler(t, memory.NewLoader(map[string]string{"fx/echo": testutils.Echo}))

	w := do(h, "GET", "/diagrams", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["fx/echo"]`, w.Body.String())

	w = do(h, "GET", "/diagrams/fx/echo", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "echo")

	w = do(h, "POST", "/diagrams/fx/echo?args=-double", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	f, err := factory.Read(w.Body, false)
	require.NoError(t, err)
	assert.Equal(t, factory.PrecisionDouble, f.Options.Precision)

	w = do(h, "POST", "/diagrams/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDiagrams_NoLibrary(t *testing.T) {
	h := newTestHandler(t, nil)

	w := do(h, "GET", "/diagrams", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(h, "GET", "/events", "")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

// watchingLoader adds change notifications to a memory loader.
type watchingLoader struct {
	*memory.Loader
	events chan string
}

func (l *watchingLoader) Watch(ctx context.Context) (<-chan string, error) {
	return l.events, nil
}

func TestSubscribeEvents(t *testing.T) {
	svc, err := faustbox.New("", faustbox.WithLogger(logging.NewNop()))
	require.NoError(t, err)

	loader := &watchingLoader{Loader: memory.NewLoader(nil), events: make(chan string, 1)}
	loader.events <- "echo"
	close(loader.events)
	h := NewHandler(svc, loader, logging.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	req := httptest.NewRequest("GET", "/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "event: ping")
	assert.Contains(t, body, "event: changed\ndata: echo")
}

func TestHealthAndInfo(t *testing.T) {
	h := newTestHandler(t, nil)

	w := do(h, "GET", "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(h, "GET", "/info", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), faustbox.Version)
}
