package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/gridmesh/gridmesh/pkg/graph"
	"github.com/gridmesh/gridmesh/pkg/pipeline"
	"github.com/gridmesh/gridmesh/pkg/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return New(pipeline.NewRunner(nil, nil), store.NewMemoryStore(), logger)
}

func testBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	req := buildRequest{
		Graph: graph.Graph{
			Nodes: []graph.Node{
				{ID: "a", GroupIDs: []string{"g1"}},
				{ID: "b", GroupIDs: []string{"g1"}},
			},
			Edges:  []graph.Edge{{Source: "a", Target: "b"}},
			Groups: []graph.Group{{ID: "g1", MemberIDs: []string{"a", "b"}}},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestHealthz(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID header")
	}
}

func TestComputeLayout(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/layout", testBody(t)))

	if rec.Code != http.StatusOK {
		t.Fatalf("POST /v1/layout = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp buildResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Layout.Nodes) != 2 {
		t.Errorf("placed %d nodes, want 2", len(resp.Layout.Nodes))
	}
	if resp.GraphHash == "" {
		t.Error("response missing graph hash")
	}
	if resp.ID != "" {
		t.Error("compute endpoint should not assign an ID")
	}
}

func TestComputeRejectsBadBody(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/layout",
		bytes.NewBufferString("{not json")))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST /v1/layout with bad body = %d, want 400", rec.Code)
	}
}

func TestComputeRejectsInvalidGraph(t *testing.T) {
	body, _ := json.Marshal(buildRequest{
		Graph: graph.Graph{Nodes: []graph.Node{{ID: "a"}, {ID: "a"}}},
	})

	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/layout",
		bytes.NewReader(body)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate node IDs = %d, want 400", rec.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Code == "" || resp.Message == "" {
		t.Errorf("error body = %+v, want code and message", resp)
	}
}

func TestCreateGetDeleteLayout(t *testing.T) {
	srv := testServer(t)
	router := srv.Router()

	// Create.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/layouts", testBody(t)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /v1/layouts = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created buildResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created layout has no ID")
	}

	// Get.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/layouts/"+created.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /v1/layouts/{id} = %d, want 200", rec.Code)
	}
	var rec2 store.Record
	if err := json.NewDecoder(rec.Body).Decode(&rec2); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if rec2.ID != created.ID || len(rec2.Layout.Nodes) != 2 {
		t.Errorf("fetched record = %+v, want the created layout", rec2)
	}

	// Delete.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/layouts/"+created.ID, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE /v1/layouts/{id} = %d, want 204", rec.Code)
	}

	// Gone.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/layouts/"+created.ID, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET after delete = %d, want 404", rec.Code)
	}
}

func TestGetUnknownLayout(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/layouts/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("GET unknown layout = %d, want 404", rec.Code)
	}
}

func TestPersistenceDisabledWithoutStore(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(pipeline.NewRunner(nil, nil), nil, logger)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/layouts", testBody(t)))
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("POST /v1/layouts without store = %d, want 501", rec.Code)
	}

	// The stateless compute endpoint keeps working.
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/layout", testBody(t)))
	if rec.Code != http.StatusOK {
		t.Errorf("POST /v1/layout without store = %d, want 200", rec.Code)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "client-id-42")

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "client-id-42" {
		t.Errorf("X-Request-ID = %q, want the client-provided ID echoed", got)
	}
}
