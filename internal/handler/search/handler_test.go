package search

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/shopvoice/backend/internal/artifact"
	"github.com/shopvoice/backend/internal/model/catalog"
	"github.com/shopvoice/backend/internal/service/query"
	"github.com/shopvoice/backend/internal/service/session"
)

type stubAudio struct {
	store *artifact.Store
}

func (s *stubAudio) Artifact(artifactID string) ([]byte, error) {
	return s.store.Get(artifactID)
}

func setupRouter(audio AudioProvider) *chi.Mux {
	store := catalog.NewMemoryStore([]catalog.Product{
		{ID: "1", Name: "Flannel Shirt", Category: "shirt", Color: "red", Price: 20},
		{ID: "2", Name: "Linen Shirt", Category: "shirt", Color: "blue", Price: 50},
	})
	orchestrator := query.New(session.NewService(), store, nil, nil)
	handler := New(orchestrator, store, audio)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func postSearch(t *testing.T, r http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestSearchAllocatesSession(t *testing.T) {
	r := setupRouter(nil)

	resp := postSearch(t, r, map[string]string{"query": "anything"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var result query.TurnResult
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.SessionID == "" {
		t.Fatal("expected allocated session id")
	}
	if len(result.Products) != 2 {
		t.Fatalf("no parser configured, expected full catalog, got %d", len(result.Products))
	}
	if result.Message != "Showing 2 result(s) for your query" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
	if result.AudioURL != "" {
		t.Fatalf("no synthesizer configured, expected empty audio url, got %q", result.AudioURL)
	}
}

func TestSearchReusesSession(t *testing.T) {
	r := setupRouter(nil)

	first := postSearch(t, r, map[string]string{"query": "hello"})
	var firstResult query.TurnResult
	json.Unmarshal(first.Body.Bytes(), &firstResult)

	second := postSearch(t, r, map[string]string{"query": "again", "sessionId": firstResult.SessionID})
	var secondResult query.TurnResult
	json.Unmarshal(second.Body.Bytes(), &secondResult)

	if secondResult.SessionID != firstResult.SessionID {
		t.Fatalf("session not reused: %s -> %s", firstResult.SessionID, secondResult.SessionID)
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	r := setupRouter(nil)

	if resp := postSearch(t, r, map[string]string{"query": "   "}); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank query, got %d", resp.Code)
	}
}

func TestSearchRejectsInvalidBody(t *testing.T) {
	r := setupRouter(nil)

	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader([]byte("{broken")))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid body, got %d", resp.Code)
	}
}

func TestListProducts(t *testing.T) {
	r := setupRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var payload struct {
		Products []catalog.Product `json:"products"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Products) != 2 {
		t.Fatalf("expected full catalog, got %d products", len(payload.Products))
	}
}

func TestGetAudio(t *testing.T) {
	store := artifact.NewStore()
	store.Replace("s1", "s1_abc.mp3", []byte("mp3-bytes"))
	r := setupRouter(&stubAudio{store: store})

	req := httptest.NewRequest(http.MethodGet, "/audio/s1_abc.mp3", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "audio/mpeg" {
		t.Fatalf("unexpected content type: %s", ct)
	}
	if resp.Body.String() != "mp3-bytes" {
		t.Fatalf("unexpected body: %q", resp.Body.String())
	}
}

func TestGetAudioSuperseded(t *testing.T) {
	store := artifact.NewStore()
	store.Replace("s1", "s1_old.mp3", []byte("old"))
	store.Replace("s1", "s1_new.mp3", []byte("new"))
	r := setupRouter(&stubAudio{store: store})

	req := httptest.NewRequest(http.MethodGet, "/audio/s1_old.mp3", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("superseded artifact must 404, got %d", resp.Code)
	}
}

func TestGetAudioWithoutSpeechService(t *testing.T) {
	r := setupRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/audio/whatever.mp3", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when speech is disabled, got %d", resp.Code)
	}
}
