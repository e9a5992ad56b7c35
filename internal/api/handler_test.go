package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/textsim-go/internal/embeddings"
	"github.com/ZanzyTHEbar/textsim-go/pkg/textsim"
)

type fakeProvider struct {
	vecs  map[string][]float32
	err   error
	calls int
}

func (p *fakeProvider) Name() string    { return "fake" }
func (p *fakeProvider) Model() string   { return "fake-model" }
func (p *fakeProvider) Dimensions() int { return 3 }

func (p *fakeProvider) Embed(_ context.Context, _ embeddings.TaskType, inputs []string) ([][]float32, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	out := make([][]float32, len(inputs))
	for i, in := range inputs {
		v, ok := p.vecs[in]
		if !ok {
			v = []float32{0.1, 0.1, 0.1}
		}
		out[i] = v
	}
	return out, nil
}

func newFake() *fakeProvider {
	return &fakeProvider{vecs: map[string][]float32{
		"cat":       {1, 0.1, 0},
		"kitten":    {0.9, 0.2, 0},
		"spaceship": {0, 0.1, 1},
		"void":      {0, 0, 0},
	}}
}

func newTestServer(t *testing.T, p textsim.Provider, history bool) *httptest.Server {
	t.Helper()
	cfg := &textsim.Config{}
	if history {
		cfg = &textsim.Config{HistoryEnabled: true, HistoryDriver: "sqlite", HistoryURL: ":memory:"}
	}
	svc, err := textsim.NewWithProvider(context.Background(), cfg, p)
	require.NoError(t, err)
	srv := httptest.NewServer(NewRouter(NewHandler(nil, svc), nil))
	t.Cleanup(func() {
		srv.Close()
		_ = svc.Close()
	})
	return srv
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHandleEmbeddings(t *testing.T) {
	srv := newTestServer(t, newFake(), false)

	resp := postJSON(t, srv.URL+"/api/gemini/embeddings", `{"texts":["cat","kitten","spaceship"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))

	body := decode[EmbeddingsResponse](t, resp)
	assert.True(t, body.Success)
	assert.NotEmpty(t, body.ID)
	assert.Equal(t, "fake", body.Provider)
	require.Len(t, body.Embeddings, 3)
	assert.Len(t, body.Embeddings[0].Values, 3)
	require.Len(t, body.Similarities, 3)
	assert.Equal(t, "cat", body.Similarities[0].Text1)
	assert.Equal(t, "kitten", body.Similarities[0].Text2)
	assert.Len(t, body.Layout.Nodes, 3)
	assert.Len(t, body.Layout.Edges, 3)
}

func TestHandleEmbeddingsErrors(t *testing.T) {
	p := newFake()
	srv := newTestServer(t, p, false)

	tests := []struct {
		name        string
		contentType string
		body        string
		want        int
	}{
		{"two texts", "application/json", `{"texts":["cat","kitten"]}`, http.StatusBadRequest},
		{"four texts", "application/json", `{"texts":["a","b","c","d"]}`, http.StatusBadRequest},
		{"missing texts", "application/json", `{}`, http.StatusBadRequest},
		{"texts not array", "application/json", `{"texts":"cat"}`, http.StatusBadRequest},
		{"blank text", "application/json", `{"texts":["cat"," ","kitten"]}`, http.StatusBadRequest},
		{"malformed", "application/json", `{"texts":[`, http.StatusBadRequest},
		{"content type", "text/plain", `{"texts":["cat","kitten","spaceship"]}`, http.StatusUnsupportedMediaType},
		{"degenerate", "application/json", `{"texts":["cat","void","kitten"]}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/api/gemini/embeddings", tt.contentType, strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
			body := decode[map[string]string](t, resp)
			assert.NotEmpty(t, body["error"])
		})
	}
	// Only the degenerate case reached the provider.
	assert.Equal(t, 1, p.calls)
}

func TestHandleEmbeddingsProviderFailures(t *testing.T) {
	p := newFake()
	p.err = errors.New("quota exceeded")
	srv := newTestServer(t, p, false)

	resp := postJSON(t, srv.URL+"/api/gemini/embeddings", `{"texts":["cat","kitten","spaceship"]}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Contains(t, body["error"], "quota exceeded")

	unconfigured := newTestServer(t, nil, false)
	resp = postJSON(t, unconfigured.URL+"/api/gemini/embeddings", `{"texts":["cat","kitten","spaceship"]}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHandleLayout(t *testing.T) {
	srv := newTestServer(t, nil, false)

	resp := postJSON(t, srv.URL+"/api/layout", `{"similarities":[
		{"text1Index":0,"text2Index":1,"similarity":0.5},
		{"text1Index":0,"text2Index":2,"similarity":0.5},
		{"text1Index":1,"text2Index":2,"similarity":0.5}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[LayoutResponse](t, resp)
	require.Len(t, body.Layout.Nodes, 3)
	assert.Equal(t, 400.0, body.Layout.Canvas.Width)
	assert.Equal(t, 200.0, body.Layout.Nodes[0].X)
	assert.Equal(t, 90.0, body.Layout.Nodes[0].Y)

	resp = postJSON(t, srv.URL+"/api/layout", `{"similarities":[],"canvas":{"width":10,"height":10}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestComparisonHistoryRoutes(t *testing.T) {
	srv := newTestServer(t, newFake(), true)

	resp := postJSON(t, srv.URL+"/api/gemini/embeddings", `{"texts":["cat","kitten","spaceship"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	created := decode[EmbeddingsResponse](t, resp)

	list, err := http.Get(srv.URL + "/api/comparisons?limit=5")
	require.NoError(t, err)
	defer list.Body.Close()
	require.Equal(t, http.StatusOK, list.StatusCode)
	summaries := decode[ListResponse](t, list)
	require.Len(t, summaries.Comparisons, 1)
	assert.Equal(t, created.ID, summaries.Comparisons[0].ID)

	one, err := http.Get(srv.URL + "/api/comparisons/" + created.ID)
	require.NoError(t, err)
	defer one.Body.Close()
	require.Equal(t, http.StatusOK, one.StatusCode)
	got := decode[textsim.Comparison](t, one)
	assert.Equal(t, []string{"cat", "kitten", "spaceship"}, got.Texts)

	bad, err := http.Get(srv.URL + "/api/comparisons?limit=abc")
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/comparisons/"+created.ID, nil)
	require.NoError(t, err)
	del, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer del.Body.Close()
	assert.Equal(t, http.StatusNoContent, del.StatusCode)

	missing, err := http.Get(srv.URL + "/api/comparisons/" + created.ID)
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestHistoryDisabled(t *testing.T) {
	srv := newTestServer(t, newFake(), false)
	resp, err := http.Get(srv.URL + "/api/comparisons")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthAndRequestID(t *testing.T) {
	srv := newTestServer(t, newFake(), false)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set(HeaderRequestID, "req-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "req-123", resp.Header.Get(HeaderRequestID))
	body := decode[HealthResponse](t, resp)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "fake", body.Provider)
	assert.False(t, body.History)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, newFake(), false)
	resp, err := http.Get(srv.URL + "/api/gemini/embeddings")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
