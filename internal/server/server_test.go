package server_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shahar-caura/irisform/internal/form"
	"github.com/shahar-caura/irisform/internal/inference"
	"github.com/shahar-caura/irisform/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestServer(t *testing.T, opts server.Options) *server.Server {
	t.Helper()
	if opts.Version == "" {
		opts.Version = "test-v0.1.0"
	}
	srv, err := server.New(context.Background(), opts, testLogger)
	require.NoError(t, err)
	return srv
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPredict(t *testing.T) {
	h := newTestServer(t, server.Options{}).Handler()

	cases := []struct {
		body string
		want int
	}{
		{`{"feature_array":[5.1,3.5,1.4,0.2]}`, 0},
		{`{"feature_array":[6.0,3.0,4.5,1.5]}`, 1},
		{`{"feature_array":[6.3,3.3,6.0,2.5]}`, 2},
	}
	for _, tc := range cases {
		rec := post(t, h, tc.body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var resp struct {
			Prediction []int `json:"prediction"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, []int{tc.want}, resp.Prediction)
	}
}

func TestPredict_RejectsBadBodies(t *testing.T) {
	h := newTestServer(t, server.Options{}).Handler()

	cases := map[string]string{
		"not json":       `feature_array=1,2,3,4`,
		"missing key":    `{"features":[1,2,3,4]}`,
		"too few":        `{"feature_array":[1,2,3]}`,
		"too many":       `{"feature_array":[1,2,3,4,5]}`,
		"string element": `{"feature_array":[1,"2",3,4]}`,
		"null":           `{"feature_array":null}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := post(t, h, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp inference.Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestPredict_TooLarge(t *testing.T) {
	h := newTestServer(t, server.Options{}).Handler()
	body := `{"feature_array":[1,2,3,4],"pad":"` + strings.Repeat("x", 70<<10) + `"}`

	rec := post(t, h, body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestPredict_MethodNotAllowed(t *testing.T) {
	h := newTestServer(t, server.Options{}).Handler()

	req := httptest.NewRequest(http.MethodGet, "/predict", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGetHealth(t *testing.T) {
	h := newTestServer(t, server.Options{}).Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp server.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test-v0.1.0", resp.Version)
	assert.Equal(t, "iris-tree-v1", resp.Model)
}

func TestNew_ModelFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: always-virginica\nroot:\n  class: 2\n"), 0o644))

	srv := newTestServer(t, server.Options{ModelPath: path})
	assert.Equal(t, "always-virginica", srv.Model().Name)

	rec := post(t, srv.Handler(), `{"feature_array":[5.1,3.5,1.4,0.2]}`)
	assert.JSONEq(t, `{"prediction":[2]}`, rec.Body.String())
}

func TestNew_BadModelFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: {}\n"), 0o644))

	_, err := server.New(context.Background(), server.Options{ModelPath: path}, testLogger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading model")
}

func TestClientAgainstServer(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t, server.Options{}).Handler())
	defer ts.Close()

	c := inference.New(ts.URL, testLogger)

	out := c.Predict(context.Background(), form.FeatureVector{5.1, 3.5, 1.4, 0.2})
	require.True(t, out.OK())
	assert.Equal(t, "Setosa", out.Prediction.Label)

	out = c.Predict(context.Background(), form.FeatureVector{6.0, 3.0, 4.5, 1.5})
	require.True(t, out.OK())
	assert.Equal(t, "Versicolor", out.Prediction.Label)
}
