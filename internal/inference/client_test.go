package inference

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shahar-caura/irisform/internal/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func respondWith(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPredict_HappyPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []float64{5.1, 3.5, 1.4, 0.2}, req.FeatureArray)

		_, _ = w.Write([]byte(`{"prediction":[0]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, testLogger)
	out := c.Predict(context.Background(), form.FeatureVector{5.1, 3.5, 1.4, 0.2})

	require.True(t, out.OK())
	assert.Nil(t, out.Failure)
	assert.Equal(t, 0, out.Prediction.ClassIndex)
	assert.Equal(t, "Setosa", out.Prediction.Label)
}

func TestPredict_TrailingSlashBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)
		_, _ = w.Write([]byte(`{"prediction":[2]}`))
	}))
	defer srv.Close()

	out := New(srv.URL+"/", testLogger).Predict(context.Background(), form.FeatureVector{6.7, 3.0, 5.2, 2.3})
	require.True(t, out.OK())
	assert.Equal(t, "Virginica", out.Prediction.Label)
}

func TestPredict_FloatClassIndex(t *testing.T) {
	srv := respondWith(t, http.StatusOK, `{"prediction":[1.0]}`)

	out := New(srv.URL, testLogger).Predict(context.Background(), form.FeatureVector{6.0, 3.0, 4.5, 1.5})
	require.True(t, out.OK())
	assert.Equal(t, 1, out.Prediction.ClassIndex)
	assert.Equal(t, "Versicolor", out.Prediction.Label)
}

func TestPredict_UnknownClass(t *testing.T) {
	srv := respondWith(t, http.StatusOK, `{"prediction":[7]}`)

	out := New(srv.URL, testLogger).Predict(context.Background(), form.FeatureVector{1, 1, 1, 1})
	require.True(t, out.OK())
	assert.Equal(t, 7, out.Prediction.ClassIndex)
	assert.Equal(t, "Unknown", out.Prediction.Label)
}

func TestPredict_ServerError(t *testing.T) {
	srv := respondWith(t, http.StatusInternalServerError, `{"error":"model unavailable"}`)

	out := New(srv.URL, testLogger).Predict(context.Background(), form.FeatureVector{5.1, 3.5, 1.4, 0.2})
	require.False(t, out.OK())
	assert.Nil(t, out.Prediction)
	assert.Equal(t, ServerFailure, out.Failure.Kind)
	assert.Equal(t, "model unavailable", out.Failure.Message)
	assert.Contains(t, out.Failure.Err.Error(), "unexpected status 500")
}

func TestPredict_ServerErrorFallbackMessage(t *testing.T) {
	cases := map[string]string{
		"no error field": `{}`,
		"empty error":    `{"error":""}`,
		"not json":       `upstream exploded`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := respondWith(t, http.StatusBadGateway, body)

			out := New(srv.URL, testLogger).Predict(context.Background(), form.FeatureVector{1, 2, 3, 4})
			require.NotNil(t, out.Failure)
			assert.Equal(t, ServerFailure, out.Failure.Kind)
			assert.Equal(t, "Please try again.", out.Failure.Message)
		})
	}
}

func TestPredict_MalformedSuccessBody(t *testing.T) {
	cases := map[string]string{
		"not json":         `<html>`,
		"missing field":    `{"result":[0]}`,
		"empty array":      `{"prediction":[]}`,
		"fractional index": `{"prediction":[0.5]}`,
		"string index":     `{"prediction":["0"]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := respondWith(t, http.StatusOK, body)

			out := New(srv.URL, testLogger).Predict(context.Background(), form.FeatureVector{1, 2, 3, 4})
			require.NotNil(t, out.Failure)
			assert.Equal(t, TransportFailure, out.Failure.Kind)
			assert.Equal(t, "connection error", out.Failure.Message)
			assert.ErrorIs(t, out.Failure.Err, ErrMalformedResponse)
		})
	}
}

func TestPredict_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	out := New(url, testLogger).Predict(context.Background(), form.FeatureVector{1, 2, 3, 4})
	require.NotNil(t, out.Failure)
	assert.Equal(t, TransportFailure, out.Failure.Kind)
	assert.Equal(t, "connection error", out.Failure.Message)
	assert.Contains(t, out.Failure.Err.Error(), "sending request")
}

func TestPredict_BadURL(t *testing.T) {
	out := New("http://[::1]:namedport", testLogger).Predict(context.Background(), form.FeatureVector{1, 2, 3, 4})
	require.NotNil(t, out.Failure)
	assert.Equal(t, TransportFailure, out.Failure.Kind)
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

func TestPredict_FakeTransport(t *testing.T) {
	var calls int
	doer := doerFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		assert.Equal(t, "http://iris.test/predict", r.URL.String())
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"prediction":[2, 0]}`)),
		}, nil
	})

	out := NewWithDoer("http://iris.test", doer, testLogger).Predict(context.Background(), form.FeatureVector{6.3, 3.3, 6.0, 2.5})
	require.True(t, out.OK())
	assert.Equal(t, 1, calls)
	assert.Equal(t, "Virginica", out.Prediction.Label)
}

func TestPredict_TransportErrorFromDoer(t *testing.T) {
	doer := doerFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	})

	out := NewWithDoer("http://iris.test", doer, testLogger).Predict(context.Background(), form.FeatureVector{})
	require.NotNil(t, out.Failure)
	assert.Equal(t, TransportFailure, out.Failure.Kind)
	assert.Contains(t, out.Failure.Err.Error(), "connection refused")
}
