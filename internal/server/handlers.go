package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shahar-caura/irisform/internal/form"
	"github.com/shahar-caura/irisform/internal/inference"
)

// maxBodyBytes caps predict request bodies.
const maxBodyBytes = 64 << 10

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Model   string `json:"model"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		s.reject(w, http.StatusBadRequest, "reading request body failed")
		return
	}
	if len(body) > maxBodyBytes {
		s.reject(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		s.reject(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}
	if err := s.schema.VisitJSON(raw); err != nil {
		s.reject(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	var req inference.Request
	if err := json.Unmarshal(body, &req); err != nil {
		s.reject(w, http.StatusBadRequest, "request body does not match schema")
		return
	}

	var vec form.FeatureVector
	copy(vec[:], req.FeatureArray)

	model := s.Model()
	class := model.Predict(vec)
	s.metrics.recordPrediction(class)
	s.logger.Debug("prediction served", "features", req.FeatureArray, "class", class, "model", model.Name)

	writeJSON(w, http.StatusOK, map[string][]int{"prediction": {class}})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: s.version,
		Model:   s.Model().Name,
	})
}

func (s *Server) reject(w http.ResponseWriter, status int, message string) {
	s.metrics.recordRejected(status)
	writeError(w, status, message)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, inference.Response{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
