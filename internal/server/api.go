package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jpalmerr/assetboard/asset"
)

// errorResponse is the JSON body of a failed API request.
type errorResponse struct {
	Error string `json:"error"`
}

// handleState returns the current snapshot.
func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.deps.Facade.Snapshot())
}

// handleField1 replaces field1. The body must carry a "field1" key; null
// clears the value.
func (s *Server) handleField1(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := s.decode(w, r, &body); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	raw, ok := body["field1"]
	if !ok {
		s.writeError(w, http.StatusBadRequest, errors.New(`missing "field1"`))
		return
	}

	var value *string
	if err := json.Unmarshal(raw, &value); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("field1: %w", err))
		return
	}

	s.deps.Facade.UpdateField1(value)
	s.writeJSON(w, http.StatusOK, s.deps.Facade.Snapshot())
}

// handleField2 replaces field2 wholesale.
func (s *Server) handleField2(w http.ResponseWriter, r *http.Request) {
	var items asset.Items
	if err := s.decode(w, r, &items); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	s.deps.Facade.UpdateField2(items)
	s.writeJSON(w, http.StatusOK, s.deps.Facade.Snapshot())
}

// handleRefresh re-issues the dependent fetch for the current field1.
func (s *Server) handleRefresh(w http.ResponseWriter, _ *http.Request) {
	if !s.deps.Facade.Refresh() {
		s.writeError(w, http.StatusServiceUnavailable, errors.New("fetch stage is not running"))
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write json response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
