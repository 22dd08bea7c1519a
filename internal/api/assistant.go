package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/legacyprime/foreman/internal/events"
	"github.com/legacyprime/foreman/internal/orchestrator"
	"github.com/legacyprime/foreman/internal/snapshot"
)

// AssistantRequest is the body of POST /v1/assistant. Messages and
// AppData stay raw until validated.
type AssistantRequest struct {
	Messages    json.RawMessage `json:"messages"`
	AppData     json.RawMessage `json:"appData"`
	PageContext string          `json:"pageContext,omitempty"`
}

// requestError is a client error found before the turn starts.
type requestError struct {
	status  int
	message string
}

func (e *requestError) Error() string { return e.message }

func badRequest(format string, args ...any) *requestError {
	return &requestError{status: http.StatusBadRequest, message: fmt.Sprintf(format, args...)}
}

func (s *Server) handleAssistant(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeAssistantRequest(w, r)
	if err != nil {
		var re *requestError
		if !errors.As(err, &re) {
			re = &requestError{status: http.StatusInternalServerError, message: "could not read request"}
		}
		s.reject(w, r, re)
		return
	}

	resp, err := s.assistant.Run(r.Context(), req)
	if err != nil {
		var me *orchestrator.ModelError
		switch {
		case errors.Is(err, orchestrator.ErrNoMessages):
			s.reject(w, r, badRequest("messages must contain at least one entry"))
		case errors.As(err, &me):
			s.logger.Error("model provider failed", "error", err)
			s.errorResponse(w, http.StatusBadGateway, "The assistant is unavailable right now. Please try again.")
		default:
			s.logger.Error("assistant failed", "error", err)
			s.errorResponse(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if resp.RequestID != "" {
		w.Header().Set("X-Request-ID", resp.RequestID)
	}
	writeJSON(w, resp, s.logger)
}

// decodeAssistantRequest validates the body before any model call.
func (s *Server) decodeAssistantRequest(w http.ResponseWriter, r *http.Request) (*orchestrator.Request, error) {
	body := r.Body
	if s.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, s.maxBody)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &requestError{
				status:  http.StatusRequestEntityTooLarge,
				message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
			}
		}
		return nil, fmt.Errorf("read body: %w", err)
	}

	var ar AssistantRequest
	if err := json.Unmarshal(raw, &ar); err != nil {
		return nil, badRequest("invalid request body")
	}

	msgs := bytes.TrimSpace(ar.Messages)
	if len(msgs) == 0 || msgs[0] != '[' {
		return nil, badRequest("messages must be an array")
	}
	var messages []orchestrator.Message
	if err := json.Unmarshal(msgs, &messages); err != nil {
		return nil, badRequest("messages are malformed: %v", err)
	}
	if len(messages) == 0 {
		return nil, badRequest("messages must contain at least one entry")
	}

	snap, err := snapshot.Decode(ar.AppData)
	if err != nil {
		return nil, badRequest("appData is malformed")
	}

	return &orchestrator.Request{
		Messages:    messages,
		Snapshot:    snap,
		PageContext: ar.PageContext,
	}, nil
}

func (s *Server) reject(w http.ResponseWriter, r *http.Request, re *requestError) {
	s.logger.Warn("request rejected", "path", r.URL.Path, "status", re.status, "reason", re.message)
	s.bus.Emit(events.SourceAPI, events.KindRequestRejected, map[string]any{
		"path":   r.URL.Path,
		"status": re.status,
		"reason": re.message,
	})
	s.errorResponse(w, re.status, re.message)
}
