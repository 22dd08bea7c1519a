package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/legacyprime/foreman/internal/comms"
)

// ComposeRequest is the body of POST /v1/email/compose: the email a
// send_email or send_estimate action described, with a markdown body.
type ComposeRequest struct {
	From    string   `json:"from,omitempty"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// handleEmailCompose renders an approved email as an RFC 5322 message
// for the app's mail relay.
func (s *Server) handleEmailCompose(w http.ResponseWriter, r *http.Request) {
	body := r.Body
	if s.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, s.maxBody)
	}

	var req ComposeRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.reject(w, r, &requestError{status: http.StatusRequestEntityTooLarge, message: "request body too large"})
			return
		}
		s.reject(w, r, badRequest("invalid request body"))
		return
	}
	if len(req.To) == 0 {
		s.reject(w, r, badRequest("to must list at least one address"))
		return
	}
	for _, a := range req.To {
		if !comms.ValidAddress(a) {
			s.reject(w, r, badRequest("%q is not a valid email address", a))
			return
		}
	}
	if req.Subject == "" {
		s.reject(w, r, badRequest("subject is required"))
		return
	}

	msg, err := comms.ComposeEmail(comms.Draft{
		From:    req.From,
		To:      req.To,
		Subject: req.Subject,
		Body:    req.Body,
	}, time.Now())
	if err != nil {
		s.reject(w, r, badRequest("could not compose email: %v", err))
		return
	}

	w.Header().Set("Content-Type", "message/rfc822")
	if _, err := w.Write(msg); err != nil {
		s.logger.Debug("failed to write composed email", "error", err)
	}
}
