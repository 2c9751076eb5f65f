package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"studysheet-ai-service/internal/domain"
	"studysheet-ai-service/internal/domain/model"
	"studysheet-ai-service/internal/infra/logging"

	"github.com/go-chi/chi/v5"
)

type generateRequest struct {
	Subject string `json:"subject"`
	Level   string `json:"level"`
	Topic   string `json:"topic"`
	GenType string `json:"genType"`
}

type activateRequest struct {
	Key string `json:"key"`
}

type rateRequest struct {
	Rating int `json:"rating"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error category to one localized response body.
// Store and provider internals never reach the client.
func (s *Server) writeError(w http.ResponseWriter, status int, code, msgKey string) {
	s.writeJSON(w, status, map[string]errorBody{
		"error": {Code: code, Message: s.tr.T(msgKey)},
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "missing_fields")
		return
	}
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Level) == "" || strings.TrimSpace(req.Topic) == "" {
		s.writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "missing_fields")
		return
	}
	kind, err := model.ParseGenType(req.GenType)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "missing_fields")
		return
	}

	sheets, err := s.genUC.Generate(r.Context(), userID, req.Subject, req.Level, req.Topic, kind)
	if err != nil {
		s.writeGenerateError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"sheets": sheets})
}

func (s *Server) writeGenerateError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrQuotaExceeded):
		s.writeError(w, http.StatusTooManyRequests, "QUOTA_EXCEEDED", "quota_exceeded")
	case errors.Is(err, domain.ErrUpstreamThrottled):
		s.writeError(w, http.StatusTooManyRequests, "UPSTREAM_THROTTLED", "upstream_throttled")
	case errors.Is(err, domain.ErrUpstreamExhausted):
		s.writeError(w, http.StatusPaymentRequired, "UPSTREAM_EXHAUSTED", "upstream_exhausted")
	case errors.Is(err, domain.ErrEmptyCompletion):
		s.writeError(w, http.StatusInternalServerError, "EMPTY_RESULT", "empty_result")
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		s.writeError(w, http.StatusInternalServerError, "UPSTREAM_UNAVAILABLE", "upstream_unavailable")
	case errors.Is(err, domain.ErrProfileNotFound):
		s.writeError(w, http.StatusInternalServerError, "PROFILE_NOT_FOUND", "profile_not_found")
	case errors.Is(err, domain.ErrNothingPersisted):
		s.writeError(w, http.StatusInternalServerError, "PERSISTENCE_FAILED", "persistence_failed")
	case errors.Is(err, domain.ErrInvalidArgument):
		s.writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "missing_fields")
	default:
		logging.With(r.Context(), s.log).Error().Err(err).Msg("generate failed")
		s.writeError(w, http.StatusInternalServerError, "INTERNAL", "unknown_error")
	}
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())

	var req activateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "EMPTY_KEY", "empty_key")
		return
	}
	key := strings.TrimSpace(req.Key)
	if key == "" {
		s.writeError(w, http.StatusBadRequest, "EMPTY_KEY", "empty_key")
		return
	}

	if err := s.redeemUC.Redeem(r.Context(), userID, key); err != nil {
		switch {
		case errors.Is(err, domain.ErrCodeNotFound), errors.Is(err, domain.ErrCodeAlreadyUsed):
			// One message for both: clients must not be able to probe
			// which codes exist.
			s.writeError(w, http.StatusNotFound, "INVALID_KEY", "invalid_key")
		default:
			logging.With(r.Context(), s.log).Error().Err(err).Msg("activation failed")
			s.writeError(w, http.StatusInternalServerError, "INTERNAL", "unknown_error")
		}
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleListSheets(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	sheets, err := s.genUC.ListSheets(r.Context(), userID, offset, limit)
	if err != nil {
		logging.With(r.Context(), s.log).Error().Err(err).Msg("list sheets failed")
		s.writeError(w, http.StatusInternalServerError, "INTERNAL", "unknown_error")
		return
	}
	if sheets == nil {
		sheets = []*model.Sheet{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"sheets": sheets})
}

func (s *Server) handleRateSheet(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())
	sheetID := chi.URLParam(r, "sheetID")

	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_RATING", "invalid_rating")
		return
	}

	if err := s.genUC.RateSheet(r.Context(), userID, sheetID, req.Rating); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			s.writeError(w, http.StatusBadRequest, "INVALID_RATING", "invalid_rating")
		case errors.Is(err, domain.ErrNotFound):
			s.writeError(w, http.StatusNotFound, "SHEET_NOT_FOUND", "sheet_not_found")
		default:
			logging.With(r.Context(), s.log).Error().Err(err).Msg("rate sheet failed")
			s.writeError(w, http.StatusInternalServerError, "INTERNAL", "unknown_error")
		}
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
