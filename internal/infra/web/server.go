package web

import (
	"context"
	"net/http"
	"time"

	"studysheet-ai-service/internal/infra/i18n"
	"studysheet-ai-service/internal/infra/logging"
	"studysheet-ai-service/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Server struct {
	genUC    usecase.GenerateUseCase
	redeemUC usecase.RedeemUseCase
	auth     *AuthManager
	tr       *i18n.Translator
	log      *zerolog.Logger

	allowedOrigin  string
	requestTimeout time.Duration
}

func NewServer(
	genUC usecase.GenerateUseCase,
	redeemUC usecase.RedeemUseCase,
	auth *AuthManager,
	tr *i18n.Translator,
	logger *zerolog.Logger,
	allowedOrigin string,
	requestTimeout time.Duration,
) *Server {
	if requestTimeout <= 0 {
		requestTimeout = 90 * time.Second
	}
	return &Server{
		genUC:          genUC,
		redeemUC:       redeemUC,
		auth:           auth,
		tr:             tr,
		log:            logger,
		allowedOrigin:  allowedOrigin,
		requestTimeout: requestTimeout,
	}
}

// Router builds the public API surface.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(
		Recover(s.log),
		TraceID(),
		RequestLog(s.log),
		Timeout(s.requestTimeout),
		CORS(s.allowedOrigin),
	)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(s.requireUser)
			r.Post("/sheets/generate", s.handleGenerate)
			r.Get("/sheets", s.handleListSheets)
			r.Post("/sheets/{sheetID}/rating", s.handleRateSheet)
			r.Post("/vip/activate", s.handleActivate)
		})
	})
	return r
}

type ctxKey string

const ctxUser ctxKey = "principal"

// requireUser resolves the bearer credential to a user id and stores it
// in the request context; everything behind it can assume a principal.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.auth.ParseFromRequest(r)
		if err != nil {
			s.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUser, userID)
		ctx = logging.WithUserID(ctx, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userIDFrom(ctx context.Context) string {
	if v := ctx.Value(ctxUser); v != nil {
		return v.(string)
	}
	return ""
}
