package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/msgsearch/internal/domain"
	"github.com/kailas-cloud/msgsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/msgsearch/internal/domain/search/result"
	domstats "github.com/kailas-cloud/msgsearch/internal/domain/stats"
	domuser "github.com/kailas-cloud/msgsearch/internal/domain/user"
	"github.com/kailas-cloud/msgsearch/internal/logger"
	healthuc "github.com/kailas-cloud/msgsearch/internal/usecase/health"
)

// maxBatchUsers bounds GET /api/users.
const maxBatchUsers = 100

// Client-facing error messages.
const (
	msgInvalidParams  = "Invalid search parameters"
	msgSearchFailed   = "Failed to search messages"
	msgStatsFailed    = "Failed to fetch statistics"
	msgUserNotFound   = "User not found"
	msgUserFailed     = "Failed to fetch user"
	msgInternalError  = "Internal server error"
	msgInvalidRequest = "Invalid request"
)

// Searcher pages through messages.
type Searcher interface {
	Search(ctx context.Context, f filter.Filter) (result.Page, error)
}

// StatisticsProvider computes archive statistics.
type StatisticsProvider interface {
	Statistics(ctx context.Context) (domstats.Statistics, error)
}

// UserResolver enriches author ids.
type UserResolver interface {
	Resolve(ctx context.Context, id, token string) (domuser.User, error)
	ResolveMany(ctx context.Context, ids []string, token string) []domuser.User
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server serves the message search API.
type Server struct {
	search  Searcher
	stats   StatisticsProvider
	users   UserResolver
	health  HealthChecker
	version string
	logger  *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	search Searcher,
	stats StatisticsProvider,
	users UserResolver,
	health HealthChecker,
	version string,
	logger *zap.Logger,
) *Server {
	return &Server{
		search:  search,
		stats:   stats,
		users:   users,
		health:  health,
		version: version,
		logger:  logger,
	}
}

// Routes mounts all endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.SearchMessages)
		r.Get("/stats", s.GetStatistics)
		r.With(BotTokenMiddleware()).Get("/user/{id}", s.GetUser)
		r.With(BotTokenMiddleware()).Get("/users", s.GetUsers)
	})
}

// SearchMessages handles GET /api/search.
// A request with no constraints is answered with an empty page without touching the backend.
func (s *Server) SearchMessages(w http.ResponseWriter, r *http.Request) {
	f, err := filter.Parse(r.URL.Query())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if f.IsEmpty() {
		p := result.Empty(f.Page())
		writeJSON(w, http.StatusOK, pageToResponse(&p))
		return
	}

	p, err := s.search.Search(r.Context(), f)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pageToResponse(&p))
}

// GetStatistics handles GET /api/stats.
func (s *Server) GetStatistics(w http.ResponseWriter, r *http.Request) {
	st, err := s.stats.Statistics(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statsToResponse(st))
}

// GetUser handles GET /api/user/{id}.
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		writeError(w, http.StatusNotFound, msgUserNotFound, "")
		return
	}

	u, err := s.users.Resolve(r.Context(), id, BotTokenFromContext(r.Context()))
	if err != nil {
		s.handleUserError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(&u))
}

// GetUsers handles GET /api/users?ids=1,2,3.
// Each id resolves independently; failed lookups come back as fallback identities.
func (s *Server) GetUsers(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if err := runtime.BindQueryParameter("form", false, true, "ids", r.URL.Query(), &ids); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if len(ids) > maxBatchUsers {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   msgInvalidRequest,
			Details: "too many ids",
			Field:   "ids",
		})
		return
	}

	users := s.users.ResolveMany(r.Context(), ids, BotTokenFromContext(r.Context()))
	resp := UsersResponse{Users: make([]UserResponse, 0, len(users))}
	for i := range users {
		resp.Users = append(resp.Users, userToResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthToResponse(report, s.version))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, ErrorResponse{Error: message, Details: details})
}

// handleDomainError maps search and statistics errors to HTTP responses.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.requestLogger(r)

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		log.Debug("validation error", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   msgInvalidParams,
			Details: ve.Error(),
			Field:   ve.Field,
		})
		return
	}

	var se *domain.SearchExecutionError
	if errors.As(err, &se) {
		log.Error("search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgSearchFailed, causeMessage(se.Cause))
		return
	}

	var ste *domain.StatisticsError
	if errors.As(err, &ste) {
		// The aggregation and cause stay in the log; clients get the bare message.
		log.Error("statistics failed", zap.String("aggregation", ste.Aggregation), zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgStatsFailed, "")
		return
	}

	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, msgInternalError, "")
}

func (s *Server) handleUserError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgUserNotFound, "")
		return
	}
	s.requestLogger(r).Error("user lookup failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, msgUserFailed, causeMessage(err))
}

func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	return logger.FromContextOr(r.Context(), s.logger)
}

func causeMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
