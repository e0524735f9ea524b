package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/assessrank/internal/domain"
	"github.com/kailas-cloud/assessrank/internal/domain/search/request"
	"github.com/kailas-cloud/assessrank/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/assessrank/internal/logger"
	healthuc "github.com/kailas-cloud/assessrank/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/assessrank/internal/usecase/recommend"
	"github.com/kailas-cloud/assessrank/internal/version"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements ServerInterface.
type Server struct {
	recommend     *recommenduc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	recommend *recommenduc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		recommend: recommend,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrNotReady, http.StatusServiceUnavailable, ErrorResponseCodeNotReady),
	}
	return s
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Message:   "Assessment Recommendation API",
		Version:   version.Version,
		Endpoints: []string{"/recommend", "/health"},
	})
}

// RecommendGet handles GET /recommend.
func (s *Server) RecommendGet(w http.ResponseWriter, r *http.Request, params RecommendParams) {
	s.serveRecommend(w, r, params.Query, params.NumRecommendations)
}

// RecommendPost handles POST /recommend.
func (s *Server) RecommendPost(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	s.serveRecommend(w, r, req.Query, req.NumRecommendations)
}

func (s *Server) serveRecommend(w http.ResponseWriter, r *http.Request, query string, num *int) {
	ranking := s.recommend.Ranking()
	k := ranking.DefaultK
	if num != nil {
		k = *num
	}

	req, err := request.New(query, k, ranking)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, err.Error())
		return
	}

	results, err := s.recommend.Recommend(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]Assessment, len(results))
	for i := range results {
		items[i] = assessmentFromResult(&results[i])
	}
	writeJSON(w, http.StatusOK, RecommendResponse{Query: req.Query(), Recommendations: items})
}

// HealthCheck handles GET /health.
// Only an unloaded catalog fails the probe; a degraded cache still serves rankings.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:           string(report.Status),
		Checks:           checks,
		AssessmentsCount: report.Assessments,
	})
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

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotReady,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	if errors.Is(err, domain.ErrInvalidArgument) {
		return err.Error()
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logpkg.FromContext(r.Context(), s.logger)
	logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}

func assessmentFromResult(r *result.Result) Assessment {
	item := r.Item()
	testTypes := item.TestTypes()
	if testTypes == nil {
		testTypes = []string{}
	}
	return Assessment{
		ID:              item.ID(),
		Name:            item.Name(),
		URL:             item.URL(),
		RemoteSupport:   item.RemoteSupport(),
		AdaptiveIRT:     item.AdaptiveIRT(),
		TestTypes:       testTypes,
		Duration:        item.Duration(),
		SimilarityScore: r.Score(),
	}
}
