package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ErrorResponseCode is the machine-readable error code of an ErrorResponse.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized     ErrorResponseCode = "unauthorized"
	ErrorResponseCodeValidationFailed ErrorResponseCode = "validation_failed"
	ErrorResponseCodeNotReady         ErrorResponseCode = "not_ready"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// RootResponse describes the service.
type RootResponse struct {
	Message   string   `json:"message"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

// RecommendRequest is the body of POST /recommend.
type RecommendRequest struct {
	Query              string `json:"query"`
	NumRecommendations *int   `json:"num_recommendations,omitempty"`
}

// RecommendParams are the query parameters of GET /recommend.
type RecommendParams struct {
	Query              string `form:"query" json:"query"`
	NumRecommendations *int   `form:"num_recommendations,omitempty" json:"num_recommendations,omitempty"`
}

// Assessment is one recommended catalog item.
type Assessment struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	URL             string   `json:"url"`
	RemoteSupport   bool     `json:"remote_support"`
	AdaptiveIRT     bool     `json:"adaptive_irt"`
	TestTypes       []string `json:"test_types"`
	Duration        int      `json:"duration"`
	SimilarityScore float64  `json:"similarity_score"`
}

// RecommendResponse lists recommendations in rank order.
type RecommendResponse struct {
	Query           string       `json:"query"`
	Recommendations []Assessment `json:"recommendations"`
}

// HealthResponse reports component checks and the served catalog size.
type HealthResponse struct {
	Status           string            `json:"status"`
	Checks           map[string]string `json:"checks"`
	AssessmentsCount int               `json:"assessments_count"`
}

// ServerInterface is implemented by the HTTP handlers.
type ServerInterface interface {
	// (GET /)
	Root(w http.ResponseWriter, r *http.Request)
	// (GET /recommend)
	RecommendGet(w http.ResponseWriter, r *http.Request, params RecommendParams)
	// (POST /recommend)
	RecommendPost(w http.ResponseWriter, r *http.Request)
	// (GET /health)
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// (GET /metrics)
	Metrics(w http.ResponseWriter, r *http.Request)
}

// ServerOptions configures HandlerWithOptions.
type ServerOptions struct {
	BaseRouter       chi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamFormatError reports a query parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

type serverInterfaceWrapper struct {
	handler          ServerInterface
	errorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *serverInterfaceWrapper) RecommendGet(w http.ResponseWriter, r *http.Request) {
	var params RecommendParams

	if err := runtime.BindQueryParameter("form", true, true, "query", r.URL.Query(), &params.Query); err != nil {
		siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "query", Err: err})
		return
	}

	err := runtime.BindQueryParameter("form", true, false, "num_recommendations", r.URL.Query(), &params.NumRecommendations)
	if err != nil {
		siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "num_recommendations", Err: err})
		return
	}

	siw.handler.RecommendGet(w, r, params)
}

// HandlerWithOptions registers the API routes on opts.BaseRouter (or a new router).
func HandlerWithOptions(si ServerInterface, opts ServerOptions) http.Handler {
	r := opts.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if opts.ErrorHandlerFunc == nil {
		opts.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, err.Error())
		}
	}
	wrapper := &serverInterfaceWrapper{handler: si, errorHandlerFunc: opts.ErrorHandlerFunc}

	r.Get("/", si.Root)
	r.Get("/recommend", wrapper.RecommendGet)
	r.Post("/recommend", si.RecommendPost)
	r.Get("/health", si.HealthCheck)
	r.Get("/metrics", si.Metrics)
	return r
}
