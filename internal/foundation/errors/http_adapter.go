package errors

import (
	"log/slog"
	"net/http"
	"strconv"
)

// HTTPErrorAdapter maps classified errors onto HTTP responses.
type HTTPErrorAdapter struct {
	logger *slog.Logger
}

// NewHTTPErrorAdapter creates a new HTTP error adapter.
// If logger is nil, the default logger is used.
func NewHTTPErrorAdapter(logger *slog.Logger) *HTTPErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPErrorAdapter{logger: logger}
}

// StatusCodeFor determines the HTTP status code for a given error based on
// its classification. Unknown errors map to 500.
func (a *HTTPErrorAdapter) StatusCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}

	c, ok := AsClassified(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch c.Category() {
	case CategoryValidation:
		return http.StatusBadRequest
	case CategoryNotFound:
		return http.StatusNotFound
	case CategoryNetwork:
		return http.StatusBadGateway
	case CategoryRuntime, CategoryWatch:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteErrorResponse writes a plain-text error response. Lookup misses are
// not logged; everything else is logged at a level derived from severity.
func (a *HTTPErrorAdapter) WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	status := a.StatusCodeFor(err)
	body := http.StatusText(status)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = w.Write([]byte(body))
	}

	if status == http.StatusNotFound {
		return
	}
	if c, ok := AsClassified(err); ok {
		a.logger.Log(r.Context(), slogLevel(c.Severity()), c.Message(),
			slog.String("category", string(c.Category())),
			slog.String("path", r.URL.Path),
			slog.Any("error", c.Cause()))
		return
	}
	a.logger.ErrorContext(r.Context(), "Unclassified request error",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()))
}

func slogLevel(s ErrorSeverity) slog.Level {
	switch s {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
