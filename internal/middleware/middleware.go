package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/ContractAPI/internal/handlers"
	"github.com/akolanti/ContractAPI/internal/metrics"
	"github.com/akolanti/ContractAPI/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
	id           string
}

var GetHandler = WrapPublic(handlers.GetHandler)

var PostAnalyzeHandler = Wrap(handlers.PostAnalyzeHandler)
var GetStatusHandler = Wrap(handlers.GetStatusHandler)
var DeleteCollectionHandler = Wrap(handlers.DeleteCollectionHandler)

// Wrap runs trace injection, auth and rate limiting before next.
func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return wrap(next, true)
}

// WrapPublic skips auth, used for health checks.
func WrapPublic(next http.HandlerFunc) http.HandlerFunc {
	return wrap(next, false)
}

func wrap(next http.HandlerFunc, withAuth bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		re := processRequest(requestResponseStruct{req: r, writer: rec}, withAuth)

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
		} else {
			next(rec, re.req)
		}

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc()
	}
}

func processRequest(re requestResponseStruct, withAuth bool) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Debug("New request received")

	steps := []func(requestResponseStruct) requestResponseStruct{injectTrace}
	if withAuth {
		steps = append(steps, authenticate, rateLimiter)
	}
	for _, step := range steps {
		re = step(re)
		if re.badRequest.isBadRequest {
			return re
		}
	}
	return re
}
