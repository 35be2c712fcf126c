// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/paprly/paprly/internal/arxiv"
	"github.com/paprly/paprly/internal/ingest"
	"github.com/paprly/paprly/internal/store"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// errorStatus maps a sentinel error to its status and public message.
var errorStatus = []struct {
	err     error
	status  int
	message string
}{
	{ingest.ErrMissingInput, http.StatusBadRequest, "Missing input"},
	{ingest.ErrUnrecognized, http.StatusBadRequest, "Invalid arXiv id or url"},
	{ingest.ErrFetchFailed, http.StatusInternalServerError, "Failed to fetch arXiv metadata"},
	{ingest.ErrAlreadyAdded, http.StatusConflict, "Paper already added"},
	{arxiv.ErrMalformedFeed, http.StatusBadGateway, "Malformed arXiv response"},
	{store.ErrNotFound, http.StatusNotFound, "Not found"},
	{store.ErrDuplicate, http.StatusConflict, "Paper already saved"},
}

// httpError resolves err to a status code and a message safe to return.
// store.ErrInvalid keeps its detail, which names the offending field.
func httpError(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return he.Code, msg
		}
		return he.Code, http.StatusText(he.Code)
	}
	if errors.Is(err, store.ErrInvalid) {
		return http.StatusBadRequest, err.Error()
	}
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status, e.message
		}
	}
	return http.StatusInternalServerError, "Internal Server Error"
}

// errorHandler replaces echo's default handler so every error body is
// {"error": "..."}.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, msg := httpError(err)
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request error",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, errorBody{Error: msg})
		}
		if err != nil {
			logger.ErrorContext(c.Request().Context(), "writing error response", "error", err)
		}
	}
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}
