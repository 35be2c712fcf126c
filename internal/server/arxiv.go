// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/paprly/paprly/internal/arxiv"
	"github.com/paprly/paprly/internal/backend"
	"github.com/paprly/paprly/internal/ingest"
)

const defaultSearchMax = backend.DefaultMaxResults

// maxProxyBody bounds request bodies forwarded to the backend.
const maxProxyBody = 1 << 20

type ingestRequest struct {
	Input string `json:"input"`
}

// upstreamErrorBody is returned when the backend answers with a non-2xx status.
type upstreamErrorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
	Body   string `json:"body"`
}

func (s *Server) handleIngest() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req ingestRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		p, err := s.deps.Ingester.Ingest(c.Request().Context(), req.Input)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, p)
	}
}

func (s *Server) handlePreview() echo.HandlerFunc {
	return func(c echo.Context) error {
		meta, err := s.deps.Ingester.Preview(c.Request().Context(), c.Param("id"))
		if errors.Is(err, ingest.ErrFetchFailed) {
			return echo.NewHTTPError(http.StatusNotFound, "Not found").SetInternal(err)
		}
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, meta)
	}
}

// handleSearch proxies to the backend when one is configured and falls back
// to querying arXiv directly otherwise.
func (s *Server) handleSearch() echo.HandlerFunc {
	return func(c echo.Context) error {
		q := strings.TrimSpace(c.QueryParam("q"))
		maxResults := defaultSearchMax
		if v := c.QueryParam("max"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return badRequest("max must be a positive integer")
			}
			maxResults = n
		}
		ctx := c.Request().Context()

		if s.deps.Backend != nil && s.deps.Backend.Enabled() {
			raw, err := s.deps.Backend.Search(ctx, backend.SearchRequest{Query: q, MaxResults: maxResults})
			if err != nil {
				return c.JSON(http.StatusInternalServerError, errorBody{Error: err.Error()})
			}
			if !json.Valid(raw.Body) {
				return c.JSON(http.StatusBadGateway, upstreamErrorBody{
					Error: "upstream error", Status: raw.StatusCode, Body: string(raw.Body),
				})
			}
			return c.JSONBlob(raw.StatusCode, raw.Body)
		}

		if q == "" {
			return badRequest("Missing query")
		}
		results, err := s.deps.Searcher.Search(ctx, arxiv.Query{
			FreeText:   q,
			MaxResults: maxResults,
			SortBy:     arxiv.SortSubmittedDate,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, results)
	}
}

func (s *Server) handleSummarize() echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.deps.Backend == nil || !s.deps.Backend.Enabled() {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "Summarization backend not configured")
		}

		body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxProxyBody))
		if err != nil {
			return badRequest("Could not read request body")
		}
		if !json.Valid(body) {
			return badRequest("Request body must be JSON")
		}

		raw, err := s.deps.Backend.SummarizeRaw(c.Request().Context(), body)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, errorBody{Error: err.Error()})
		}
		if raw.StatusCode < 200 || raw.StatusCode > 299 {
			return c.JSON(raw.StatusCode, upstreamErrorBody{
				Error: "upstream error", Status: raw.StatusCode, Body: string(raw.Body),
			})
		}
		if !json.Valid(raw.Body) {
			return c.JSON(http.StatusBadGateway, upstreamErrorBody{
				Error: "upstream error", Status: raw.StatusCode, Body: string(raw.Body),
			})
		}
		return c.JSONBlob(http.StatusOK, raw.Body)
	}
}
