// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/paprly/paprly/internal/store"
	"github.com/paprly/paprly/pkg/types"
)

type successBody struct {
	Success bool `json:"success"`
}

func (s *Server) handleListPapers() echo.HandlerFunc {
	return func(c echo.Context) error {
		q := store.PaperQuery{Text: c.QueryParam("q")}
		if v := c.QueryParam("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return badRequest("limit must be a non-negative integer")
			}
			q.Limit = n
		}

		papers, err := s.deps.Store.ListPapers(c.Request().Context(), q)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, papers)
	}
}

func (s *Server) handleCreatePaper() echo.HandlerFunc {
	return func(c echo.Context) error {
		var p types.Paper
		if err := c.Bind(&p); err != nil {
			return err
		}
		if strings.TrimSpace(p.Title) == "" {
			return badRequest("Title is required")
		}
		p.ID = 0

		if err := s.deps.Store.CreatePaper(c.Request().Context(), &p); err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, p)
	}
}

func (s *Server) handleGetPaper() echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := paperIDParam(c, "id")
		if err != nil {
			return err
		}
		p, err := s.deps.Store.GetPaper(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, p)
	}
}

func (s *Server) handleUpdatePaper() echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := paperIDParam(c, "id")
		if err != nil {
			return err
		}
		var patch types.PaperPatch
		if err := c.Bind(&patch); err != nil {
			return err
		}
		if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
			return badRequest("Title cannot be empty")
		}

		p, err := s.deps.Store.UpdatePaper(c.Request().Context(), id, patch)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, p)
	}
}

func (s *Server) handleDeletePaper() echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := paperIDParam(c, "id")
		if err != nil {
			return err
		}
		if err := s.deps.Store.DeletePaper(c.Request().Context(), id); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, successBody{Success: true})
	}
}

func paperIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("Invalid paper id")
	}
	return id, nil
}
