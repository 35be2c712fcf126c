// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/paprly/paprly/pkg/types"
)

func (s *Server) handleListProjects() echo.HandlerFunc {
	return func(c echo.Context) error {
		projects, err := s.deps.Store.ListProjects(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, projects)
	}
}

func (s *Server) handleCreateProject() echo.HandlerFunc {
	return func(c echo.Context) error {
		var p types.Project
		if err := c.Bind(&p); err != nil {
			return err
		}
		if strings.TrimSpace(p.Title) == "" {
			return badRequest("Title is required")
		}

		if err := s.deps.Store.CreateProject(c.Request().Context(), &p); err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, p)
	}
}

func (s *Server) handleGetProject() echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := s.deps.Store.GetProject(c.Request().Context(), c.Param("id"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, p)
	}
}

func (s *Server) handleUpdateProject() echo.HandlerFunc {
	return func(c echo.Context) error {
		var patch types.ProjectPatch
		if err := c.Bind(&patch); err != nil {
			return err
		}
		if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
			return badRequest("Title cannot be empty")
		}

		p, err := s.deps.Store.UpdateProject(c.Request().Context(), c.Param("id"), patch)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, p)
	}
}

func (s *Server) handleDeleteProject() echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := s.deps.Store.DeleteProject(c.Request().Context(), c.Param("id")); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, successBody{Success: true})
	}
}

func (s *Server) handleListProjectPapers() echo.HandlerFunc {
	return func(c echo.Context) error {
		papers, err := s.deps.Store.ListProjectPapers(c.Request().Context(), c.Param("id"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, papers)
	}
}

func (s *Server) handlePinPaper() echo.HandlerFunc {
	return func(c echo.Context) error {
		paperID, err := paperIDParam(c, "paperId")
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		if err := s.deps.Store.PinPaper(ctx, c.Param("id"), paperID); err != nil {
			return err
		}
		p, err := s.deps.Store.GetProject(ctx, c.Param("id"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, p)
	}
}

func (s *Server) handleUnpinPaper() echo.HandlerFunc {
	return func(c echo.Context) error {
		paperID, err := paperIDParam(c, "paperId")
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		if err := s.deps.Store.UnpinPaper(ctx, c.Param("id"), paperID); err != nil {
			return err
		}
		p, err := s.deps.Store.GetProject(ctx, c.Param("id"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, p)
	}
}
