// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paprly/paprly/pkg/types"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage research projects and their pinned papers",
}

// --- list subcommand ---

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects, newest first",
	RunE:  runProjectsList,
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	projects, err := a.store.ListProjects(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if done, err := writeStructured(w, outputFormatFor(cmd), projects); done {
		return err
	}
	formatProjectTable(projects, w)
	return nil
}

func formatProjectTable(projects []types.Project, w io.Writer) {
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects.")
		return
	}

	fmt.Fprintf(w, "%-36s  %-40s  %-12s  %s\n", "ID", "Title", "Theme", "Papers")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, p := range projects {
		fmt.Fprintf(w, "%-36s  %-40s  %-12s  %d\n",
			p.ID, truncate(p.Title, 40), truncate(p.Theme, 12), len(p.PaperIDs))
	}
}

// --- create subcommand ---

var projectsCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsCreate,
}

func runProjectsCreate(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	goal, _ := cmd.Flags().GetString("goal")
	theme, _ := cmd.Flags().GetString("theme")
	contributors, _ := cmd.Flags().GetString("contributors")

	p := &types.Project{Title: args[0], Goal: goal, Theme: theme, Contributors: contributors}
	if err := a.store.CreateProject(cmd.Context(), p); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created project %s\n", p.ID)
	return nil
}

// --- delete subcommand ---

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete [project-id]",
	Short: "Delete a project; its papers stay in the library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.store.DeleteProject(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted project %s\n", args[0])
		return nil
	},
}

// --- pin and unpin subcommands ---

var projectsPinCmd = &cobra.Command{
	Use:   "pin [project-id] [paper-id...]",
	Short: "Pin saved papers to a project",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPinning(cmd, args, true)
	},
}

var projectsUnpinCmd = &cobra.Command{
	Use:   "unpin [project-id] [paper-id...]",
	Short: "Unpin papers from a project",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPinning(cmd, args, false)
	},
}

func runPinning(cmd *cobra.Command, args []string, pin bool) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	projectID := args[0]
	for _, arg := range args[1:] {
		paperID, err := parsePaperID(arg)
		if err != nil {
			return err
		}
		if pin {
			err = a.store.PinPaper(cmd.Context(), projectID, paperID)
		} else {
			err = a.store.UnpinPaper(cmd.Context(), projectID, paperID)
		}
		if err != nil {
			return err
		}
	}

	p, err := a.store.GetProject(cmd.Context(), projectID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d pinned paper(s)\n", p.Title, len(p.PaperIDs))
	return nil
}

func init() {
	addOutputFlags(projectsListCmd)

	projectsCreateCmd.Flags().String("goal", "", "research goal")
	projectsCreateCmd.Flags().String("theme", "", "theme label")
	projectsCreateCmd.Flags().String("contributors", "", "contributors (free text)")

	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsCreateCmd)
	projectsCmd.AddCommand(projectsDeleteCmd)
	projectsCmd.AddCommand(projectsPinCmd)
	projectsCmd.AddCommand(projectsUnpinCmd)
	rootCmd.AddCommand(projectsCmd)
}
