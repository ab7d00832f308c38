package main

// workspacecmd.go — workspace subcommands managing the ~/.komodo/
// hierarchy.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"komodo/internal/workspace"
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage ~/.komodo workspaces",
}

var workspaceInitCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Create a new workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := workspace.Init(args[0]); err != nil {
			return err
		}
		home, _ := os.UserHomeDir()
		fmt.Printf("created workspace %q at %s\n", args[0], filepath.Join(home, ".komodo", args[0]))
		return nil
	},
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := workspace.List()
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

var workspaceRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Delete a workspace and its contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return workspace.Remove(args[0])
	},
}

var workspaceAddProjectCmd = &cobra.Command{
	Use:   "add-project <workspace> <project>",
	Short: "Add a project to a workspace",
	Long: `Add a new project to an existing workspace.

Prompts for configuration (source directory, provider) and writes
~/.komodo/<workspace>/<project>.yaml.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := workspace.Open(args[0])
		if err != nil {
			return err
		}
		answers, err := promptQuestions([]question{
			{key: "dir", prompt: "Source directory"},
			{key: "provider", prompt: "Provider (ts or go)"},
		})
		if err != nil {
			return fmt.Errorf("prompt: %w", err)
		}
		provider := answers["provider"]
		if provider == "" {
			provider = "ts"
		}
		cfg := workspace.ProjectConfig{
			Providers: map[string]map[string]string{
				provider: {"dir": answers["dir"]},
			},
		}
		if err := w.AddProject(args[1], cfg); err != nil {
			return err
		}
		fmt.Printf("added project %q to workspace %q\n", args[1], args[0])
		return nil
	},
}

var workspaceListProjectsCmd = &cobra.Command{
	Use:   "list-projects <workspace>",
	Short: "List projects in a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := workspace.Open(args[0])
		if err != nil {
			return err
		}
		projects, err := w.ListProjects()
		if err != nil {
			return err
		}
		for _, p := range projects {
			fmt.Println(p)
		}
		return nil
	},
}

func init() {
	workspaceCmd.AddCommand(workspaceInitCmd)
	workspaceCmd.AddCommand(workspaceListCmd)
	workspaceCmd.AddCommand(workspaceRemoveCmd)
	workspaceCmd.AddCommand(workspaceAddProjectCmd)
	workspaceCmd.AddCommand(workspaceListProjectsCmd)
}
