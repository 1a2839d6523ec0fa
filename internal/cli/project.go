package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tkc/vibe-schedule/internal/config"
	"github.com/tkc/vibe-schedule/internal/github"
	"github.com/tkc/vibe-schedule/internal/source"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage the GitHub Project used as a task table",
}

var projectListCmd = &cobra.Command{
	Use:   "list [owner]",
	Short: "List projects for a user or organization",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.GitHubToken == "" {
			return fmt.Errorf("not logged in. Run: vsched auth login")
		}

		var owner string
		if len(args) > 0 {
			owner = args[0]
		} else if cfg.ProjectOwner != "" {
			owner = cfg.ProjectOwner
		} else {
			return fmt.Errorf("owner is required. Usage: vsched project list <owner>")
		}
		client := github.NewClient(cfg.GitHubToken, owner)

		projects, err := client.GetProjects(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get projects: %w", err)
		}

		if len(projects) == 0 {
			fmt.Printf("No projects found for %s\n", owner)
			return nil
		}

		fmt.Printf("Projects for %s:\n\n", owner)
		for _, p := range projects {
			fmt.Printf("  #%-4d %s\n", p.Number, p.Title)
			fmt.Printf("        %s\n\n", p.URL)
		}

		fmt.Println("To select a project, run:")
		fmt.Printf("  vsched project select %s <number>\n", owner)
		return nil
	},
}

var projectSelectCmd = &cobra.Command{
	Use:   "select <owner> <number>",
	Short: "Use a project as the task table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.GitHubToken == "" {
			return fmt.Errorf("not logged in. Run: vsched auth login")
		}

		owner := args[0]
		number, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid project number: %s", args[1])
		}

		// プロジェクトが存在するか確認
		client := github.NewClient(cfg.GitHubToken, owner)
		project, err := client.GetProjectByNumber(cmd.Context(), number)
		if err != nil {
			return fmt.Errorf("failed to find project: %w", err)
		}

		if err := updateUserConfig(func(c *config.Config) {
			c.ProjectOwner = owner
			c.ProjectNumber = number
			c.Source.Kind = string(source.KindGitHub)
		}); err != nil {
			return err
		}

		fmt.Printf("✓ Selected project: %s (#%d)\n", project.Title, project.Number)
		fmt.Printf("  URL: %s\n", project.URL)
		fmt.Println()
		fmt.Println("Next step: vsched columns")
		return nil
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current project",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		client := github.NewClient(cfg.GitHubToken, cfg.ProjectOwner)
		project, err := client.GetProjectByNumber(cmd.Context(), cfg.ProjectNumber)
		if err != nil {
			return fmt.Errorf("failed to get project: %w", err)
		}

		fmt.Printf("Current Project:\n")
		fmt.Printf("  Title:  %s\n", project.Title)
		fmt.Printf("  Number: #%d\n", project.Number)
		fmt.Printf("  Owner:  %s\n", cfg.ProjectOwner)
		fmt.Printf("  URL:    %s\n", project.URL)
		return nil
	},
}

var projectFieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List all project fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		taskService, err := projectTaskService(cmd.Context())
		if err != nil {
			return err
		}

		fields := taskService.GetFields()
		if len(fields) == 0 {
			fmt.Println("No fields found.")
			return nil
		}

		fmt.Println("Project fields:")
		fmt.Println()
		for _, field := range fields {
			fmt.Printf("  • %s (%s)\n", field.Name, field.DataType)
			for _, opt := range field.Options {
				fmt.Printf("      - %s\n", opt.Name)
			}
		}
		fmt.Printf("\nTotal: %d fields\n", len(fields))
		fmt.Println()
		fmt.Println("Map fields to roles with: vsched config set-column <role> <field>")

		return nil
	},
}

func projectTaskService(ctx context.Context) (*github.TaskService, error) {
	client := github.NewClient(cfg.GitHubToken, cfg.ProjectOwner)
	taskService := github.NewTaskService(client, cfg.ProjectNumber)
	if err := taskService.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return taskService, nil
}

func init() {
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectSelectCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectFieldsCmd)
}
