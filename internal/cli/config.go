package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tkc/vibe-schedule/internal/config"
	"github.com/tkc/vibe-schedule/internal/domain"
	"github.com/tkc/vibe-schedule/internal/report"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging defaults, ~/.vsched/config.yaml,
./.vsched/config.yaml and VSCHED_* environment variables.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		shown := *cfg
		if shown.GitHubToken != "" {
			shown.GitHubToken = maskToken(shown.GitHubToken)
		}

		out := cmd.OutOrStdout()
		if jsonOut {
			return report.WriteJSON(out, shown)
		}

		data, err := yaml.Marshal(&shown)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		if path, err := config.Path(); err == nil {
			fmt.Fprintf(out, "# user config: %s\n", path)
		}
		_, err = out.Write(data)
		return err
	},
}

var configSetColumnCmd = &cobra.Command{
	Use:   "set-column <role> <column>",
	Short: "Bind a role to a dataset column",
	Long: `Bind one of the six roles to a column name and save it to the user config.

Roles: ` + strings.Join(roleNames(), ", ") + `

Example:
  vsched config set-column percent_complete "% Work Complete"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := domain.Role(args[0])
		column := strings.TrimSpace(args[1])
		if column == "" {
			return fmt.Errorf("column name cannot be empty")
		}

		var check domain.Columns
		if !check.Set(role, column) {
			return fmt.Errorf("unknown role %q (roles: %s)", args[0], strings.Join(roleNames(), ", "))
		}

		if err := updateUserConfig(func(c *config.Config) {
			c.Columns.Set(role, column)
		}); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s → %s\n", role, column)
		return nil
	},
}

func roleNames() []string {
	var names []string
	for _, b := range domain.DefaultColumns().Bindings() {
		names = append(names, string(b.Role))
	}
	return names
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetColumnCmd)
}
