package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tkc/vibe-schedule/internal/config"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to GitHub",
	Long: `Login to GitHub using a personal access token.

The token is only used to read GitHub Projects as a task table.

For Classic tokens (https://github.com/settings/tokens):
  Required scopes:
    - read:project (Read access to projects)
    - read:org (for organization projects)

For Fine-grained tokens (https://github.com/settings/tokens?type=beta):
  Account permissions:
    - Projects: Read-only

Create a token at: https://github.com/settings/tokens`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("GitHub Personal Access Token を入力してください")
		fmt.Println("(必要なスコープ: read:project, read:org)")
		fmt.Println()
		fmt.Print("Token: ")

		reader := bufio.NewReader(cmd.InOrStdin())
		token, err := reader.ReadString('\n')
		if err != nil && token == "" {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token = strings.TrimSpace(token)

		if token == "" {
			return fmt.Errorf("token cannot be empty")
		}

		if err := updateUserConfig(func(c *config.Config) {
			c.GitHubToken = token
		}); err != nil {
			return err
		}

		fmt.Println("✓ Token saved successfully")
		fmt.Println()
		fmt.Println("Next step: vsched project select <owner> <number>")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.GitHubToken == "" {
			fmt.Println("✗ Not logged in")
			fmt.Println()
			fmt.Println("Run: vsched auth login")
			return nil
		}

		fmt.Printf("✓ Logged in (token: %s)\n", maskToken(cfg.GitHubToken))

		if cfg.ProjectOwner != "" {
			fmt.Printf("  Project: %s #%d\n", cfg.ProjectOwner, cfg.ProjectNumber)
		}
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from GitHub",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := updateUserConfig(func(c *config.Config) {
			c.GitHubToken = ""
		}); err != nil {
			return err
		}
		fmt.Println("✓ Logged out successfully")
		if os.Getenv(config.EnvPrefix+"_GITHUB_TOKEN") != "" {
			fmt.Printf("  %s_GITHUB_TOKEN is still set in the environment\n", config.EnvPrefix)
		}
		return nil
	},
}

// maskToken はトークンの先頭と末尾4文字だけを残す
func maskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}

// updateUserConfig はユーザー設定ファイルだけを読み直して更新・保存する
// プロジェクト設定と環境変数の値は保存されない
func updateUserConfig(update func(c *config.Config)) error {
	userCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	update(userCfg)
	if err := userCfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	update(cfg)
	return nil
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
}
