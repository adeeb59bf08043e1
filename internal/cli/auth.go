package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todolist/internal/auth"
	"github.com/idilsaglam/todolist/internal/ui"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the API key used by the rest backend",
	}
	cmd.AddCommand(newAuthLoginCmd(app))
	cmd.AddCommand(newAuthLogoutCmd(app))
	cmd.AddCommand(newAuthStatusCmd(app))
	return cmd
}

func newAuthLoginCmd(app *App) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API key (read from stdin when --key is not given)",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				sc := bufio.NewScanner(cmd.InOrStdin())
				if sc.Scan() {
					key = sc.Text()
				}
				if err := sc.Err(); err != nil {
					return failed(fmt.Errorf("read key: %w", err))
				}
			}
			if strings.TrimSpace(key) == "" {
				return usagef("login: empty key")
			}
			if err := auth.Save(app.dataDir, key); err != nil {
				return failed(fmt.Errorf("login: %w", err))
			}
			ui.OK(cmd.OutOrStdout(), "API key saved")
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "API key to store")
	return cmd
}

func newAuthLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API key",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if os.Getenv(auth.EnvVar) != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "key comes from %s; unset it to log out\n", auth.EnvVar)
				return nil
			}
			if err := auth.Remove(app.dataDir); err != nil {
				return failed(fmt.Errorf("logout: %w", err))
			}
			ui.OK(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newAuthStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the API key comes from",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ki, err := auth.Lookup(app.dataDir, app.cfg.Rest.APIKey)
			if err != nil {
				return failed(fmt.Errorf("status: %w", err))
			}
			out := cmd.OutOrStdout()
			if ki == nil {
				fmt.Fprintln(out, "no API key configured")
				return nil
			}
			fmt.Fprintf(out, "API key %s (from %s)\n", mask(ki.Key), ki.Source)
			return nil
		},
	}
}

// mask keeps the last four characters.
func mask(key string) string {
	r := []rune(key)
	if len(r) <= 4 {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", 4) + string(r[len(r)-4:])
}
