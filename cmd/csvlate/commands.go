package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZaguanLabs/csvlate"
	"github.com/ZaguanLabs/csvlate/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// errVerifyFailed is returned when the service rejects the check request.
var errVerifyFailed = errors.New("credential check failed")

func newVerifyCmd(global *globalOptions) *cobra.Command {
	var providerName, apiKey string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the API key with one short translation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("provider") {
				cfg.Provider = providerName
			}

			logger := newLogger(cmd.ErrOrStderr(), global.verbose)
			client, err := clientBuilder(cfg, apiKey, logger)()
			if err != nil && !errors.Is(err, csvlate.ErrNoCredential) {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			ok, msg, verr := csvlate.VerifyClient(ctx, client)
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, color.RedString("%s", msg))
				if verr != nil {
					return fmt.Errorf("%w: %w", errVerifyFailed, verr)
				}
				return errVerifyFailed
			}
			fmt.Fprintln(out, color.GreenString("%s", msg))
			return nil
		},
	}

	cmd.Flags().StringVarP(&providerName, "provider", "p", "", "Translation service")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key to check")
	return cmd
}

func newLanguagesCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List the recognized language column headers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			headers := csvlate.LanguageHeaders()
			out := cmd.OutOrStdout()

			if jsonOut {
				type entry struct {
					Header string `json:"header"`
					Code   string `json:"code"`
				}
				entries := make([]entry, len(headers))
				for i, h := range headers {
					entries[i] = entry{Header: h.Header, Code: h.Code}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			for _, h := range headers {
				fmt.Fprintf(out, "%-32s %s\n", h.Header, h.Code)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print as JSON")
	return cmd
}

func newKeyCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Store or show the API key",
		Long: `Store or show the API key kept in the project file.

The key is written to ` + config.FileName + ` with owner-only permissions.
Flags and environment variables take precedence over the stored key.`,
	}

	path := func() string {
		if global.configPath != "" {
			return global.configPath
		}
		return filepath.Join(".", config.FileName)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key>",
		Short: "Save the API key to the project file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.load()
			if err != nil {
				return err
			}
			cfg.APIKey = strings.TrimSpace(args[0])
			if cfg.APIKey == "" {
				return csvlate.ErrNoCredential
			}
			if err := config.Save(path(), cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key saved to %s\n", path())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the masked API key and where it comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.load()
			if err != nil {
				return err
			}
			key, source := config.ResolveAPIKey("", cfg.Provider, cfg, nil)
			if key == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No API key configured.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (from %s)\n", maskKey(key), source)
			return nil
		},
	})

	return cmd
}

// maskKey hides all but the last four characters of key.
func maskKey(key string) string {
	r := []rune(key)
	if len(r) <= 4 {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", len(r)-4) + string(r[len(r)-4:])
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", csvlate.Name, csvlate.Version)
			if csvlate.GitCommit != "" {
				fmt.Fprintf(out, "  commit:  %s\n", csvlate.GitCommit)
			}
			if csvlate.BuildDate != "" {
				fmt.Fprintf(out, "  built:   %s\n", csvlate.BuildDate)
			}
		},
	}
}
