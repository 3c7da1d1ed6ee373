// Command billing turns a group-purchase transcript into billing,
// top-spender, top-item and revenue reports.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jastipin/billing/internal/auth"
	"github.com/jastipin/billing/internal/render"
	"github.com/jastipin/billing/internal/server"
	"github.com/jastipin/billing/internal/service"
	"github.com/jastipin/billing/internal/storage"
	"github.com/jastipin/billing/internal/storage/sqlite"
	"github.com/jastipin/billing/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	root := &cobra.Command{
		Use:           "billing",
		Short:         "Group-purchase billing reports from plain-text transcripts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(generateCmd(), serveCmd(), runsCmd(), hashCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openStore opens the archive when a path is configured; an empty path
// disables archiving.
func openStore(dbPath string) (storage.Store, error) {
	if dbPath == "" {
		return nil, nil
	}
	return sqlite.New(dbPath)
}

func generateCmd() *cobra.Command {
	var (
		input  string
		output string
		topN   int
		save   bool
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Parse a transcript and print the reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			store, err := openStore(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open archive: %w", err)
			}
			if store != nil {
				defer store.Close()
			}

			svc := service.NewReportService(store)
			res, err := svc.Generate(cmd.Context(), string(raw), service.GenerateOptions{
				TopN:   topN,
				Save:   save,
				Source: input,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			return render.Write(out, res)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", getEnv("BILLING_INPUT", "input-file.txt"), "transcript file to parse")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write reports to a file instead of stdout")
	cmd.Flags().IntVar(&topN, "top", 0, "leaderboard size (default 5)")
	cmd.Flags().BoolVar(&save, "save", false, "archive the run (requires --db)")
	cmd.Flags().StringVar(&dbPath, "db", getEnv("DB_PATH", ""), "run archive database path")
	return cmd
}

func serveCmd() *cobra.Command {
	var (
		addr   string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report pipeline over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open archive: %w", err)
			}
			if store != nil {
				defer store.Close()
			}

			cfg := server.Config{
				Addr:           addr,
				PassphraseHash: os.Getenv("BILLING_PASSPHRASE_HASH"),
				TokenSecret:    os.Getenv("BILLING_TOKEN_SECRET"),
			}
			if cfg.PassphraseHash != "" && cfg.TokenSecret == "" {
				return fmt.Errorf("BILLING_TOKEN_SECRET is required when BILLING_PASSPHRASE_HASH is set")
			}

			srv := server.New(service.NewReportService(store), cfg)
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", getEnv("BILLING_ADDR", ":8080"), "listen address")
	cmd.Flags().StringVar(&dbPath, "db", getEnv("DB_PATH", "./data/runs.db"), "run archive database path")
	return cmd
}

func runsCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List archived runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open archive: %w", err)
			}
			if store == nil {
				return service.ErrArchiveDisabled
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range runs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  items=%d customers=%d entries=%d diagnostics=%d\n",
					r.ID, r.Source, r.ItemCount, r.CustomerCount, r.EntryCount, r.DiagnosticCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", getEnv("DB_PATH", "./data/runs.db"), "run archive database path")
	return cmd
}

func hashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-passphrase <passphrase>",
		Short: "Produce a bcrypt hash for BILLING_PASSPHRASE_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassphrase(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
