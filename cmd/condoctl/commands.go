package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"condo/internal/assistant"
	"condo/internal/backend"
	"condo/internal/cli"
	"condo/internal/config"
	"condo/internal/core"
	applog "condo/internal/log"
	"condo/internal/metrics"
	"condo/internal/reports"
	"condo/internal/seed"
	"condo/internal/sheets"
	"condo/internal/storage"
)

// env is what every subcommand starts from.
type env struct {
	cfg    *config.Config
	logger *applog.Logger
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level := "warn"
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = "debug"
	}
	logger := applog.New(applog.Config{
		Component: applog.ComponentApp,
		Handler:   slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: applog.ParseLevel(level)}),
	})
	return &env{cfg: cfg, logger: logger}, nil
}

func (e *env) openStore(ctx context.Context) (*cli.Runtime, error) {
	return cli.OpenStore(ctx, e.cfg, metrics.New(), e.logger)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "condoctl",
		Short:         "Manage the condominium community state",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "Log debug output")

	root.AddCommand(
		seedCmd(),
		reportCmd(),
		exportCmd(),
		askCmd(),
		draftCmd(),
	)
	return root
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the seed dataset to the configured backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			force, _ := cmd.Flags().GetBool("force")
			file, _ := cmd.Flags().GetString("file")
			ctx := cmd.Context()

			snap, err := seed.Default()
			if file != "" {
				snap, err = seed.FromFile(file)
			}
			if err != nil {
				return fmt.Errorf("load seed: %w", err)
			}

			bcfg, err := backend.FromAppConfig(e.cfg)
			if err != nil {
				return err
			}
			result, err := backend.NewFactory(e.logger).CreateBackend(ctx, bcfg)
			if err != nil {
				return err
			}
			defer func() { _ = result.Cleanup() }()

			_, err = result.Store.Load(ctx)
			switch {
			case err == nil && !force:
				return errors.New("state already saved; use --force to replace it")
			case err != nil && !errors.Is(err, storage.ErrNoSnapshot):
				return fmt.Errorf("read current state: %w", err)
			}

			payload, err := storage.Encode(snap)
			if err != nil {
				return err
			}
			if err := result.Store.Save(ctx, payload); err != nil {
				return fmt.Errorf("save seed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s backend: %d properties, %d owners, %d polls\n",
				e.cfg.DataBackend, len(snap.Properties), len(snap.Owners), len(snap.Polls))
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "Replace an existing state")
	cmd.Flags().String("file", "", "Seed JSON file instead of the built-in dataset")
	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "report <kind>",
		Short:     "Print a finance report",
		Long:      "Print a finance report. Kinds: " + strings.Join(kindNames(), ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: kindNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := reports.ParseKind(args[0])
			if err != nil {
				return fmt.Errorf("%w: %s", err, args[0])
			}
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			rt, err := e.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close(e.logger)

			snap := rt.Store.Snapshot()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(cmd.OutOrStdout(), reportData(kind, snap))
			}
			t, err := reports.Table(kind, snap)
			if err != nil {
				return err
			}
			return writeTable(cmd.OutOrStdout(), t)
		},
	}
	cmd.Flags().Bool("json", false, "Print JSON instead of a table")
	return cmd
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [kind...]",
		Short: "Export finance reports to Google Sheets",
		Long:  "Export finance reports to Google Sheets; all of them when no kind is named.",
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := make([]reports.Kind, 0, len(args))
			for _, a := range args {
				k, err := reports.ParseKind(a)
				if err != nil {
					return fmt.Errorf("%w: %s", err, a)
				}
				kinds = append(kinds, k)
			}
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			client, err := cli.NewSheets(ctx, e.cfg, e.logger)
			if err != nil {
				return err
			}
			if client == nil {
				return errors.New("GOOGLE_SPREADSHEET_ID is not set")
			}
			rt, err := e.openStore(ctx)
			if err != nil {
				return err
			}
			defer rt.Close(e.logger)

			return runExport(ctx, cmd.OutOrStdout(), client, rt.Store.Snapshot(), e.logger, kinds)
		},
	}
}

func runExport(ctx context.Context, out io.Writer, w sheets.ReportWriter, snap core.Snapshot, logger *applog.Logger, kinds []reports.Kind) error {
	refs, err := reports.NewExporter(w, logger).Export(ctx, snap, kinds...)
	for _, k := range reports.Kinds {
		if ref, ok := refs[k]; ok {
			fmt.Fprintf(out, "%s\t%s\n", k.Title(), ref)
		}
	}
	return err
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the community assistant a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			asst := cli.NewAssistant(cmd.Context(), e.cfg, metrics.New(), e.logger)
			fmt.Fprintln(cmd.OutOrStdout(), asst.AnswerQuestion(cmd.Context(), strings.Join(args, " ")))
			return nil
		},
	}
}

func draftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "draft <topic>",
		Short: "Draft an announcement about a topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			asst := cli.NewAssistant(cmd.Context(), e.cfg, metrics.New(), e.logger)
			text := asst.DraftAnnouncement(cmd.Context(), strings.Join(args, " "))
			out := cmd.OutOrStdout()
			if assistant.IsFallback(text) {
				fmt.Fprintln(out, text)
				return nil
			}
			d := assistant.ParseDraft(text)
			fmt.Fprintf(out, "%s\n\n%s\n", d.Title, d.Content)
			return nil
		},
	}
}

func kindNames() []string {
	out := make([]string, 0, len(reports.Kinds))
	for _, k := range reports.Kinds {
		out = append(out, string(k))
	}
	return out
}

func reportData(k reports.Kind, snap core.Snapshot) any {
	switch k {
	case reports.KindOwnerStatement:
		return reports.OwnerStatement(snap)
	case reports.KindIncomeExpenses:
		return reports.IncomeVsExpenses(snap)
	default:
		return reports.Delinquency(snap)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, t sheets.Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, t.Name)
	fmt.Fprintln(tw, strings.Join(t.Header, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
