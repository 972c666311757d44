package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ArowuTest/growdice-backend/internal/app"
	"github.com/ArowuTest/growdice-backend/internal/config"
	"github.com/ArowuTest/growdice-backend/internal/logger"
	"github.com/ArowuTest/growdice-backend/internal/repositories"
	"github.com/ArowuTest/growdice-backend/internal/services"
)

// rootOptions holds flags shared by every command.
type rootOptions struct {
	ConfigDir string
	LogLevel  string
}

// NewRootCommand creates the growdice-seed command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "growdice-seed",
		Short:         "Seed the GrowDice database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config", "", "directory holding config.yaml")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "log level (debug|info|warn|error)")

	cmd.AddCommand(newBoxesCommand(opts))
	cmd.AddCommand(newAdminCommand(opts))
	return cmd
}

func newBoxesCommand(opts *rootOptions) *cobra.Command {
	var file string
	var onlyIfEmpty bool
	cmd := &cobra.Command{
		Use:   "boxes",
		Short: "Import the box catalog from a YAML file",
		Long: `Import boxes from a YAML catalog file. Boxes whose id already exists are
skipped, so the command can be re-run after adding boxes to the file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(a *app.App) error {
				if file == "" {
					file = a.Config.Catalog.SeedFile
				}
				return runBoxes(cmd.Context(), a.Catalog, file, onlyIfEmpty, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "catalog file (defaults to Catalog.SeedFile)")
	cmd.Flags().BoolVar(&onlyIfEmpty, "only-if-empty", false, "do nothing when the catalog has boxes")
	return cmd
}

func newAdminCommand(opts *rootOptions) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Create an admin account or promote an existing one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(a *app.App) error {
				return runAdmin(cmd.Context(), a.Auth, email, password, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (min 6 characters)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// withApp loads configuration, opens storage and runs fn against the wired app.
func withApp(ctx context.Context, opts *rootOptions, fn func(*app.App) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var dirs []string
	if opts.ConfigDir != "" {
		dirs = append(dirs, opts.ConfigDir)
	}
	cfg, err := config.Load(dirs...)
	if err != nil {
		return err
	}
	log := logger.New(opts.LogLevel, cfg.Log.Format)

	store, closeStore, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			log.Error("error closing storage", "error", err)
		}
	}()
	return withStore(cfg, store, log, fn)
}

func withStore(cfg *config.Config, store *repositories.Store, log *slog.Logger, fn func(*app.App) error) error {
	a, err := app.New(cfg, store, nil, log)
	if err != nil {
		return err
	}
	return fn(a)
}

func runBoxes(ctx context.Context, catalog *services.CatalogService, file string, onlyIfEmpty bool, out io.Writer) error {
	if file == "" {
		return fmt.Errorf("no catalog file given")
	}
	boxes, err := services.LoadBoxFile(file)
	if err != nil {
		return err
	}
	added, err := catalog.SeedBoxes(ctx, boxes, onlyIfEmpty)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "imported %d of %d boxes from %s\n", added, len(boxes), file)
	return nil
}

func runAdmin(ctx context.Context, auth *services.AuthService, email, password string, out io.Writer) error {
	created, err := auth.EnsureAdmin(ctx, email, password)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(out, "created admin %s\n", email)
	} else {
		fmt.Fprintf(out, "promoted %s to admin\n", email)
	}
	return nil
}
