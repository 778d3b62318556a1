// Command opsctl is the operator tool for the reconciler: it mints operator
// tokens and reads or cleans up the event ledger.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"donor-reconciler/config"
	"donor-reconciler/internal/adapter/crm"
	pgStorage "donor-reconciler/internal/adapter/storage/postgres"
	"donor-reconciler/internal/core/domain"
	"donor-reconciler/internal/core/ports"
	"donor-reconciler/internal/service"
	"donor-reconciler/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "opsctl",
		Short:         "Operator tool for the donor reconciler",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("DRC_CONFIG"), "Config file (env DRC_* overrides)")

	rootCmd.AddCommand(tokenCmd(&configPath))
	rootCmd.AddCommand(inspectCmd(&configPath))
	rootCmd.AddCommand(awaitCmd(&configPath))
	rootCmd.AddCommand(sandboxCleanupCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is what every ledger command needs.
type env struct {
	cfg  *config.Config
	log  zerolog.Logger
	pool *pgxpool.Pool
	repo *pgStorage.EventRepo
}

func openEnv(ctx context.Context, configPath string) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log := logger.New("warn", true)
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, pool: pool, repo: pgStorage.NewEventRepo(pool)}, nil
}

func (e *env) Close() { e.pool.Close() }

func tokenCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an operator bearer token for the ledger API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			subject, _ := cmd.Flags().GetString("subject")
			expiry, _ := cmd.Flags().GetDuration("expiry")
			if expiry <= 0 {
				expiry = cfg.JWT.Expiry
			}

			token, expiresAt, err := service.NewJWTTokenService(cfg.JWT.Secret, expiry, cfg.JWT.Issuer).Generate(subject)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.UTC().Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringP("subject", "s", "", "Operator identity (email)")
	cmd.Flags().Duration("expiry", 0, "Token lifetime (default jwt.expiry)")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func inspectCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [event-id]",
		Short: "Print the ledger row of an event, snapshot decrypted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, *configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			var encSvc ports.EncryptionService
			if e.cfg.AES.Key != "" {
				aes, err := service.NewAESEncryptionService(e.cfg.AES.Key)
				if err != nil {
					return err
				}
				encSvc = aes
			}
			ledger := service.NewLedgerService(e.repo, nil, nil, encSvc, 0, 0, e.log)

			event, err := ledger.GetEvent(ctx, args[0])
			if err != nil {
				return err
			}
			return printEvent(cmd.OutOrStdout(), event)
		},
	}
}

func awaitCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "await [event-id]",
		Short: "Wait for an event to reach a terminal ledger status",
		Long: `Polls the ledger until the event is processed, ignored or failed.
Exits non-zero when the event failed or the timeout elapsed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, *configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			interval, _ := cmd.Flags().GetDuration("interval")
			timeout, _ := cmd.Flags().GetDuration("timeout")

			event, err := awaitEvent(ctx, e.repo, args[0], interval, timeout)
			if event != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", event.EventID, event.Status)
			}
			return err
		},
	}
	cmd.Flags().Duration("interval", 2*time.Second, "Poll interval")
	cmd.Flags().Duration("timeout", 2*time.Minute, "Give up after")
	return cmd
}

func sandboxCleanupCmd(configPath *string) *cobra.Command {
	var opts cleanupOptions
	cmd := &cobra.Command{
		Use:   "sandbox-cleanup",
		Short: "Delete CRM records created by test-mode events in the sandbox tenant",
		Long: `Lists test-mode ledger rows and deletes the transactions (and, with
--constituents, the constituents) they created in the sandbox CRM tenant.
Dry run unless --apply is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, *configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			registry := crm.NewRegistry(e.cfg.CRM, &http.Client{Timeout: e.cfg.CRM.Timeout}, e.log)
			client, err := registry.Client(domain.InstanceSandbox)
			if err != nil {
				return err
			}

			report, err := cleanupSandbox(ctx, cmd.OutOrStdout(), e.repo, client, time.Now(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d events, %d transactions and %d constituents deleted, %d failures\n",
				report.Events, report.TransactionsDeleted, report.ConstituentsDeleted, report.Failures)
			if report.Failures > 0 {
				return fmt.Errorf("%d deletions failed", report.Failures)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&opts.Since, "since", 24*time.Hour, "Look back this far")
	cmd.Flags().IntVar(&opts.Limit, "limit", 200, "Maximum events")
	cmd.Flags().BoolVar(&opts.Constituents, "constituents", false, "Also delete constituents")
	cmd.Flags().BoolVar(&opts.Apply, "apply", false, "Actually delete")
	return cmd
}
