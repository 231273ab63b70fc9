// Package cli implements ledgerctl, the operator command line for resident ledgers.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/condo-portal/ledger/config"
	"github.com/condo-portal/ledger/internal/domain/valueobject"
	"github.com/condo-portal/ledger/internal/infra/db"
	"github.com/condo-portal/ledger/internal/infra/dependency"
)

var (
	outputFormat string
	asOfFlag     string
)

// openUseCases wires the use cases against the configured database.
// The returned func releases the connection.
var openUseCases = func() (*dependency.UseCases, func(), error) {
	cfg := config.Load()

	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	// The CLI never uses the report cache.
	injector, err := dependency.NewInjector(cfg, database.DB(), nil, database.HealthCheck)
	if err != nil {
		_ = database.Close()
		return nil, nil, err
	}

	return &injector.UseCases, func() { _ = database.Close() }, nil
}

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Inspect resident ledgers and delinquency reports",
	Long: `ledgerctl reads the community ledger database directly and prints
resident account statements and delinquency reports. Configuration is
taken from the same environment variables as the API server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json or yaml")
	rootCmd.PersistentFlags().StringVar(&asOfFlag, "as-of", "", "Reference date (YYYY-MM-DD); defaults to today in the community time zone")
}

// Execute runs the root command.
func Execute() error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	return rootCmd.Execute()
}

func parseAsOfFlag() (*time.Time, error) {
	if asOfFlag == "" {
		return nil, nil
	}
	asOf, err := valueobject.ParseDate(asOfFlag)
	if err != nil {
		return nil, fmt.Errorf("invalid --as-of %q: %w", asOfFlag, err)
	}
	return &asOf, nil
}
