package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/application/usecase/ledger"
	"github.com/condo-portal/ledger/internal/integration/entrypoint/dto"
)

func init() {
	rootCmd.AddCommand(ledgerCmd)
}

var ledgerCmd = &cobra.Command{
	Use:   "ledger RESIDENT_ID",
	Short: "Print a resident's account statement",
	Long: `Print the balance-annotated history of a resident, most recent first.
Pending, rejected and cancelled payments are listed but do not reduce the balance.`,
	Args: cobra.ExactArgs(1),
	RunE: runLedger,
}

func runLedger(cmd *cobra.Command, args []string) error {
	asOf, err := parseAsOfFlag()
	if err != nil {
		return err
	}

	useCases, closeFn, err := openUseCases()
	if err != nil {
		return err
	}
	defer closeFn()

	output, err := useCases.GetLedger.Execute(cmd.Context(), ledger.GetResidentLedgerInput{
		ResidentID: args[0],
		AsOf:       asOf,
		Scope:      adapter.CommunityScope{},
	})
	if err != nil {
		return err
	}

	response := dto.ToLedgerResponse(output)
	return render(cmd.OutOrStdout(), outputFormat, response, func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "Residente:\t%s (%s)\n", response.ResidentName, response.Unit)
		fmt.Fprintf(w, "Fecha de corte:\t%s\n", response.AsOf)
		fmt.Fprintf(w, "Saldo:\t%s\n\n", response.CurrentBalance)

		fmt.Fprintln(w, "FECHA\tTIPO\tCONCEPTO\tCARGO\tABONO\tAPLICADO\tSALDO")
		for _, row := range response.Rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				row.Date,
				row.Kind,
				row.Description,
				deref(row.ChargeAmount),
				deref(row.PaymentAmount),
				appliedColumn(row.IsApplied),
				row.RunningBalance,
			)
		}
		writeWarnings(w, response.Warnings)
	})
}
