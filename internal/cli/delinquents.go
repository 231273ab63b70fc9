package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/application/usecase/delinquency"
	"github.com/condo-portal/ledger/internal/integration/entrypoint/dto"
)

func init() {
	rootCmd.AddCommand(delinquentsCmd)
	rootCmd.AddCommand(notifyCmd)
}

var delinquentsCmd = &cobra.Command{
	Use:   "delinquents COMMUNITY_ID",
	Short: "List the delinquent residents of a community",
	Long: `List every active resident whose balance reaches the delinquency threshold
of two months of maintenance, highest balance first.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelinquents,
}

var notifyCmd = &cobra.Command{
	Use:   "notify COMMUNITY_ID",
	Short: "Queue delinquency notices for a community",
	Long: `Queue one email notice per delinquent resident. Notices are delivered by
the API server's email worker.`,
	Args: cobra.ExactArgs(1),
	RunE: runNotify,
}

func delinquentsInput(communityID string) (delinquency.ListDelinquentsInput, error) {
	asOf, err := parseAsOfFlag()
	if err != nil {
		return delinquency.ListDelinquentsInput{}, err
	}
	return delinquency.ListDelinquentsInput{
		CommunityID: communityID,
		AsOf:        asOf,
		Scope:       adapter.CommunityScope{},
		SkipCache:   true,
	}, nil
}

func runDelinquents(cmd *cobra.Command, args []string) error {
	input, err := delinquentsInput(args[0])
	if err != nil {
		return err
	}

	useCases, closeFn, err := openUseCases()
	if err != nil {
		return err
	}
	defer closeFn()

	output, err := useCases.ListDelinquents.Execute(cmd.Context(), input)
	if err != nil {
		return err
	}

	response := dto.ToDelinquencyReportResponse(output)
	return render(cmd.OutOrStdout(), outputFormat, response, func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "Comunidad:\t%s\n", response.CommunityID)
		fmt.Fprintf(w, "Fecha de corte:\t%s\n", response.AsOf)
		fmt.Fprintf(w, "Umbral:\t%s\n\n", response.Threshold)

		fmt.Fprintln(w, "RESIDENTE\tNOMBRE\tUNIDAD\tCARGOS\tPAGOS\tSALDO")
		for _, d := range response.Delinquents {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", d.ResidentID, d.Name, d.Unit, d.TotalCharges, d.TotalPayments, d.Balance)
		}
		writeWarnings(w, response.Warnings)
	})
}

func runNotify(cmd *cobra.Command, args []string) error {
	input, err := delinquentsInput(args[0])
	if err != nil {
		return err
	}

	useCases, closeFn, err := openUseCases()
	if err != nil {
		return err
	}
	defer closeFn()

	output, err := useCases.NotifyDelinquents.Execute(cmd.Context(), input)
	if err != nil {
		return err
	}

	response := dto.ToNotifyDelinquentsResponse(output)
	return render(cmd.OutOrStdout(), outputFormat, response, func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "Morosos:\t%d\n", response.Delinquents)
		fmt.Fprintf(w, "Avisos en cola:\t%d\n", response.Queued)
		for _, id := range response.Skipped {
			fmt.Fprintf(w, "Sin correo:\t%s\n", id)
		}
		for _, id := range response.Failed {
			fmt.Fprintf(w, "Fallido:\t%s\n", id)
		}
	})
}
