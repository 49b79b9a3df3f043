package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pmwatch/internal/application/usecase/monitor"
)

func InspectCmd(opts *options) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "inspect <wallet_address>",
		Short: "Compare stored activity with what the API returns now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			infra, app, err := opts.open()
			if err != nil {
				return err
			}
			defer infra.Close()

			loc, err := infra.Config().Location()
			if err != nil {
				return err
			}
			f := monitor.NewFormatter(loc, infra.Config().Display.Plain)

			in, err := app.HistoryService().Inspect(cmd.Context(), args[0], n)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wallet: %s\n", in.Wallet)
			fmt.Fprintf(out, "Stored activities: %d\n", in.Stored)
			if in.Watermark == nil {
				fmt.Fprintln(out, "Watermark: none (next check stores without reporting)")
			} else {
				fmt.Fprintf(out, "Watermark: %s\n", f.Summary(in.Watermark))
				fmt.Fprintf(out, "Watermark on source page: %t\n", in.WatermarkOnPage)
			}

			fmt.Fprintf(out, "\nNewest stored (%d):\n", len(in.Local))
			for i := range in.Local {
				fmt.Fprintf(out, "  %s\n", f.Summary(&in.Local[i]))
			}

			fmt.Fprintf(out, "\nNewest from source (%d):\n", len(in.Remote))
			if in.RemoteErr != nil {
				fmt.Fprintf(out, "  fetch failed: %v\n", in.RemoteErr)
			}
			for i := range in.Remote {
				fmt.Fprintf(out, "  %s\n", f.Summary(&in.Remote[i]))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "n", 5, "number of records to show from each side")
	return cmd
}
