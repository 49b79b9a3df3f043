package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pmwatch/internal/application/service"
	"pmwatch/internal/application/usecase/monitor"
)

// ForgetCmd deletes the newest stored records so the next check reports them again.
func ForgetCmd(opts *options) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "forget <wallet_address>",
		Short: "Delete the newest stored activities for a wallet",
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

			removed, err := app.HistoryService().Forget(cmd.Context(), args[0], n)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Removed %d activities:\n", len(removed))
			for i := range removed {
				fmt.Fprintf(out, "  %s\n", f.Summary(&removed[i]))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "n", 0, fmt.Sprintf("number of newest records to delete (1..%d)", service.MaxHistory))
	_ = cmd.MarkFlagRequired("n")
	return cmd
}
