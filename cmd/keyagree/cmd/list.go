package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmcleod/keyagree/key"
)

var (
	listController string
	listJSON       bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the keys stored for a controller",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listController == "" {
			return fmt.Errorf("--controller is required")
		}

		repo, err := openKeyring()
		if err != nil {
			return err
		}
		defer repo.Close()

		records, err := repo.List(listController)
		if err != nil {
			return err
		}

		out := make([]keyOutput, 0, len(records))
		for _, rec := range records {
			kp, err := key.FromRecord(rec)
			if err != nil {
				return err
			}
			rec.PrivateKeyBase58 = ""
			out = append(out, keyOutput{Fingerprint: kp.Fingerprint(), Key: rec})
		}

		if listJSON {
			return writeJSON(cmd.OutOrStdout(), out)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "FINGERPRINT\tID\tREVOKED")
		for _, o := range out {
			revoked := o.Key.Revoked
			if revoked == "" {
				revoked = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", o.Fingerprint, o.Key.ID, revoked)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listController, "controller", "", "Controller whose keys to list")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
}
