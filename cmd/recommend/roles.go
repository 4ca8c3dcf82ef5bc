package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRolesCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "List catalog roles by number of postings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, err := root.startService(cmd)
			if err != nil {
				return err
			}
			defer svc.Stop()

			roles, err := svc.Roles(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ROLE\tPOSTINGS")
			for _, r := range roles {
				fmt.Fprintf(tw, "%s\t%d\n", r.Role, r.Count)
			}
			return tw.Flush()
		},
	}
}
