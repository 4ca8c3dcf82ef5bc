package main

import (
	"encoding/json"
	"fmt"

	"github.com/okian/rolematch/internal/domain/options"
	"github.com/spf13/cobra"
)

func newOptionsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the predefined candidate choices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all := options.All()
			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(all)
			}
			sections := []struct {
				title string
				items []string
			}{
				{"Course & University", all.CourseUniversities},
				{"Languages", all.Languages},
				{"Skills", all.Skills},
				{"Previous Internship", all.Internships},
			}
			for i, s := range sections {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s:\n", s.title)
				for _, item := range s.items {
					fmt.Fprintf(out, "  %s\n", item)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
