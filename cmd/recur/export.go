package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/recur/internal/export"
	"github.com/MrJamesThe3rd/recur/internal/item"
)

func exportCmd(root *rootOptions) *cobra.Command {
	var (
		formatFlag string
		output     string
		category   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tracked items as CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := export.ParseFormat(formatFlag)
			if err != nil {
				return err
			}

			if output == "" {
				output = format.Filename(time.Now())
			}

			filter := item.ListFilter{}
			if category != "" {
				filter.Category = &category
			}

			a, err := openApp(cmd.Context(), root.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := export.NewService(a.items).Items(cmd.Context(), filter, format, f); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", output)

			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "csv", "output format (csv, xlsx)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: recurring_YYYYMMDD.<format>)")
	cmd.Flags().StringVar(&category, "category", "", "only export this category")

	return cmd
}
