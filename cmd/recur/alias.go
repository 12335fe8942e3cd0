package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func aliasCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alias",
		Short: "Manage the names statement descriptions are renamed to",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List learned aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), root.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			aliases, err := a.alias.List(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tPATTERN\tNAME")

			for _, al := range aliases {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", al.ID, al.Pattern, al.Name)
			}

			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <pattern> <name>",
		Short: "Rename descriptions containing pattern to name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), root.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.alias.Learn(cmd.Context(), args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Forget an alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid alias id: %w", err)
			}

			a, err := openApp(cmd.Context(), root.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.alias.Delete(cmd.Context(), id)
		},
	})

	return cmd
}
