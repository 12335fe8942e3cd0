package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/recur/internal/billing"
	"github.com/MrJamesThe3rd/recur/internal/item"
	"github.com/MrJamesThe3rd/recur/internal/schedule"
)

func calendarCmd(root *rootOptions) *cobra.Command {
	var (
		from        string
		months      int
		forwardOnly bool
	)

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show when tracked and planned charges are due",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start := billing.MonthOf(time.Now())
			if from != "" {
				m, err := billing.ParseMonth(from)
				if err != nil {
					return err
				}

				start = m
			}

			if months < 1 || months > 24 {
				return fmt.Errorf("months must be between 1 and 24")
			}

			a, err := openApp(cmd.Context(), root.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			views, err := a.items.Calendar(cmd.Context(), item.CalendarParams{
				From:        start,
				Months:      months,
				ForwardOnly: forwardOnly,
			})
			if err != nil {
				return err
			}

			for _, v := range views {
				printMonth(cmd.OutOrStdout(), v)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first month as YYYY-MM (default: current month)")
	cmd.Flags().IntVarP(&months, "months", "n", 3, "number of months to show (1-24)")
	cmd.Flags().BoolVar(&forwardOnly, "forward-only", false, "skip months before the current one")

	return cmd
}

func printMonth(w io.Writer, v schedule.MonthView) {
	if v.Excluded {
		return
	}

	fmt.Fprintf(w, "\n%s\n", v.Month.First().Format("January 2006"))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for _, e := range v.Entries {
		day := fmt.Sprintf("%2d", e.DisplayDay)
		if e.DisplayDay != e.Day {
			day += fmt.Sprintf(" (from %d)", e.Day)
		}

		kind := string(e.Frequency)
		if e.Planned {
			kind = "planned"
		}

		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", day, e.Name, e.Amount.StringFixed(2), kind)
	}

	tw.Flush()

	for _, p := range v.Paused {
		fmt.Fprintf(w, "  paused: %s\n", p.Name)
	}

	fmt.Fprintf(w, "  total: %s\n", v.Total.StringFixed(2))
}
