package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// viewOptions select how a view is written.
type viewOptions struct {
	json bool
}

func (v *viewOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&v.json, "json", false, "Write JSON instead of the pretty view")
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func addDay(topLevel *cobra.Command, o *rootOptions) {
	vo := &viewOptions{}
	cmd := &cobra.Command{
		Use:   "day [YYYY-MM-DD]",
		Short: "Show the plan and actual columns of a day",
		Example: `
dayplan day
dayplan day 2024-06-10 --json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(e *env) error {
				v, err := e.svc.Day(cmd.Context(), o.user, firstArg(args))
				if err != nil {
					return err
				}
				if vo.json {
					return writeJSON(cmd, v)
				}
				e.out.Day(v)
				return nil
			})
		},
	}
	vo.addFlags(cmd)
	topLevel.AddCommand(cmd)
}

func addCalendar(topLevel *cobra.Command, o *rootOptions) {
	vo := &viewOptions{}
	cmd := &cobra.Command{
		Use:     "calendar [YYYY-MM]",
		Aliases: []string{"cal"},
		Short:   "Show the month grid",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(e *env) error {
				m, err := e.svc.Calendar(cmd.Context(), o.user, firstArg(args))
				if err != nil {
					return err
				}
				if vo.json {
					return writeJSON(cmd, m)
				}
				e.out.Month(m)
				return nil
			})
		},
	}
	vo.addFlags(cmd)
	topLevel.AddCommand(cmd)
}

func addDashboard(topLevel *cobra.Command, o *rootOptions) {
	vo := &viewOptions{}
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show recorded time per category and goal progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(e *env) error {
				d, err := e.svc.Dashboard(cmd.Context(), o.user)
				if err != nil {
					return err
				}
				if vo.json {
					return writeJSON(cmd, d)
				}
				e.out.Dashboard(d)
				return nil
			})
		},
	}
	vo.addFlags(cmd)
	topLevel.AddCommand(cmd)
}

func addFeed(topLevel *cobra.Command, o *rootOptions) {
	var (
		actual bool
		out    string
	)
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Export the plan as an iCalendar feed",
		Example: `
dayplan feed --out plan.ics
dayplan feed --actual
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(e *env) error {
				body, err := e.svc.Feed(cmd.Context(), o.user, actual)
				if err != nil {
					return err
				}
				if out == "" {
					_, err = fmt.Fprint(cmd.OutOrStdout(), body)
					return err
				}
				return os.WriteFile(out, []byte(body), 0o644)
			})
		},
	}
	cmd.Flags().BoolVar(&actual, "actual", false, "Include actual slots")
	cmd.Flags().StringVar(&out, "out", "", "Write to a file instead of stdout")
	topLevel.AddCommand(cmd)
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
