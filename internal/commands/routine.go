package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dayplan/internal/model"
)

var weekdays = map[string]int{
	"su": 0, "mo": 1, "tu": 2, "we": 3, "th": 4, "fr": 5, "sa": 6,
}

// parseDays reads "mo,we,fr" into weekday numbers, Sunday being 0.
func parseDays(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		key := strings.ToLower(strings.TrimSpace(part))
		if len(key) > 2 {
			key = key[:2]
		}
		d, ok := weekdays[key]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
		out = append(out, d)
	}
	return out, nil
}

func addRoutine(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:     "routine",
		Aliases: []string{"routines"},
		Short:   "Manage recurring routines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	addRoutineAdd(cmd, o)
	addRoutineList(cmd, o)
	addRoutineRemove(cmd, o)
	topLevel.AddCommand(cmd)
}

func addRoutineAdd(parent *cobra.Command, o *rootOptions) {
	var (
		r    model.Routine
		days string
	)
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a routine",
		Example: `
dayplan routine add Morning run --start 07:00 --end 08:00 --cycle weekday
dayplan routine add Gym --cycle custom --days mo,we,fr --category Health
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if r.Days, err = parseDays(days); err != nil {
				return err
			}
			r.Title = strings.Join(args, " ")
			return o.run(cmd, func(e *env) error {
				out, err := e.svc.AddRoutine(cmd.Context(), o.user, r)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added routine %s\n", out.ID)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&r.Start, "start", "", "Start time HH:MM")
	f.StringVar(&r.End, "end", "", "End time HH:MM")
	f.StringVar((*string)(&r.Cycle), "cycle", "", "daily, weekday, weekend or custom")
	f.StringVar(&days, "days", "", "Weekdays of a custom cycle, e.g. mo,we,fr")
	f.StringVar((*string)(&r.Category), "category", "", "Category of the generated slots")
	f.StringVar(&r.StartDate, "from", "", "First date YYYY-MM-DD (default today)")
	f.StringVar(&r.EndDate, "until", "", "Last date YYYY-MM-DD")
	f.StringVar(&r.GoalID, "goal", "", "Goal the routine contributes to")
	parent.AddCommand(cmd)
}

func addRoutineList(parent *cobra.Command, o *rootOptions) {
	vo := &viewOptions{}
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List routines",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(e *env) error {
				rs, err := e.svc.Routines(cmd.Context(), o.user)
				if err != nil {
					return err
				}
				if vo.json {
					return writeJSON(cmd, rs)
				}
				e.out.Routines(rs)
				return nil
			})
		},
	}
	vo.addFlags(cmd)
	parent.AddCommand(cmd)
}

func addRoutineRemove(parent *cobra.Command, o *rootOptions) {
	parent.AddCommand(&cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a routine and every future occurrence",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(e *env) error {
				return e.svc.DeleteRoutine(cmd.Context(), o.user, args[0])
			})
		},
	})
}

func addOccurrence(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:   "occurrence",
		Short: "Act on a single routine occurrence",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <routine-id> <YYYY-MM-DD>",
		Short: "Hide one occurrence of a routine",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(e *env) error {
				return e.svc.DeleteOccurrence(cmd.Context(), o.user, args[0], args[1])
			})
		},
	})
	topLevel.AddCommand(cmd)
}
