package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	appLog "dayplan/internal/log"
)

func addCompact(topLevel *cobra.Command, o *rootOptions) {
	topLevel.AddCommand(&cobra.Command{
		Use:   "compact",
		Short: "Drop deletion markers that can no longer hide an occurrence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(e *env) error {
				n, err := e.svc.Compact(cmd.Context())
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d markers\n", n)
				return err
			})
		},
	})
}

func addHolidays(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Read the configured holiday calendars",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	vo := &viewOptions{}
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List upcoming holidays",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(e *env) error {
				hs, err := e.svc.Holidays(cmd.Context())
				if err != nil {
					// Whatever the healthy feeds produced is still shown.
					appLog.Warn("some holiday feeds failed", "error", err.Error())
				}
				if vo.json {
					return writeJSON(cmd, hs)
				}
				e.out.Holidays(hs)
				return nil
			})
		},
	}
	vo.addFlags(list)

	sync := &cobra.Command{
		Use:   "sync",
		Short: "Mark upcoming holidays on every user's calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(e *env) error {
				n, err := e.svc.SyncHolidays(cmd.Context())
				fmt.Fprintf(cmd.OutOrStdout(), "marked %d days\n", n)
				return err
			})
		},
	}

	cmd.AddCommand(list, sync)
	topLevel.AddCommand(cmd)
}
