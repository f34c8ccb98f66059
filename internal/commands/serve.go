package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	appLog "dayplan/internal/log"
	"dayplan/internal/planner"
	"dayplan/internal/web"
)

func addServe(topLevel *cobra.Command, o *rootOptions) {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and run the scheduled jobs",
		Example: `
dayplan serve --listen 0.0.0.0:8080
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(e *env) error {
				appLog.Info("dayplan starting", "version", version)

				// --listen overrides the config file if provided.
				if listen != "" {
					e.cfg.Listen = listen
				}
				appLog.Info("effective config",
					"listen", e.cfg.Listen,
					"timezone", e.cfg.Timezone,
					"store", e.cfg.Store.Driver,
					"default_user", e.cfg.DefaultUser,
					"holiday_feeds", len(e.cfg.Holidays),
					"compact_cron", e.cfg.CompactCron,
				)

				ctx, cancel := context.WithCancel(cmd.Context())
				defer cancel()

				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				defer signal.Stop(sigCh)
				go func() {
					select {
					case sig := <-sigCh:
						appLog.Info("signal received, shutting down", "signal", sig.String())
						cancel()
					case <-ctx.Done():
					}
				}()

				sched, err := planner.NewScheduler(e.svc)
				if err != nil {
					return err
				}
				sched.Start()
				defer sched.Stop()
				appLog.Info("scheduler started", "jobs", sched.Jobs())

				err = web.NewServer(e.svc).ListenAndServe(ctx, e.cfg.Listen)
				appLog.Info("dayplan exiting")
				return err
			})
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config if set)")

	topLevel.AddCommand(cmd)
}
