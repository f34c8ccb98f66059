// Package commands builds the dayplan command line.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"dayplan/internal/config"
	appLog "dayplan/internal/log"
	"dayplan/internal/planner"
	"dayplan/internal/printer"
	"dayplan/internal/store"
)

const version = "0.1.0"

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
	user       string
	logLevel   string
}

// env is what a command needs once config and store are open.
type env struct {
	cfg   *config.Config
	store store.Store
	svc   *planner.Service
	out   *printer.Printer
}

func New() *cobra.Command {
	o := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "dayplan",
		Short:         "Plan your day against what actually happened.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&o.configPath, "config", "./dayplan.yaml", "Path to config file")
	cmd.PersistentFlags().StringVar(&o.user, "user", "", "User to act on (default from config)")
	cmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "Log level (overrides config if set)")

	addServe(cmd, o)
	addDay(cmd, o)
	addCalendar(cmd, o)
	addDashboard(cmd, o)
	addFeed(cmd, o)
	addRoutine(cmd, o)
	addOccurrence(cmd, o)
	addCompact(cmd, o)
	addHolidays(cmd, o)
	addVersion(cmd)
	return cmd
}

// open loads the config and opens the configured store. The caller closes
// the returned env.
func (o *rootOptions) open(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", o.configPath)
		return nil, err
	}
	level := cfg.LogLevel
	if o.logLevel != "" {
		level = o.logLevel
	}
	appLog.SetLevel(appLog.ParseLevel(level))

	st, err := store.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	return &env{
		cfg:   cfg,
		store: st,
		svc:   planner.New(planner.Options{Store: st, Config: cfg}),
		out:   printer.New(cmd.OutOrStdout(), cfg.WeekStart),
	}, nil
}

func (e *env) Close() error { return e.store.Close() }

// run opens the env, calls fn and closes the env again.
func (o *rootOptions) run(cmd *cobra.Command, fn func(e *env) error) error {
	e, err := o.open(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e)
}

func addVersion(topLevel *cobra.Command) {
	topLevel.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "dayplan "+version)
		},
	})
}
