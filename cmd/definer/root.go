package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/syssam/definer"
	"github.com/syssam/definer/dialect"
	"github.com/syssam/definer/dialect/sql"
	"github.com/syssam/definer/internal/config"
	"github.com/syssam/definer/privacy"
)

// app holds the state shared by the subcommands.
type app struct {
	cfgFile string
	format  string
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "definer",
		Short:         "Run parameterized SQL statements",
		Long:          "definer builds and runs parameterized SELECT, INSERT, UPDATE and DELETE statements against MySQL, PostgreSQL or SQLite.",
		Version:       fmt.Sprintf("%s (commit: %s)", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts := []config.Option{config.WithFlags(cmd.Flags())}
			if a.cfgFile != "" {
				opts = append(opts, config.WithFile(a.cfgFile))
			}
			cfg, err := config.Load(opts...)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := checkFormat(a.format); err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&a.cfgFile, "config", "", "config file (default .definer.yaml in the working or home directory)")
	f.String("dialect", "", "database dialect: mysql, postgres or sqlite")
	f.String("host", "", "database host, optionally with port")
	f.Int("port", 0, "database port")
	f.String("user", "", "database user")
	f.String("password", "", "database password")
	f.String("database", "", "database name, or file for sqlite")
	f.String("dsn", "", "data source name, overrides the discrete settings")
	f.Duration("slow-threshold", 0, "log statements slower than this duration")
	f.Bool("debug", false, "log every statement")
	f.StringVarP(&a.format, "format", "o", formatTable, "output format: table, json, yaml or msgpack")

	cmd.AddCommand(
		newSelectCmd(a),
		newExistsCmd(a),
		newInsertCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newExecCmd(a),
	)
	return cmd
}

// session is one opened connection.
type session struct {
	*definer.Definer
	stats  *sql.StatsDriver
	logger *slog.Logger
	drv    *sql.Driver
}

// open connects to the configured database. Unfiltered updates and deletes
// are refused unless the context carries an allow decision.
func (a *app) open(cmd *cobra.Command) (*session, error) {
	level := slog.LevelInfo
	if a.cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	dsn, err := a.cfg.DataSource()
	if err != nil {
		return nil, err
	}
	drv, err := sql.Open(a.cfg.Dialect, dsn)
	if err != nil {
		return nil, err
	}
	stats := sql.NewStatsDriver(drv,
		sql.WithSlowThreshold(a.cfg.SlowThreshold),
		sql.WithSlowQueryLog(logger),
	)
	var exec dialect.Driver = stats
	if a.cfg.Debug {
		exec = sql.NewDebugDriver(stats, logger)
	}
	d := definer.New(exec,
		definer.WithLogger(logger),
		definer.WithPolicy(privacy.Policy{
			privacy.DenyUnfilteredUpdate(),
			privacy.DenyUnfilteredDelete(),
		}),
	)
	return &session{Definer: d, stats: stats, logger: logger, drv: drv}, nil
}

func (s *session) close(ctx context.Context) error {
	s.logger.DebugContext(ctx, "statement stats", "summary", s.stats.QueryStats().Stats().String())
	return s.drv.Close()
}

// run opens a session, calls fn and closes the session.
func (a *app) run(cmd *cobra.Command, fn func(context.Context, *session) (any, error)) (rerr error) {
	s, err := a.open(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer func() {
		if err := s.close(ctx); err != nil && rerr == nil {
			rerr = err
		}
	}()
	out, err := fn(ctx, s)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), a.format, out)
}
