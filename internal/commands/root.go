package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/balkashynov/punch/internal/admin"
	"github.com/balkashynov/punch/internal/api"
	"github.com/balkashynov/punch/internal/config"
	"github.com/balkashynov/punch/internal/db"
	"github.com/balkashynov/punch/internal/tracker"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "punch",
	Short: "A CLI attendance and time tracker",
	Long: `punch records work sessions against a shared spreadsheet store.
Start and stop sessions, add missed ones for approval, get check-in reminders
and, as an admin, approve pending entries from the terminal.`,
}

// app is everything a command needs, wired from configuration
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	records *api.Client
	aux     *api.Client
	tracker *tracker.Tracker

	logCloser io.Closer
}

// newApp loads configuration, opens local storage and restores tracker state
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, closer, err := config.NewLogger(cfg.App)
	if err != nil {
		return nil, err
	}
	if err := db.Initialize(cfg.App.DBPath); err != nil {
		closer.Close()
		return nil, err
	}

	records := api.NewClient(cfg.API.URL, logger.With("store", "records"))
	aux := api.NewClient(cfg.API.AuthURL, logger.With("store", "aux"))
	tr := tracker.New(tracker.Config{
		Storage: db.NewKV(),
		Records: records,
		Pending: aux,
		Auth:    aux,
		Logger:  logger,
	})
	if err := tr.Load(); err != nil {
		db.Close()
		closer.Close()
		return nil, fmt.Errorf("failed to restore state: %w", err)
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		records:   records,
		aux:       aux,
		tracker:   tr,
		logCloser: closer,
	}, nil
}

// close waits for background sync to finish, then releases storage
func (a *app) close() {
	a.tracker.Wait()
	if err := db.Close(); err != nil {
		a.logger.Warn("failed to close database", "error", err)
	}
	a.logCloser.Close()
}

func (a *app) pipeline() *admin.Pipeline {
	return admin.NewPipeline(a.records, a.aux, a.logger)
}

func (a *app) users() *admin.Users {
	return admin.NewUsers(a.aux, a.logger)
}

// requireLogin fails unless someone is logged in on this machine
func (a *app) requireLogin() error {
	if !a.tracker.Identity().LoggedIn() {
		return errors.New("not logged in, run 'punch login' first")
	}
	return nil
}

// requireAdmin fails unless the logged-in user is an admin
func (a *app) requireAdmin() error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if !a.tracker.Identity().IsAdmin() {
		return errors.New("admin role required")
	}
	return nil
}

// withApp wraps a command function to wire the app first and report its error
func withApp(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer a.close()

		if err := fn(cmd, args, a); err != nil {
			reportError(err)
		}
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command; Ctrl-C cancels in-flight requests
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("punch %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(totalCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(guideCmd)
	rootCmd.AddCommand(versionCmd)
}
