// Package cli implements the kepler command line.
package cli

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/kepler/internal/app"
	"github.com/terraincognita07/kepler/internal/config"
	"github.com/terraincognita07/kepler/internal/i18n"
	"github.com/terraincognita07/kepler/internal/remote"
	"github.com/terraincognita07/kepler/internal/services"
)

// session carries what PersistentPreRunE resolved for the subcommands.
type session struct {
	configPath string
	language   string

	cfg       *config.Config
	logger    *slog.Logger
	localizer i18n.Localizer
	now       func() time.Time
}

func NewRootCommand() *cobra.Command {
	return newRootCommand(time.Now)
}

func newRootCommand(now func() time.Time) *cobra.Command {
	state := &session{now: now}

	cmd := &cobra.Command{
		Use:          "kepler",
		Short:        "Daily pet-care journal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return state.init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&state.configPath, "config", "c", "", "Path to a YAML config file (default: $CONFIG_PATH or ./kepler.yaml)")
	cmd.PersistentFlags().StringVar(&state.language, "lang", "", "Output language: en or ru (default: journal.language)")

	cmd.AddCommand(
		newServeCommand(state),
		newSignupCommand(state),
		newLoginCommand(state),
		newChangePasswordCommand(state),
		newResetPasswordCommand(state),
		newLogCommand(state),
		newTrendsCommand(state),
		newRouteCommand(state),
		newExportCommand(state),
	)
	return cmd
}

func (state *session) init() error {
	cfg, err := config.Load(state.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	language := strings.TrimSpace(state.language)
	if language == "" {
		language = cfg.Journal.Language
	}
	manager, err := i18n.NewEmbeddedManager(i18n.LangEN)
	if err != nil {
		return err
	}

	state.cfg = cfg
	state.logger = app.NewLogger(cfg.Log)
	state.localizer = manager.Localizer(language)
	return nil
}

func (state *session) remoteClient() (*remote.Client, error) {
	return remote.NewClient(
		state.cfg.Journal.RemoteURL,
		remote.WithToken(state.cfg.Journal.Token),
		remote.WithTimeout(state.cfg.Journal.Timeout),
	)
}

// loadJournal pulls the stored log into a read-only journal session.
func (state *session) loadJournal(cmd *cobra.Command) (*services.Journal, error) {
	client, err := state.remoteClient()
	if err != nil {
		return nil, err
	}

	journal := services.NewJournal(services.JournalOptions{
		Location: state.cfg.Location(),
		Clock:    state.now,
		Logger:   state.logger,
	})
	if err := journal.Load(cmd.Context(), client); err != nil {
		return nil, err
	}
	return journal, nil
}
