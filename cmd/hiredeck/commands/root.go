// Package commands wires config, keystore, session and the API services into
// the hiredeck CLI.
package commands

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hiredeck/hiredeck-go/applications"
	"github.com/hiredeck/hiredeck-go/chats"
	"github.com/hiredeck/hiredeck-go/httpx"
	"github.com/hiredeck/hiredeck-go/internal/config"
	"github.com/hiredeck/hiredeck-go/jobs"
	"github.com/hiredeck/hiredeck-go/profiles"
	"github.com/hiredeck/hiredeck-go/session"
	"github.com/hiredeck/hiredeck-go/session/keystore"
)

type app struct {
	cfg          config.Config
	manager      *session.Manager
	jobs         *jobs.Service
	applications *applications.Service
	chats        *chats.Service
	profiles     *profiles.Service
}

// Execute builds the command tree and runs it.
func Execute(cfg config.Config) error {
	a := &app{cfg: cfg}

	root := &cobra.Command{
		Use:           "hiredeck",
		Short:         "HireDeck job marketplace client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Context())
		},
	}

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.jobsCmd(),
		a.applicationsCmd(),
		a.chatsCmd(),
		a.profilesCmd(),
	)
	return root.Execute()
}

func (a *app) init(_ context.Context) error {
	store, err := keystore.NewFileStore(a.cfg.GetKeystorePath(), []byte(a.cfg.GetKeystorePassphrase()))
	if err != nil {
		return errors.Wrap(err, "[commands.init] open keystore")
	}

	authAPI := httpx.New(a.cfg.GetBaseURL(),
		httpx.WithTimeout(a.cfg.GetRequestTimeout()),
		httpx.WithLogger(log.Logger),
	)
	manager, err := session.New(authAPI, store, session.WithLogger(log.Logger))
	if err != nil {
		return errors.Wrap(err, "[commands.init] session")
	}
	a.manager = manager

	api := httpx.New(a.cfg.GetBaseURL(),
		httpx.WithTimeout(a.cfg.GetRequestTimeout()),
		httpx.WithLogger(log.Logger),
		httpx.WithTransport(manager.Transport(nil)),
	)
	a.jobs = jobs.New(api)
	a.applications = applications.New(api)
	a.chats = chats.New(api)
	a.profiles = profiles.New(api)
	return nil
}

// requireSession restores the persisted session and fails fast when there is
// none. Nothing renders before Bootstrap resolves.
func (a *app) requireSession(ctx context.Context) error {
	state := a.manager.Bootstrap(ctx)
	if !state.Authenticated() {
		return errors.New("not logged in, run `hiredeck login` first")
	}
	return nil
}
