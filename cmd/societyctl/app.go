package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/societyhub/backend/internal/assets"
	"github.com/societyhub/backend/internal/backend"
	"github.com/societyhub/backend/internal/config"
	"github.com/societyhub/backend/internal/identity"
	"github.com/societyhub/backend/internal/logging"
	"github.com/societyhub/backend/internal/workflow"
	"github.com/spf13/cobra"
)

// app holds what every command shares. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	cfg      *config.Config
	client   *backend.Client
	identity *identity.TokenProvider
	notes    *workflow.Recorder
	deps     workflow.Deps
	out      io.Writer
	errOut   io.Writer
	now      func() time.Time
}

func newRootCmd() *cobra.Command {
	a := &app{now: time.Now}
	var backendURL, logLevel string

	root := &cobra.Command{
		Use:           "societyctl",
		Short:         "Work with society notices, polls, complaints, blogs and documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd, backendURL, logLevel)
		},
	}
	root.PersistentFlags().StringVar(&backendURL, "backend", "", "backend base URL including /api (default $BACKEND_URL)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level written to stderr")

	root.AddCommand(
		newLoginCmd(a),
		newSetupCmd(a),
		newNoticesCmd(a),
		newPollsCmd(a),
		newComplaintsCmd(a),
		newBlogsCmd(a),
		newDocumentsCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, backendURL, logLevel string) error {
	logging.SetupWriter(cmd.ErrOrStderr(), logLevel)

	a.cfg = config.Load()
	if backendURL != "" {
		a.cfg.BackendURL = backendURL
	}
	a.out = cmd.OutOrStdout()
	a.errOut = cmd.ErrOrStderr()

	source := identity.FileToken(a.cfg.TokenFile)
	if os.Getenv("SOCIETYHUB_TOKEN") != "" {
		source = identity.EnvToken("SOCIETYHUB_TOKEN")
	}
	a.identity = identity.NewTokenProvider(source)
	a.client = backend.New(a.cfg.BackendURL, source, a.cfg.HTTPTimeout)
	a.notes = &workflow.Recorder{}
	a.deps = workflow.Deps{Identity: a.identity, Notifier: a.notes}
	if a.cfg.CloudinaryCloud != "" {
		a.deps.Uploader = assets.NewCloudinaryUploader(
			a.cfg.CloudinaryBaseURL, a.cfg.CloudinaryCloud, a.cfg.CloudinaryPreset, a.cfg.HTTPTimeout*4,
		)
	}
	return nil
}

// run adapts fn to cobra and prints the notifications it produced. An error
// already shown as a failure notification is not printed twice.
func (a *app) run(fn func(ctx context.Context, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd.Context(), args)

		shown := false
		for _, n := range a.notes.Drain() {
			if n.OK {
				fmt.Fprintln(a.out, n.Message)
				continue
			}
			fmt.Fprintln(a.errOut, "error:", n.Message)
			if err != nil && n.Message == message(err) {
				shown = true
			}
		}
		if err != nil && !shown {
			fmt.Fprintln(a.errOut, "error:", message(err))
		}
		return err
	}
}

func message(err error) string {
	var we *workflow.Error
	if errors.As(err, &we) {
		return we.Message
	}
	if msg := backend.ServerMessage(err); msg != "" {
		return msg
	}
	return err.Error()
}

func (a *app) saveToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(a.cfg.TokenFile), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	return os.WriteFile(a.cfg.TokenFile, []byte(token+"\n"), 0o600)
}

func (a *app) ago(t time.Time) string {
	return workflow.RelativeTime(t, a.now())
}

// readFiles loads the files named on the command line for upload.
func readFiles(paths []string) ([]assets.File, error) {
	files := make([]assets.File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		files = append(files, assets.File{Name: filepath.Base(p), Data: data})
	}
	return files, nil
}
