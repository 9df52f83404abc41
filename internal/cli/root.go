// Package cli is the zoe command tree. Bare `zoe` launches the dashboard TUI;
// subcommands are scriptable against the same backend and local state.
package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"zoe/internal/api"
	"zoe/internal/config"
	"zoe/internal/dash"
	"zoe/internal/localstore"
	"zoe/internal/logging"
	"zoe/internal/push"
	"zoe/internal/session"
	"zoe/internal/widget"
	"zoe/internal/widgets"
)

type App struct {
	BackendURL string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "zoe",
		Short:        "Zoe home dashboard TUI + CLI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the dashboard
  zoe

  # Scriptable commands
  zoe lists show shopping
  zoe lists add shopping "oat milk"
  zoe widgets list
  zoe session status
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive dashboard.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runDashboard(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.BackendURL, "backend", envOr("ZOE_BACKEND", ""), "Backend base URL (overrides config)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newWidgetsCmd(app))
	cmd.AddCommand(newListsCmd(app))
	cmd.AddCommand(newSessionCmd(app))
	cmd.AddCommand(newSkillsCmd(app))
	cmd.AddCommand(newWebCmd(app))

	return cmd
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// runtime bundles everything a command needs to talk to the backend and the
// local store. close releases the store and push channel.
type runtime struct {
	cfg     *config.Config
	log     *zap.Logger
	local   *localstore.Store
	session *session.Provider
	client  *api.Client
	push    *push.Subscriber
	lists   *push.Subscriber

	close func()
}

// newRuntime wires the shared collaborators. startPush is false for one-shot
// commands that have no use for a live channel.
func newRuntime(app *App, startPush bool) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(app.BackendURL) != "" {
		cfg.BackendURL = strings.TrimSpace(app.BackendURL)
	}

	log := logging.New(cfg.LogFile, cfg.LogLevel)

	// Local store is best-effort: commands still work without it, they just
	// lose the session and the archives.
	var local *localstore.Store
	if path, err := config.LocalStorePath(); err == nil {
		local, _ = localstore.Open(path)
	}

	sess := session.New(local)
	client := api.NewClient(cfg.BackendURL, sess)

	// The backend speaks two sockets: device-level envelopes (media state,
	// announcements) on /ws/device, list change envelopes on /api/lists/ws.
	var sub, lists *push.Subscriber
	if startPush {
		sub = push.NewSubscriber(push.WSEndpoint(cfg.BackendURL, "/ws/device"))
		sub.Start(context.Background())
		lists = push.NewSubscriber(push.WSEndpoint(cfg.BackendURL, "/api/lists/ws"))
		lists.Start(context.Background())
	}

	rt := &runtime{
		cfg:     cfg,
		log:     log,
		local:   local,
		session: sess,
		client:  client,
		push:    sub,
		lists:   lists,
	}
	rt.close = func() {
		if lists != nil {
			lists.Close()
		}
		if sub != nil {
			sub.Close()
		}
		if local != nil {
			_ = local.Close()
		}
		_ = log.Sync()
	}
	return rt, nil
}

func (rt *runtime) deps() widgets.Deps {
	return widgets.Deps{
		API:     rt.client,
		Session: rt.session,
		Local:   rt.local,
		Push:    rt.push,
		Lists:   rt.lists,
		Config:  rt.cfg,
		Log:     rt.log,
	}
}

func runDashboard(app *App) error {
	rt, err := newRuntime(app, true)
	if err != nil {
		return err
	}
	defer rt.close()

	reg := widget.NewRegistry()
	widgets.RegisterAll(reg, rt.deps())
	return dash.Run(rt.cfg, reg, rt.deps())
}
