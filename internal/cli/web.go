package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"zoe/internal/web"
	"zoe/internal/widget"
	"zoe/internal/widgets"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the read-only web mirror of the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(app, true)
			if err != nil {
				return err
			}
			defer rt.close()

			reg := widget.NewRegistry()
			widgets.RegisterAll(reg, rt.deps())

			srv, err := web.NewServer(web.ServerConfig{
				Addr:   addr,
				Config: rt.cfg,
				Reg:    reg,
				Deps:   rt.deps(),
				Log:    rt.log,
			})
			if err != nil {
				return err
			}
			defer srv.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "zoe web mirror on http://%s\n", srv.Addr())
			return http.ListenAndServe(srv.Addr(), srv.Handler())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8090", "Listen address")
	return cmd
}
