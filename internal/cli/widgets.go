package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"zoe/internal/widget"
	"zoe/internal/widgets"
)

func newWidgetsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "widgets",
		Short: "Inspect the widget catalogue",
	}
	cmd.AddCommand(newWidgetsListCmd(app))
	return cmd
}

type widgetInfo struct {
	Type           string   `json:"type"`
	Version        string   `json:"version"`
	DefaultSize    string   `json:"defaultSize"`
	UpdateInterval string   `json:"updateInterval,omitempty"`
	Capabilities   []string `json:"capabilities,omitempty"`
}

func newWidgetsListCmd(app *App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered widget types",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := widget.NewRegistry()
			widgets.RegisterAll(reg, widgets.Deps{})

			infos := make([]widgetInfo, 0)
			for _, typ := range reg.Types() {
				w, err := reg.New(typ, widget.Options{})
				if err != nil {
					continue
				}
				d := w.Descriptor()
				info := widgetInfo{
					Type:         d.Type,
					Version:      d.Version,
					DefaultSize:  string(d.DefaultSize),
					Capabilities: d.Capabilities,
				}
				if d.UpdateInterval > 0 {
					info.UpdateInterval = d.UpdateInterval.String()
				}
				infos = append(infos, info)
			}

			if asJSON {
				return writeJSON(cmd, app, infos)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tVERSION\tSIZE\tINTERVAL\tCAPABILITIES")
			for _, i := range infos {
				interval := i.UpdateInterval
				if interval == "" {
					interval = "-"
				}
				caps := "-"
				if len(i.Capabilities) > 0 {
					caps = fmt.Sprintf("%v", i.Capabilities)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", i.Type, i.Version, i.DefaultSize, interval, caps)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func writeJSON(cmd *cobra.Command, app *App, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if app.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
