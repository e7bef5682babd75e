package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/radar-cli/internal/analysis"
	"github.com/KaramelBytes/radar-cli/internal/selection"
)

var chartsGroup string

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "List base and advanced chart keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		group := strings.ToLower(strings.TrimSpace(chartsGroup))
		if group == "" {
			fmt.Fprintln(out, "Base charts:")
			for _, k := range selection.BaseKeys() {
				fmt.Fprintf(out, "  %-28s %s\n", k, selection.BaseTitle(k))
			}
			fmt.Fprintln(out, "\nAdvanced charts:")
		}
		n := 0
		for _, d := range analysis.Registry {
			if group != "" && d.Group != group {
				continue
			}
			req := make([]string, len(d.Required))
			for i, f := range d.Required {
				req[i] = string(f)
			}
			enabled := ""
			if cfg != nil && !cfg.Engine.ChartEnabled(d.Key) {
				enabled = " (disabled)"
			}
			fmt.Fprintf(out, "  %-28s %-12s %-8s %s [%s]%s\n", d.Key, d.Group, d.Type, d.Title, strings.Join(req, ", "), enabled)
			n++
		}
		if n == 0 {
			return fmt.Errorf("no charts in group %q", chartsGroup)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartsCmd)
	chartsCmd.Flags().StringVar(&chartsGroup, "group", "", "only list advanced charts of this group")
}
