package cmd

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/radar-cli/internal/analysis"
	"github.com/KaramelBytes/radar-cli/internal/selection"
	"github.com/KaramelBytes/radar-cli/internal/utils"
)

var (
	selPreset string
	selSyntax string
	selFocus  string
	selJSON   bool
)

var selectCmd = &cobra.Command{
	Use:   "select <artifact.json>",
	Short: "Re-run chart auto-selection on a saved analytics artifact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := readArtifact(args[0])
		if err != nil {
			return err
		}
		sc := cfgEngineSelect()
		applySelectFlags(&sc, selPreset, selSyntax, selFocus)
		sel := selection.Select(env.Analytics, sc)
		log.WithFields(logrus.Fields{
			"source":   env.Source,
			"previous": strings.Join(env.Selection.Keys, ","),
			"keys":     strings.Join(sel.Keys, ","),
		}).Debug("charts reselected")

		out := cmd.OutOrStdout()
		if selJSON {
			b, err := utils.PrettyJSON(sel)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		fmt.Fprintf(out, "Preset: %s (%d-%d charts), narrative: %s\n",
			sel.Preset.Name, sel.Preset.MinTotal, sel.Preset.MaxTotal, sel.Narrative)
		if sel.Focus != "" {
			fmt.Fprintf(out, "Focus: %s\n", sel.Focus)
		}
		for _, c := range sel.Candidates {
			mark := " "
			if c.Selected {
				mark = "✓"
			}
			fmt.Fprintf(out, "%s %-28s %.3f  %s\n", mark, c.Key, c.Score, c.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(selectCmd)
	selectCmd.Flags().StringVar(&selPreset, "preset", "", "selection preset: "+strings.Join(selection.PresetNames, "|"))
	selectCmd.Flags().StringVar(&selSyntax, "syntax", "", "narrative syntax: per_chart|global")
	selectCmd.Flags().StringVar(&selFocus, "focus", "", "focus category: "+strings.Join(selection.FocusKeys(), "|"))
	selectCmd.Flags().BoolVar(&selJSON, "json", false, "print the selection as JSON")
}

// cfgEngineSelect returns the configured auto-selection settings.
func cfgEngineSelect() analysis.AutoSelectConfig {
	if cfg != nil {
		return cfg.Engine.AutoSelect
	}
	return analysis.DefaultConfig().AutoSelect
}
