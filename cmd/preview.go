package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/radar-cli/internal/preview"
	"github.com/KaramelBytes/radar-cli/internal/utils"
)

var (
	pvOutput   string
	pvSelected bool
)

var previewCmd = &cobra.Command{
	Use:   "preview <artifact.json>",
	Short: "Render chart payloads of a saved artifact as an HTML page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := readArtifact(args[0])
		if err != nil {
			return err
		}
		var keys []string
		if pvSelected {
			keys = env.Selection.Keys
		}
		var buf bytes.Buffer
		n, err := preview.Render(&buf, env.Analytics, keys)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "⚠ Warning: no drawable charts in artifact")
		}
		dest := pvOutput
		if dest == "" {
			dest = utils.OutputPath(args[0], "", ".html")
		}
		if err := utils.SafeWriteFile(dest, buf.Bytes()); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d charts to %s\n", n, dest)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringVarP(&pvOutput, "output", "o", "", "HTML output path (default <artifact>.html)")
	previewCmd.Flags().BoolVar(&pvSelected, "selected-only", false, "only render charts chosen by auto-selection")
}
