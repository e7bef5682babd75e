package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/radar-cli/internal/utils"
)

var (
	anaFlags      sessionFlags
	anaOutputPath string
	anaFormat     string
	anaMaxTokens  int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a launch-monitor session and write the analytics artifact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := resolveFormat(anaFormat)
		if err != nil {
			return err
		}
		env, err := runSession(cmd, args[0], &anaFlags)
		if err != nil {
			return err
		}
		out, err := render(env, format, anaMaxTokens)
		if err != nil {
			return err
		}
		if anaOutputPath == "" {
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}
		if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s analytics for %d shots to %s\n",
			format, env.Analytics.Meta.ShotCount, anaOutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaFlags.register(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the artifact (stdout if omitted)")
	analyzeCmd.Flags().StringVar(&anaFormat, "format", "", "output format: json|md (default from config)")
	analyzeCmd.Flags().IntVar(&anaMaxTokens, "max-tokens", 0, "md: truncate the context to this many tokens (0 = unlimited)")
}

// resolveFormat validates an explicit format or falls back to the config.
func resolveFormat(f string) (string, error) {
	f = strings.ToLower(strings.TrimSpace(f))
	if f == "" && cfg != nil {
		f = strings.ToLower(cfg.Format)
	}
	switch f {
	case "", "json":
		return "json", nil
	case "md", "markdown":
		return "md", nil
	default:
		return "", fmt.Errorf("unsupported --format: %s (use json or md)", f)
	}
}

func render(env *envelope, format string, maxTokens int) ([]byte, error) {
	if format == "md" {
		sel := env.Selection
		md := env.Analytics.Markdown(sel.Keys, sel.Narrative)
		if maxTokens > 0 && utils.CountTokens(md) > maxTokens {
			md = utils.TruncateToTokenLimit(md, maxTokens)
		}
		return []byte(md), nil
	}
	return utils.PrettyJSON(env)
}
