package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/radar-cli/internal/ingest"
	"github.com/KaramelBytes/radar-cli/internal/utils"
)

var (
	abFlags     sessionFlags
	abOutDir    string
	abFormat    string
	abMaxTokens int
	abJobs      int
	abKeepGoing bool
	abQuiet     bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple session files concurrently, one artifact per file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		format, err := resolveFormat(abFormat)
		if err != nil {
			return err
		}
		outDir := abOutDir
		if outDir == "" && cfg != nil {
			outDir = cfg.OutputDir
		}
		if outDir != "" {
			if err := utils.EnsureDir(outDir); err != nil {
				return err
			}
		}
		jobs := abJobs
		if jobs <= 0 && cfg != nil {
			jobs = cfg.Jobs
		}
		if jobs <= 0 {
			jobs = 1
		}
		ext := ".json"
		if format == "md" {
			ext = ".md"
		}

		var (
			mu     sync.Mutex
			done   int
			failed int
		)
		total := len(files)
		report := func(msg string, a ...any) {
			mu.Lock()
			defer mu.Unlock()
			done++
			if !abQuiet {
				fmt.Fprintf(cmd.OutOrStdout(), "[%d/%d] "+msg+"\n", append([]any{done, total}, a...)...)
			}
		}

		g, _ := errgroup.WithContext(cmd.Context())
		g.SetLimit(jobs)
		for _, path := range files {
			g.Go(func() error {
				env, err := runSession(cmd, path, &abFlags)
				if err == nil {
					var out []byte
					if out, err = render(env, format, abMaxTokens); err == nil {
						dest := utils.OutputPath(path, outDir, ext)
						if err = utils.SafeWriteFile(dest, out); err == nil {
							report("✓ %s → %s (%d shots)", filepath.Base(path), dest, env.Analytics.Meta.ShotCount)
							return nil
						}
					}
				}
				mu.Lock()
				failed++
				mu.Unlock()
				report("✗ %s: %v", filepath.Base(path), err)
				if abKeepGoing {
					return nil
				}
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, total)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	abFlags.register(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "directory for artifacts (default from config output_dir)")
	analyzeBatchCmd.Flags().StringVar(&abFormat, "format", "", "output format: json|md (default from config)")
	analyzeBatchCmd.Flags().IntVar(&abMaxTokens, "max-tokens", 0, "md: truncate each context to this many tokens (0 = unlimited)")
	analyzeBatchCmd.Flags().IntVarP(&abJobs, "jobs", "j", 0, "files analyzed concurrently (default from config jobs)")
	analyzeBatchCmd.Flags().BoolVar(&abKeepGoing, "keep-going", false, "continue with remaining files when one fails")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress output")
}

// expandInputs resolves globs, keeps literal paths that exist and drops
// duplicates and unsupported extensions.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok || !ingest.Supported(m) {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}
