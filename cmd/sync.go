/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valpere/i18nsync/internal/orchestrator"
	"github.com/valpere/i18nsync/internal/watch"
)

var (
	syncDryRun    bool
	syncWatch     bool
	syncNoHistory bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize every locale document with its source",
	Long: `Runs both tracks: the primary source (default zh.json, Simplified Chinese)
feeds zh-Hant.json, and the secondary source (default en.json) feeds every
other <locale>.json document found in the directory.

Only new or changed entries are translated. A destination document is
rewritten only when something in it changed.

Examples:
  i18nsync sync --dir web/i18n
  i18nsync sync --provider openrouter --model qwen/qwen-2.5-72b-instruct
  i18nsync sync --watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if !syncWatch {
			return runSync(ctx, syncDryRun)
		}

		// one full pass up front, then on every source change
		if err := runSync(ctx, syncDryRun); err != nil {
			logger.Error("initial sync failed", zap.Error(err))
		}
		files := []string{cfg.Primary.Source + ".json", cfg.Secondary.Source + ".json"}
		w := watch.New(cfg.Dir, files, watch.DefaultDebounce, logger)
		return w.Run(ctx, func(ctx context.Context) error {
			return runSync(ctx, syncDryRun)
		})
	},
}

func runSync(ctx context.Context, dryRun bool) error {
	p, err := buildPipeline(ctx, cfg, dryRun, cfg.History && !syncNoHistory, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	report, err := p.orchestrator.Run(ctx)
	if report != nil {
		printReport(os.Stdout, report, dryRun)
	}
	if err != nil {
		return err
	}
	if report.Failed() > 0 {
		return fmt.Errorf("%d destination(s) failed", report.Failed())
	}
	return nil
}

func printReport(out io.Writer, report *orchestrator.Report, dryRun bool) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	written := "WRITTEN"
	if dryRun {
		written = "WOULD WRITE"
	}
	fmt.Fprintf(w, "LOCALE\tSOURCE\tTRANSLATED\tSEEDED\tFORCE-COPIED\tDELETED\t%s\n", written)
	for _, r := range report.Results {
		o := r.Outcome
		changed := o.Written
		if dryRun {
			changed = o.Changed
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%t\n",
			r.Job.Locale, r.Job.SourceLocale, o.Translated, o.Seeded, o.ForceCopied, o.Deleted, changed)
	}
	for _, locale := range failedLocales(report) {
		fmt.Fprintf(w, "%s\tFAILED\t%v\n", locale, report.Failures[locale])
	}
	w.Flush()

	if len(report.Skipped) > 0 {
		fmt.Fprintf(out, "Skipped (not a locale name): %v\n", report.Skipped)
	}
	fmt.Fprintf(out, "Run %s: %d written, %d failed\n", report.RunID, report.Written(), report.Failed())
}

// failedLocales returns the locales of report.Failures in sorted order.
func failedLocales(report *orchestrator.Report) []string {
	failed := make([]string, 0, len(report.Failures))
	for locale := range report.Failures {
		failed = append(failed, locale)
	}
	sort.Strings(failed)
	return failed
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Plan and report without translating or writing")
	syncCmd.Flags().BoolVarP(&syncWatch, "watch", "w", false, "Keep running and re-sync when a source document changes")
	syncCmd.Flags().BoolVar(&syncNoHistory, "no-history", false, "Do not record this run in the journal")
	syncCmd.Flags().String("provider", "", "Translation provider: openai, openrouter, ollama or google")
	syncCmd.Flags().String("model", "", "Model name for LLM providers (env OPENAI_I18N_MODEL)")
	syncCmd.Flags().String("base-url", "", "Override the provider endpoint")
	syncCmd.Flags().Bool("check-language", false, "Warn about translations that look like the wrong language")

	_ = v.BindPFlag("service.provider", syncCmd.Flags().Lookup("provider"))
	_ = v.BindPFlag("service.model", syncCmd.Flags().Lookup("model"))
	_ = v.BindPFlag("service.base_url", syncCmd.Flags().Lookup("base-url"))
	_ = v.BindPFlag("check_language", syncCmd.Flags().Lookup("check-language"))
}
