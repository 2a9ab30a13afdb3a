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
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/i18nsync/internal/orchestrator"
)

var planShowKeys bool

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what a sync would do without calling any service",
	Long: `Computes, for every destination, which keys would be translated, seeded,
force-copied or deleted. No translation service is contacted and no file
is written, so no API key is needed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline(cmd.Context(), cfg, true, false, logger)
		if err != nil {
			return err
		}
		defer p.Close()

		report, err := p.orchestrator.Run(cmd.Context())
		if err != nil {
			return err
		}
		printPlan(os.Stdout, report, planShowKeys)
		return nil
	},
}

func printPlan(out io.Writer, report *orchestrator.Report, showKeys bool) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LOCALE\tSOURCE\tTRANSLATE\tSEED\tFORCE-COPY\tDELETE")
	for _, r := range report.Results {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n",
			r.Job.Locale, r.Job.SourceLocale, len(r.Plan.Translate), len(r.Plan.Seed), r.Forced, len(r.Deleted))
	}
	w.Flush()

	if showKeys {
		for _, r := range report.Results {
			if r.Plan.Empty() && len(r.Deleted) == 0 {
				continue
			}
			fmt.Fprintf(out, "\n%s:\n", r.Job.Locale)
			printKeys(out, "translate", r.Plan.TranslateKeys())
			printKeys(out, "seed", r.Plan.Seed)
			printKeys(out, "delete", r.Deleted)
		}
	}

	for _, locale := range failedLocales(report) {
		fmt.Fprintf(out, "%s: %v\n", locale, report.Failures[locale])
	}
	if len(report.Skipped) > 0 {
		fmt.Fprintf(out, "Skipped (not a locale name): %v\n", report.Skipped)
	}
}

func printKeys(out io.Writer, label string, keys []string) {
	if len(keys) == 0 {
		return
	}
	fmt.Fprintf(out, "  %-9s %s\n", label+":", strings.Join(keys, ", "))
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().BoolVarP(&planShowKeys, "keys", "k", false, "List the affected keys per destination")
}
