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
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the sync journal",
	Long:  `List past sync runs and show the per-destination outcome of one run.`,
}

var historyLimit int

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sync runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.ListRuns(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RUN ID\tSTARTED\tDURATION\tSERVICE\tSTATUS\tDESTINATIONS\tFAILED")
		for _, r := range runs {
			duration := "-"
			if r.FinishedAt != nil {
				duration = r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
				r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), duration, r.Service, r.Status, r.Destinations, r.Failures)
		}
		return w.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the per-destination results of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()

		run, results, err := db.GetRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Run:     %s\n", run.ID)
		fmt.Printf("Dir:     %s\n", run.Dir)
		fmt.Printf("Service: %s\n", run.Service)
		fmt.Printf("Status:  %s\n", run.Status)
		fmt.Printf("Started: %s\n\n", run.StartedAt.Local().Format(time.RFC3339))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "LOCALE\tSOURCE\tTRANSLATED\tSEEDED\tFORCE-COPIED\tDELETED\tWRITTEN\tERROR")
		for _, r := range results {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%t\t%s\n",
				r.Locale, r.Source, r.Translated, r.Seeded, r.ForceCopied, r.Deleted, r.Written, r.Error)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show (0 = all)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
}
