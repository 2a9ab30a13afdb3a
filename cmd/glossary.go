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

	"github.com/spf13/cobra"
)

var glossaryCmd = &cobra.Command{
	Use:   "glossary",
	Short: "Manage the terminology glossary",
	Long: `Add, list, and delete glossary terms stored in the database.

Glossary terms are replaced verbatim in every translation, after the
service answers. Terms from the database are merged over the "glossary"
list of the config file; an entry for an exact language pair beats one
that applies to all languages.`,
}

var glossaryListTarget string

var glossaryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List glossary entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.ListGlossaryTerms(cmd.Context(), glossaryListTarget)
		if err != nil {
			return fmt.Errorf("failed to list glossary: %w", err)
		}

		configured := cfg.GlossaryMap()
		if len(entries) == 0 && len(configured) == 0 {
			fmt.Println("Glossary is empty.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSOURCE LANG\tTARGET LANG\tTERM\tRENDERED AS")
		for _, term := range configured.Terms() {
			fmt.Fprintf(w, "(config)\t*\t*\t%s\t%s\n", term, configured[term])
		}
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				e.ID, e.SourceLang, e.TargetLang, e.SourceTerm, e.TargetTerm)
		}
		return w.Flush()
	},
}

var (
	glossaryAddSource string
	glossaryAddTarget string
)

var glossaryAddCmd = &cobra.Command{
	Use:   "add <term> [rendered-as]",
	Short: "Add or update a glossary entry",
	Long: `Add a glossary entry. Without a second argument the term is kept unchanged
in every translation, which is what brand names need.

Examples:
  i18nsync glossary add WealthX
  i18nsync glossary add "Flow" "Flux" --target fr`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rendered := args[0]
		if len(args) == 2 {
			rendered = args[1]
		}

		db, err := openDB(cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()

		id, err := db.AddGlossaryTerm(cmd.Context(), glossaryAddSource, glossaryAddTarget, args[0], rendered)
		if err != nil {
			return fmt.Errorf("failed to add glossary entry: %w", err)
		}
		fmt.Printf("Added %s: [%s→%s] %q → %q\n", id, langLabel(glossaryAddSource), langLabel(glossaryAddTarget), args[0], rendered)
		return nil
	},
}

var glossaryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a glossary entry by ID",
	Long: `Delete a glossary entry by its ID (shown in "i18nsync glossary list").`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.DeleteGlossaryTerm(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete glossary entry: %w", err)
		}
		fmt.Printf("Deleted glossary entry: %s\n", args[0])
		return nil
	},
}

func langLabel(lang string) string {
	if lang == "" {
		return "*"
	}
	return lang
}

func init() {
	rootCmd.AddCommand(glossaryCmd)

	glossaryListCmd.Flags().StringVarP(&glossaryListTarget, "target", "t", "", "Only entries that apply to this target language")

	glossaryAddCmd.Flags().StringVarP(&glossaryAddSource, "source", "s", "", "Source language (default: any)")
	glossaryAddCmd.Flags().StringVarP(&glossaryAddTarget, "target", "t", "", "Target language (default: any)")

	glossaryCmd.AddCommand(glossaryListCmd)
	glossaryCmd.AddCommand(glossaryAddCmd)
	glossaryCmd.AddCommand(glossaryDeleteCmd)
}
