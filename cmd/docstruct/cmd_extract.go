package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docstruct/internal/config"
	"github.com/dgallion1/docstruct/internal/extract"
)

func extractCmd(cfg *config.Config) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "extract [input] [output]",
		Short: "Extract document structure into an .xlsx workbook",
		Long: `Extract headings, table captions and figure captions from a document.

Headings are numbered per level (1, 1.1, 1.1.1, ...). Captions starting with
表/Tab (tables) or 図/Fig (figures) followed by a number are attached one level
below the current heading.

Example:
  docstruct extract report.docx structure.xlsx
  docstruct extract report.docx --json`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := cfg.InputPath, cfg.OutputPath
			if len(args) > 0 {
				in = args[0]
			}
			if len(args) > 1 {
				out = args[1]
			}

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			log, err := newLogger(*cfg)
			if err != nil {
				return err
			}

			svc := extract.NewService(cfg.SheetOptions(), nil, log)

			if asJSON {
				res, err := svc.StructureFile(in)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res.Elements)
			}

			res, err := svc.ExportFile(in, out)
			if err != nil {
				return err
			}
			st := res.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "Document structure extracted to %s (%d headings, %d tables, %d figures)\n",
				out, st.Headings, st.TableCaptions, st.FigureCaptions)
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.FlatSheetName, "flat-sheet", cfg.FlatSheetName, "name of the flat element sheet")
	cmd.Flags().StringVar(&cfg.OutlineSheetName, "outline-sheet", cfg.OutlineSheetName, "name of the level outline sheet")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print elements as JSON instead of writing a workbook")
	return cmd
}
