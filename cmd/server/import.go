package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cesargomez89/tajikquran/internal/importer"
)

func newImportCommand() *cobra.Command {
	var (
		file   string
		sample bool
	)

	command := &cobra.Command{
		Use:   "import",
		Short: "Import surahs and verses from a JSON, CSV or XLSX file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (file == "") == !sample {
				return errors.New("exactly one of --file or --sample is required")
			}

			_, appLogger, db, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			im := importer.New(db, appLogger)
			var res *importer.Result
			if sample {
				res, err = im.ImportSample(cmd.Context())
			} else {
				res, err = im.ImportFile(cmd.Context(), file)
			}
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			printResult(res)
			if len(res.Errors) > 0 {
				return fmt.Errorf("import finished with %d error(s)", len(res.Errors))
			}
			return nil
		},
	}

	command.Flags().StringVar(&file, "file", "", "path to a .json, .csv or .xlsx file")
	command.Flags().BoolVar(&sample, "sample", false, "import the built-in sample data")

	return command
}

func printResult(res *importer.Result) {
	color.Green("Imported %d surah(s) and %d verse(s)", res.Surahs, res.Verses)
	if res.Skipped > 0 {
		color.Yellow("Skipped %d verse(s) without text", res.Skipped)
	}
	for _, e := range res.Errors {
		color.Red("  %s", e)
	}
}
