package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/fquiros/budgeteer/pkg/importer"
	"github.com/fquiros/budgeteer/pkg/models"
	"github.com/fquiros/budgeteer/pkg/service"
)

var importCmd = &cobra.Command{
	Use:   "import [flags] <input_path>",
	Short: "Import a bank or card statement (CSV, XLS, XLSX)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		mapping, err := resolveMapping(cmd, cfg.ProfilesPath)
		if err != nil {
			return err
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		processor := service.NewProcessor(logger, st)

		matches, err := filepath.Glob(args[0])
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return fmt.Errorf("no files found matching pattern %s", args[0])
		}

		for _, match := range matches {
			fileInfo, err := os.Stat(match)
			if err != nil {
				logger.Warn("failed to stat file", "error", err, "file", match)
				continue
			}

			if fileInfo.IsDir() {
				if err := processor.ImportDirectory(match, mapping); err != nil {
					logger.Warn("failed to import directory", "error", err, "dir", match)
				}
				continue
			}

			if dryRun {
				if err := previewFile(processor, match, mapping); err != nil {
					logger.Warn("failed to preview file", "error", err, "file", match)
				}
				continue
			}

			result, inserted, err := processor.ImportFile(match, mapping)
			if err != nil {
				logger.Warn("failed to import file", "error", err, "file", match)
				continue
			}
			fmt.Printf("%s: imported %d transactions, dropped %d rows\n", match, inserted, result.Dropped())
		}
		return nil
	},
}

// resolveMapping builds the column mapping from either a saved profile
// or the explicit column flags.
func resolveMapping(cmd *cobra.Command, profilesPath string) (importer.ColumnMap, error) {
	profileName, _ := cmd.Flags().GetString("profile")
	if profileName != "" {
		profiles, err := models.LoadProfiles(profilesPath)
		if err != nil {
			return importer.ColumnMap{}, err
		}
		profile, err := profiles.Get(profileName)
		if err != nil {
			return importer.ColumnMap{}, err
		}
		return importer.ColumnMap{
			Date:        profile.Date,
			Description: profile.Description,
			Amount:      profile.Amount,
			Category:    profile.Category,
		}, nil
	}

	mapping := importer.ColumnMap{}
	mapping.Date, _ = cmd.Flags().GetString("date-column")
	mapping.Description, _ = cmd.Flags().GetString("description-column")
	mapping.Amount, _ = cmd.Flags().GetString("amount-column")
	mapping.Category, _ = cmd.Flags().GetString("category-column")

	if mapping.Date == "" || mapping.Description == "" || mapping.Amount == "" {
		return importer.ColumnMap{}, fmt.Errorf("supply --profile or all of --date-column, --description-column and --amount-column")
	}
	return mapping, nil
}

// previewFile runs the pipeline without storing and prints the
// before/after cleaning result.
func previewFile(processor *service.Processor, path string, mapping importer.ColumnMap) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	result, err := processor.Preview(data, filepath.Base(path), mapping)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d valid, %d dropped (dry run, nothing stored)\n", path, len(result.Records), result.Dropped())
	for _, record := range result.Records {
		if record.RawDescription != record.Description {
			fmt.Printf("  %s  %8.2f  %s  (was: %s)\n", record.DateISO(), record.Amount, record.Description, record.RawDescription)
		} else {
			fmt.Printf("  %s  %8.2f  %s\n", record.DateISO(), record.Amount, record.Description)
		}
	}
	for _, rowErr := range result.RowErrors {
		fmt.Printf("  line %d dropped: %s\n", rowErr.Line, rowErr.Reason)
	}
	if verbose {
		pp.Println(result.Records)
	}
	return nil
}

func init() {
	importCmd.Flags().String("profile", "", "Named column mapping from the profiles file")
	importCmd.Flags().String("date-column", "", "Column holding the transaction date")
	importCmd.Flags().String("description-column", "", "Column holding the description")
	importCmd.Flags().String("amount-column", "", "Column holding the amount")
	importCmd.Flags().String("category-column", "", "Column holding the category (optional)")
	importCmd.Flags().Bool("dry-run", false, "Preview the cleaned records without storing them")

	rootCmd.AddCommand(importCmd)
}
