// Package main implements the armcheck CLI tool.
//
// armcheck inspects the validation error catalog and validates ARM
// templates and resource spec files:
//
//	armcheck explain NET001      # Show a catalog entry
//	armcheck search subnet       # Search the catalog
//	armcheck catalog             # List all catalog entries
//	armcheck validate ./specs    # Validate templates and specs
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flavioaiello/armcheck/pkg/errcatalog"
	"github.com/flavioaiello/armcheck/pkg/template"
	"github.com/flavioaiello/armcheck/pkg/validation"
)

var (
	// Version is set at build time.
	version = "dev"

	// Logger for CLI.
	logger *zap.Logger
)

// CLI flag names.
const (
	flagJSON     = "json"
	flagCategory = "category"
)

func main() {
	// Initialize logger.
	logger, _ = zap.NewDevelopment()
	defer func() {
		_ = logger.Sync()
	}()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "armcheck",
		Short: "ARM configuration validation CLI",
		Long: `armcheck validates Azure resource configuration before deployment.

It checks ARM JSON templates and YAML resource specs for structural
problems, and looks up the documented error catalog behind every
validation failure.`,
		Version:      version,
		SilenceUsage: true,
	}

	cmd.AddCommand(
		newExplainCmd(),
		newSearchCmd(),
		newCatalogCmd(),
		newValidateCmd(),
	)

	return cmd
}

func newExplainCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "explain CODE",
		Short: "Show the catalog entry for an error code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, ok := errcatalog.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown error code: %s", args[0])
			}

			if asJSON {
				return printJSON(cmd, def)
			}

			ve := errcatalog.New(def.Code, nil)
			cmd.Println(ve.Format())
			if def.Description != "" {
				cmd.Println(def.Description)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, flagJSON, false, "Output as JSON")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search TERM",
		Short: "Search the error catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs := errcatalog.Search(args[0])
			if asJSON {
				return printJSON(cmd, defs)
			}
			if len(defs) == 0 {
				cmd.Println("no matching catalog entries")
				return nil
			}
			for _, def := range defs {
				cmd.Printf("%-10s %-13s %s\n", def.Code, def.Category, def.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, flagJSON, false, "Output as JSON")
	return cmd
}

func newCatalogCmd() *cobra.Command {
	var asJSON bool
	var category string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List catalog entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			var defs []errcatalog.Definition
			if category != "" {
				defs = errcatalog.ByCategory(errcatalog.Category(category))
				if len(defs) == 0 {
					return fmt.Errorf("unknown or empty category: %s", category)
				}
			} else {
				defs = errcatalog.All()
			}

			if asJSON {
				return printJSON(cmd, defs)
			}
			for _, def := range defs {
				cmd.Printf("%-10s %-13s %s\n", def.Code, def.Category, def.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, flagJSON, false, "Output as JSON")
	cmd.Flags().StringVar(&category, flagCategory, "", "Filter by category, e.g. NETWORKING")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate PATH...",
		Short: "Validate ARM templates and resource specs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			validator := template.NewValidator(logger)

			var results []template.FileResult
			for _, path := range args {
				info, err := os.Stat(path)
				if err != nil {
					return err
				}
				if info.IsDir() {
					dirResults, err := validator.ValidateDirectory(cmd.Context(), path)
					if err != nil {
						return err
					}
					results = append(results, dirResults...)
					continue
				}
				result, err := validator.ValidateFile(cmd.Context(), path)
				if err != nil {
					return err
				}
				results = append(results, template.FileResult{Path: path, Result: result})
			}

			if asJSON {
				if err := printJSON(cmd, results); err != nil {
					return err
				}
			} else {
				printResults(cmd, results)
			}

			for _, r := range results {
				if !r.Result.Valid {
					return fmt.Errorf("validation failed")
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, flagJSON, false, "Output as JSON")
	return cmd
}

// printResults renders per-file findings in a compact human format.
func printResults(cmd *cobra.Command, results []template.FileResult) {
	for _, r := range results {
		status := "ok"
		if !r.Result.Valid {
			status = "invalid"
		}
		cmd.Printf("%s: %s (%d errors, %d warnings)\n",
			r.Path, status, r.Result.ErrorCount, r.Result.WarningCount)
		for _, issue := range r.Result.Issues {
			if issue.Severity == validation.SeverityInfo {
				continue
			}
			if issue.PropertyPath != "" {
				cmd.Printf("  [%s] %s: %s\n", issue.Severity, issue.PropertyPath, issue.Message)
				continue
			}
			cmd.Printf("  [%s] %s\n", issue.Severity, issue.Message)
		}
	}
}

func printJSON(cmd *cobra.Command, value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}
