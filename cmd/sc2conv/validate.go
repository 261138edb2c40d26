package main

import (
	"fmt"
	"strings"

	"github.com/dyuri/sc2conv/pkg/sc2conv"
	"github.com/spf13/cobra"
)

// validate command
var validateCmd = &cobra.Command{
	Use:   "validate <input.sc2>",
	Short: "Validate city file structure",
	Long: `Validate the structure of a city save.

Hard decode errors always fail. Structural anomalies (footprint holes,
unknown scenario text ids, bad preview pictures) are reported as warnings
and fail only with --strict.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().Bool("strict", false, "Fail on warnings")
	addDecodeFlags(validateCmd.Flags())
}

func runValidate(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	strict, _ := cmd.Flags().GetBool("strict")

	city, ts, err := sc2conv.ParseFile(inputPath,
		sc2conv.WithLogger(log.WithField("file", inputPath)),
		sc2conv.WithCharset(charset(cmd)))
	if err != nil {
		return fmt.Errorf("parse %s: %w", inputPath, err)
	}

	v := &validator{strict: strict, file: inputPath}
	if ts == nil {
		for _, issue := range sc2conv.Validate(city) {
			v.add(issue)
		}
	}

	v.printResults()

	// Return error if validation failed
	if v.hasErrors() || (strict && v.hasWarnings()) {
		return fmt.Errorf("validation failed")
	}

	return nil
}

// validator holds validation state
type validator struct {
	strict   bool
	errors   []string
	warnings []string
	file     string
}

func (v *validator) add(issue sc2conv.ValidationError) {
	msg := fmt.Sprintf("%s: %s", issue.Field, issue.Message)
	if issue.Level == "error" {
		v.errors = append(v.errors, msg)
	} else {
		v.warnings = append(v.warnings, msg)
	}
}

func (v *validator) hasErrors() bool {
	return len(v.errors) > 0
}

func (v *validator) hasWarnings() bool {
	return len(v.warnings) > 0
}

func (v *validator) printResults() {
	fmt.Printf("Validating: %s\n", v.file)
	fmt.Println(strings.Repeat("=", 50))

	if len(v.errors) == 0 && len(v.warnings) == 0 {
		fmt.Println("✓ Valid city file - no issues found")
		return
	}

	// Print errors
	if len(v.errors) > 0 {
		fmt.Printf("\nErrors (%d):\n", len(v.errors))
		for _, err := range v.errors {
			fmt.Printf("  ✗ %s\n", err)
		}
	}

	// Print warnings
	if len(v.warnings) > 0 {
		fmt.Printf("\nWarnings (%d):\n", len(v.warnings))
		for _, warn := range v.warnings {
			fmt.Printf("  ⚠ %s\n", warn)
		}
	}

	// Summary
	fmt.Println()
	if len(v.errors) > 0 {
		fmt.Printf("Validation failed: %d error(s)", len(v.errors))
		if len(v.warnings) > 0 {
			fmt.Printf(", %d warning(s)", len(v.warnings))
		}
		fmt.Println()
	} else if len(v.warnings) > 0 {
		fmt.Printf("Validation passed with %d warning(s)\n", len(v.warnings))
		if v.strict {
			fmt.Println("(use without --strict to ignore warnings)")
		}
	}
}
