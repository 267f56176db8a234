// Package flags provides reusable flag helpers for CLI commands.
//
// This package should only contain common flags that can be used by multiple commands
// to ensure unified naming and consistent behavior across the CLI.
// Command-specific flags should be defined locally in the command file.
package flags

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// Output formats accepted by the --format flag.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// MustString returns the string value, ignoring the error.
// Safe to use with registered flags where GetString cannot fail.
func MustString(s string, _ error) string { return s }

// MustStringSlice returns the string slice value, ignoring the error.
// Safe to use with registered flags where GetStringSlice cannot fail.
func MustStringSlice(s []string, _ error) []string { return s }

// MustBool returns the bool value, ignoring the error.
// Safe to use with registered flags where GetBool cannot fail.
func MustBool(b bool, _ error) bool { return b }

// Config adds the required --networks/-n flag, listing the networks manifests, and the optional
// --env-file flag. Retrieve the values with cmd.Flags().GetStringSlice("networks") and
// cmd.Flags().GetString("env-file").
func Config(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("networks", "n", nil, "Networks manifest files, later files override earlier ones (required)")
	cmd.Flags().String("env-file", "", "Env config file; environment variables are used when empty or missing")
	_ = cmd.MarkFlagRequired("networks")
}

// Format adds the --format/-f flag selecting text or json output.
// Retrieve the value with cmd.Flags().GetString("format") and check it with ValidateFormat.
func Format(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", FormatText, "Output format, text or json")
}

// ValidateFormat returns an error if format is not a supported output format.
func ValidateFormat(format string) error {
	if !slices.Contains([]string{FormatText, FormatJSON}, format) {
		return fmt.Errorf("unsupported output format %q, want %s or %s", format, FormatText, FormatJSON)
	}

	return nil
}
