package main

import "github.com/spf13/cobra"

// getFormat reads the --format flag, falling back to the configured default.
func getFormat(cmd *cobra.Command, fallback string) string {
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		return format
	}
	return fallback
}

// getOutputFile reads the --output flag. Empty means stdout.
func getOutputFile(cmd *cobra.Command) string {
	out, _ := cmd.Flags().GetString("output")
	return out
}
