package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new tattle configuration file",
	Long: `Creates a tattle.toml configuration file in the current directory
with the default settings. Use --output to specify a different location.

Examples:
  tattle init                        # Creates tattle.toml in current directory
  tattle init -o .tattle/tattle.toml # Creates config in .tattle directory
  tattle init --force                # Overwrite existing config file`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringP("output", "o", "tattle.toml", "Output file path")
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")

	rootCmd.AddCommand(initCmd)
}

const defaultConfigTemplate = `# tattle configuration

[detect]
shingle_size = 5
window = 4
file_threshold = 0.40
assignment_threshold = 0.40
top_matches = 5
workers = 0

[corpus]
# extensions defaults to the built-in source-file allowlist when omitted.
# extensions = [".c", ".cpp", ".py", ".java", ".js"]
# ignore_dirs defaults to the usual build and VCS directories.
gitignore = false

[cache]
enabled = true
dir = ".tattle/cache"
ttl = 24

[output]
format = "text"
color = true
verbose = false

[server]
port = "8080"
corpus_dir = "corpus"
max_upload_bytes = 10485760
per_file_max_bytes = 10485760
upload_extensions = [".cpp"]
check_timeout_seconds = 120
`

func runInit(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")
	force, _ := cmd.Flags().GetBool("force")

	if _, err := os.Stat(outputPath); err == nil && !force {
		return fmt.Errorf("config file %q already exists (use --force to overwrite)", outputPath)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}

	if err := os.WriteFile(outputPath, []byte(defaultConfigTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	color.Green("Created %s", outputPath)
	return nil
}
