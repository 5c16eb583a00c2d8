package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yildizm/NasaLens/internal/config"
)

// newConfigCommand creates the config command with subcommands
func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage NasaLens configuration",
		Long: `Manage NasaLens configuration files and settings.

The config command provides subcommands for initializing, viewing,
validating, and locating configuration files.`,
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigPathCommand())

	return configCmd
}

// newConfigInitCommand creates the config init subcommand
func newConfigInitCommand() *cobra.Command {
	var (
		outputPath string
		format     string
		minimal    bool
		force      bool
	)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new configuration file",
		Long: `Initialize a new NasaLens configuration file with default values.

By default, creates a commented YAML file with all options. Use --minimal for
a compact file with only essential settings, or --format toml for TOML.`,
		Example: `  # Create full config in current directory
  nasalens config init

  # Create minimal config
  nasalens config init --minimal

  # Create a TOML config for the current user
  nasalens config init --format toml --output ~/.config/nasalens/config.toml

  # Overwrite existing config
  nasalens config init --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var content []byte
			switch config.Format(format) {
			case config.FormatYAML:
				if minimal {
					content = []byte(config.MinimalSampleConfig())
				} else {
					content = []byte(config.SampleConfig())
				}
			case config.FormatTOML:
				data, err := config.Encode(config.DefaultConfig(), config.FormatTOML)
				if err != nil {
					return err
				}
				content = data
			default:
				return fmt.Errorf("unsupported format: %s (use yaml or toml)", format)
			}

			if outputPath == "" {
				outputPath = ".nasalens." + format
			}
			outputPath = config.ExpandPath(outputPath)

			if !force && fileExists(outputPath) {
				return fmt.Errorf("config file already exists at %s (use --force to overwrite)", outputPath)
			}

			dir := filepath.Dir(outputPath)
			if dir != "." && dir != "/" {
				if err := os.MkdirAll(dir, 0o750); err != nil {
					return fmt.Errorf("failed to create directory %s: %w", dir, err)
				}
			}

			if err := os.WriteFile(outputPath, content, 0o600); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Configuration file created at: %s\n", GetEmoji("success"), outputPath)
			if minimal && format == string(config.FormatYAML) {
				fmt.Fprintf(out, "%s Created minimal configuration with essential settings\n", GetEmoji("page"))
			} else {
				fmt.Fprintf(out, "%s Created full configuration with all options\n", GetEmoji("page"))
			}
			return nil
		},
	}

	initCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output path for config file (default: .nasalens.<format>)")
	initCmd.Flags().StringVarP(&format, "format", "f", "yaml", "file format (yaml, toml)")
	initCmd.Flags().BoolVarP(&minimal, "minimal", "m", false, "create minimal configuration")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite existing config file")

	return initCmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	var format string

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the current effective configuration after loading from all sources.

Shows the merged configuration from defaults, config files, environment
variable overrides and global flags.`,
		Example: `  # Show config in YAML format
  nasalens config show

  # Show config in JSON format
  nasalens config show --format json

  # Show config from specific file
  nasalens config show --config /path/to/config.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var data []byte
			switch format {
			case "json":
				data, err = json.MarshalIndent(cfg, "", "  ")
				data = append(data, '\n')
			case "yaml", "toml":
				data, err = config.Encode(cfg, config.Format(format))
			default:
				return fmt.Errorf("unsupported format: %s (use yaml, toml or json)", format)
			}
			if err != nil {
				return fmt.Errorf("failed to marshal config to %s: %w", format, err)
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	showCmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, toml, json)")

	return showCmd
}

// newConfigValidateCommand creates the config validate subcommand
func newConfigValidateCommand() *cobra.Command {
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validate a NasaLens configuration file for syntax and semantic errors.

Checks the configuration file for:
- Valid YAML or TOML syntax
- Required fields
- Valid values for enums
- Proper data types`,
		Example: `  # Validate current config
  nasalens config validate

  # Validate specific config file
  nasalens config validate --config /path/to/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := loadConfig()
			if err != nil {
				fmt.Fprintf(out, "%s Configuration validation failed:\n", GetEmoji("error"))
				fmt.Fprintf(out, "   %v\n", err)
				return err
			}

			fmt.Fprintf(out, "%s Configuration is valid\n", GetEmoji("success"))
			fmt.Fprintf(out, "%s Configuration summary:\n", GetEmoji("page"))
			fmt.Fprintf(out, "   Version: %s\n", cfg.Version)
			fmt.Fprintf(out, "   Catalog: %s (%s)\n", cfg.Catalog.BaseURL, cfg.Catalog.MediaType)
			fmt.Fprintf(out, "   Default query: %s\n", cfg.Search.DefaultQuery)
			fmt.Fprintf(out, "   Theme: %s\n", cfg.Display.Theme)
			fmt.Fprintf(out, "   Output Format: %s\n", cfg.Display.OutputFormat)
			return nil
		},
	}

	return validateCmd
}

// newConfigPathCommand creates the config path subcommand
func newConfigPathCommand() *cobra.Command {
	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show configuration file search paths",
		Long: `Display the list of paths NasaLens searches for configuration files.

Shows the search order and indicates which files exist.`,
		Example: `  # Show config search paths
  nasalens config path`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Configuration file search paths (in priority order):")
			fmt.Fprintln(out)

			for i, path := range config.GetConfigPaths() {
				exists := " " + GetEmoji("error") + " (not found)"
				if fileExists(path) {
					exists = " " + GetEmoji("success") + " (exists)"
				}
				fmt.Fprintf(out, "  %d. %s%s\n", i+1, path, exists)
			}
			fmt.Fprintln(out)

			if currentConfig, found := config.FindConfigFile(); found {
				fmt.Fprintf(out, "Current config file: %s\n", currentConfig)
			} else {
				fmt.Fprintln(out, "No config file found, using defaults")
			}

			fmt.Fprintln(out)
			fmt.Fprintf(out, "Environment variables with %s prefix override file settings\n", config.EnvPrefix)
		},
	}

	return pathCmd
}

// Helper function to check if file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
