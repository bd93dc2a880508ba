package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/imgpress/imgpress/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and manage imgpress configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Available keys:
  quality        Default encode quality (1-100)
  threads        Default number of parallel workers
  target_format  Default output format (jpeg, png, webp, avif, original)
  report_prefix  Default basename for report files

Examples:
  imgpress config set quality 70
  imgpress config set threads 8
  imgpress config set target_format webp`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file path",
	RunE:  runConfigPath,
}

var configPresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List available presets",
	RunE:  runConfigPresets,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configPresetsCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if flagJSON {
		return printer.JSON(map[string]interface{}{
			"quality":       cfg.Quality,
			"threads":       cfg.Threads,
			"target_format": cfg.TargetFormat,
			"report_prefix": cfg.ReportPrefix,
			"presets":       cfg.Presets,
		})
	}

	printer.Header("Configuration")
	printer.KeyValue("Quality", strconv.Itoa(cfg.Quality))
	printer.KeyValue("Threads", strconv.Itoa(cfg.Threads))
	printer.KeyValue("Target format", cfg.TargetFormat)
	printer.KeyValue("Report prefix", cfg.ReportPrefix)

	if len(cfg.Presets) > 0 {
		printer.Header("Custom Presets")
		for name := range cfg.Presets {
			printer.Printf("  %s\n", name)
		}
	}

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	switch key {
	case "quality":
		q, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid quality value: %s", value)
		}
		if q < 1 || q > 100 {
			return fmt.Errorf("quality must be between 1 and 100")
		}
		cfg.Quality = q
	case "threads":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid threads value: %s", value)
		}
		if n < 1 {
			return fmt.Errorf("threads must be at least 1")
		}
		cfg.Threads = n
	case "target_format":
		format := strings.ToLower(value)
		if !targetFormats[format] {
			return fmt.Errorf("unsupported target format %q", value)
		}
		cfg.TargetFormat = format
	case "report_prefix":
		if value == "" {
			return fmt.Errorf("report_prefix cannot be empty")
		}
		cfg.ReportPrefix = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	printer.Success("Set %s = %s", key, value)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}

	if flagJSON {
		return printer.JSON(map[string]string{"path": path})
	}

	printer.Println(path)
	return nil
}

func runConfigPresets(cmd *cobra.Command, args []string) error {
	if flagJSON {
		allPresets := make(map[string]config.Preset)
		for name, preset := range config.BuiltinPresets {
			allPresets[name] = preset
		}
		for name, preset := range cfg.Presets {
			allPresets[name] = preset
		}
		return printer.JSON(allPresets)
	}

	printer.Header("Built-in Presets")
	for name, preset := range config.BuiltinPresets {
		printPreset(name, preset)
	}

	if len(cfg.Presets) > 0 {
		printer.Header("Custom Presets")
		for name, preset := range cfg.Presets {
			printPreset(name, preset)
		}
	}

	return nil
}

func printPreset(name string, preset config.Preset) {
	printer.Printf("  %s\n", name)
	if preset.Quality > 0 {
		printer.Printf("    Quality: %d\n", preset.Quality)
	}
	if preset.Resize != "" {
		printer.Printf("    Resize: %s\n", preset.Resize)
	}
	if preset.TargetFormat != "" {
		printer.Printf("    Format: %s\n", preset.TargetFormat)
	}
	if preset.PreserveMetadata {
		printer.Printf("    Preserve metadata: true\n")
	}
	if preset.Watermark != "" {
		printer.Printf("    Watermark: %s\n", preset.Watermark)
	}
}
