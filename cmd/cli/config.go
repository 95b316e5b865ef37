package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yourusername/x-batch-go/internal/app"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage server configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current effective settings",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := app.LoadConfig("")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		path, _ := cmd.Flags().GetString("path")
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			path = filepath.Join(home, ".x-batch", "config.yaml")
		}

		if _, err := os.Stat(path); err == nil {
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				fmt.Fprintf(os.Stderr, "Error: %s already exists (use --force to overwrite)\n", path)
				os.Exit(1)
			}
		}

		if err := app.SaveConfig(config, path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Config written to %s\n", path)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := app.LoadConfig("")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Server:       %s:%d\n", config.Server.Host, config.Server.Port)
		fmt.Printf("Base dir:     %s\n", config.Download.BaseDir)
		fmt.Printf("Logs dir:     %s\n", config.Download.LogsDir())
		fmt.Printf("Workers:      %d\n", config.Download.Workers)
		fmt.Printf("Database:     %s\n", config.Database.Path)
		fmt.Printf("Extractor:    %s\n", config.Extractor.Binary)
		fmt.Printf("FFmpeg:       %s (fps %d, width %d)\n", config.FFmpeg.Binary, config.FFmpeg.FPS, config.FFmpeg.Width)
		fmt.Printf("Log level:    %s\n", config.Logging.Level)
	},
}

func init() {
	configInitCmd.Flags().String("path", "", "Destination file (default ~/.x-batch/config.yaml)")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
