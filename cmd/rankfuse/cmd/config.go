package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/rankfuse/configs"
	"github.com/Aman-CERP/rankfuse/internal/config"
	rferrors "github.com/Aman-CERP/rankfuse/internal/errors"
	"github.com/Aman-CERP/rankfuse/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage the rankfuse configuration.

Configuration precedence (lowest to highest):
  1. Built-in defaults
  2. User config (~/.config/rankfuse/config.yaml)
  3. Project config (.rankfuse.yaml in the working directory)
  4. Environment variables (RANKFUSE_*)
  5. Command-line flags`,
		Example: `  # Create a project config from the commented template
  rankfuse config init

  # Show the effective configuration after merging all sources
  rankfuse config show

  # Print the user config file path
  rankfuse config path`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a project configuration file",
		Long: `Create .rankfuse.yaml in the current directory from the built-in
template. The template documents every setting with its default value.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Show the configuration after merging defaults, the user config,
the project config, environment variables, and flags.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the user config file path",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), config.GetUserConfigPath())
			return nil
		},
	}
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	out := output.New(cmd.OutOrStdout())
	path := ".rankfuse.yaml"

	if _, err := os.Stat(path); err == nil && !force {
		out.Warning("Configuration already exists")
		out.Statusf("📁", "Location: %s", path)
		out.Status("💡", "Use --force to overwrite with the default template")
		return nil
	}

	if err := os.WriteFile(path, []byte(configs.ConfigTemplate), 0644); err != nil {
		return rferrors.New(rferrors.ErrCodeOutputWrite, err.Error(), err)
	}

	out.Success("Created .rankfuse.yaml")
	out.Statusf("📁", "Location: %s", path)
	out.Newline()
	out.Status("💡", "Edit it, then run 'rankfuse config show' to verify")

	return nil
}

func runConfigShow(cmd *cobra.Command, jsonOutput bool) error {
	// Load fresh rather than reusing the pre-run result, so show reflects
	// exactly this invocation's --config and flag overrides.
	cfg, err := loadRootConfig()
	if err != nil {
		return err
	}

	if jsonOutput {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	out := output.New(cmd.OutOrStdout())
	out.Status("📋", "Effective configuration (defaults + user + project + env + flags)")
	out.Newline()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))

	return nil
}
