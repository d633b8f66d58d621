// Package main provides the CLI entrypoint for pickr.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tverner/pickr/internal/config"
	"github.com/tverner/pickr/internal/model"
	"github.com/tverner/pickr/internal/picker"
	"github.com/tverner/pickr/internal/session"
	"github.com/tverner/pickr/internal/settings"
	"github.com/tverner/pickr/internal/tui"
)

var (
	pickSettings    string
	pickTUI         bool
	pickShowWeights bool
	pickSeed        int64

	addSettings string

	weightsSettings string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pickr [settings-file]",
		Short:         "Weighted random person picker",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPickCmd,
	}

	rootCmd.Flags().StringVar(&pickSettings, "settings", config.DefaultSettingsFile, "path to the settings file")
	rootCmd.Flags().BoolVar(&pickTUI, "tui", false, "run the full-screen interface")
	rootCmd.Flags().BoolVar(&pickShowWeights, "show-weights", false, "print the weights table before each proposal")
	rootCmd.Flags().Int64Var(&pickSeed, "seed", 0, "random seed (0 = seed from time)")

	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newWeightsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runPickCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "settings", &pickSettings, fileCfg.Picker.Settings)
	applyBoolConfig(cmd, "tui", &pickTUI, fileCfg.Picker.TUI)
	applyBoolConfig(cmd, "show-weights", &pickShowWeights, fileCfg.Picker.ShowWeights)

	// The positional argument wins over both the flag and the config file.
	path := pickSettings
	if len(args) == 1 {
		path = args[0]
	}

	st, err := settings.Load(path)
	if err != nil {
		return err
	}

	pk := picker.New()
	if pickSeed != 0 {
		pk = picker.NewSeeded(pickSeed)
	}

	if pickTUI {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("--tui requires a terminal")
		}
		m := tui.NewModel(st, path, pk)
		program := tea.NewProgram(m, tea.WithAltScreen())
		finalModel, err := program.Run()
		if err != nil {
			return fmt.Errorf("failed to run TUI: %w", err)
		}
		if fm, ok := finalModel.(*tui.Model); ok && fm.Err() != nil {
			return fm.Err()
		}
		return nil
	}

	loop := session.New(st, path, pk, os.Stdin, os.Stdout, os.Stderr, pickShowWeights)
	return loop.Run()
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name> [<name>...]",
		Short: "Add persons to the settings file",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAddCmd,
	}
	cmd.Flags().StringVar(&addSettings, "settings", config.DefaultSettingsFile, "path to the settings file")
	return cmd
}

func runAddCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "settings", &addSettings, fileCfg.Picker.Settings)

	st, err := settings.Load(addSettings)
	if err != nil {
		return err
	}
	for _, name := range args {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("person name must not be empty")
		}
		st.Persons = append(st.Persons, &model.Person{Name: name, Active: true})
	}
	if err := settings.Save(addSettings, st); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Added %d person(s) to %s\n", len(args), addSettings); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newWeightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weights",
		Short: "Show current weights and selection chances",
		Args:  cobra.NoArgs,
		RunE:  runWeightsCmd,
	}
	cmd.Flags().StringVar(&weightsSettings, "settings", config.DefaultSettingsFile, "path to the settings file")
	return cmd
}

func runWeightsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "settings", &weightsSettings, fileCfg.Picker.Settings)

	st, err := settings.Load(weightsSettings)
	if err != nil {
		return err
	}
	if len(st.Persons) == 0 {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), "No persons configured."); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	for _, line := range picker.FormatWeights(st) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# pickr configuration
# Uncomment a value to enable it. CLI flags override config values.

[picker]
# settings = %q  # Path to the settings file
# tui = false               # Run the full-screen interface
# show-weights = false      # Print the weights table before each proposal
`, config.DefaultSettingsFile)
}
