package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/notepen/internal/config"
)

// defaultConfigFile is read when --config is not given. It may be absent.
const defaultConfigFile = ".notepen.yaml"

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notepen",
		Short: "Export, count and import notepen documents",
		Long: `notepen works on editor documents stored as HTML fragments.

It converts a header and body to plain text, markdown or HTML, counts
the words of a body against a goal, and imports txt, md, html, docx,
pdf and csv files as editor markup.

Defaults for --format and the export file name can be set in a YAML
file (.notepen.yaml, or the path given with --config).`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", defaultConfigFile, "Path to the YAML configuration file")

	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewCountCmd())
	cmd.AddCommand(NewImportCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadFileConfig reads the YAML file named by --config. A missing default
// file is not an error; a missing file the user asked for is.
func loadFileConfig(cmd *cobra.Command) (*config.File, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	f, err := config.LoadFile(path)
	if errors.Is(err, config.ErrConfigNotFound) && !cmd.Flags().Changed("config") {
		return &config.File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return f, nil
}

// writeOutput writes text to path, or to the command's stdout when path is
// empty or "-".
func writeOutput(cmd *cobra.Command, path, text string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(cmd.OutOrStdout(), text)
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
	return nil
}
