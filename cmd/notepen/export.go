package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/notepen/internal/convert"
	"github.com/dgallion1/notepen/internal/session"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Convert a header and body to plain text, markdown or HTML",
		Long: `Export reads the header and body markup from files and runs the
matching conversion pipeline.

Examples:
  # Markdown to stdout
  notepen export -f markdown --header title.html --body body.html

  # Plain text into <export_basename>.txt in a directory
  notepen export -f plain --body body.html --out ./exports/`,
		Args: cobra.NoArgs,
		RunE: runExportCmd,
	}

	cmd.Flags().StringP("format", "f", "", "Output format: plain, markdown or html")
	cmd.Flags().String("header", "", "File holding the header markup")
	cmd.Flags().String("body", "", "File holding the body markup")
	cmd.Flags().StringP("out", "o", "", "Output file or directory (default stdout)")

	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	fc, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("format")
	if name == "" {
		name = fc.Format
	}
	format, err := convert.ParseFormat(name)
	if err != nil {
		return err
	}

	headerPath, _ := cmd.Flags().GetString("header")
	bodyPath, _ := cmd.Flags().GetString("body")
	if headerPath == "" && bodyPath == "" {
		return fmt.Errorf("at least one of --header or --body is required")
	}
	header, err := readOptional(headerPath)
	if err != nil {
		return err
	}
	body, err := readOptional(bodyPath)
	if err != nil {
		return err
	}

	text, err := convert.Convert(format, convert.ExportHeader(header), strings.TrimRight(body, "\n"))
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out != "" && out != "-" {
		if fi, err := os.Stat(out); err == nil && fi.IsDir() {
			basename := fc.ExportBasename
			if basename == "" {
				basename = session.DefaultExportBasename
			}
			out = filepath.Join(out, basename+".txt")
		}
	}
	return writeOutput(cmd, out, text)
}

func readOptional(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
