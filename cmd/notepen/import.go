package main

import (
	"fmt"
	"html"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/notepen/internal/convert"
	"github.com/dgallion1/notepen/internal/note"
	"github.com/dgallion1/notepen/internal/parser"
	"github.com/dgallion1/notepen/internal/store"
)

// NewImportCmd creates the import command.
func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Convert a document into editor markup",
		Long: `Import parses a txt, md, html, docx, pdf or csv file into editor body
markup. The markup is printed, converted with --format, or saved as a
note in a SQLite store with --save.

Examples:
  # Print the body markup
  notepen import chapter.docx

  # Print the imported document as markdown
  notepen import page.html -f markdown

  # Save as a note under ./data
  notepen import journal.txt --save --title "Journal, week 12"`,
		Args: cobra.ExactArgs(1),
		RunE: runImportCmd,
	}

	cmd.Flags().StringP("title", "t", "", "Note title (default: from the document)")
	cmd.Flags().StringP("format", "f", "", "Convert the imported body: plain, markdown or html")
	cmd.Flags().Bool("save", false, "Save the result as a note")
	cmd.Flags().String("data", "./data", "SQLite directory used with --save")
	cmd.Flags().Bool("pdftotext", false, "Fall back to pdftotext for PDFs without a text layer")

	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	path := args[0]
	pdftotext, _ := cmd.Flags().GetBool("pdftotext")
	p, err := parser.ForFile(path, parser.Options{PDFFallbackPdftotext: pdftotext})
	if err != nil {
		return err
	}

	f, err := os.Open(path) //nolint:gosec // path comes from the user
	if err != nil {
		return err
	}
	defer f.Close()

	imp, err := p.Parse(f, path)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if t, _ := cmd.Flags().GetString("title"); t != "" {
		imp.Title = t
	}
	header := html.EscapeString(imp.Title)

	if save, _ := cmd.Flags().GetBool("save"); save {
		dir, _ := cmd.Flags().GetString("data")
		return saveImported(cmd, dir, header, imp)
	}

	name, _ := cmd.Flags().GetString("format")
	if name == "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d paragraphs\n", imp.Title, imp.Paragraphs)
		return writeOutput(cmd, "", imp.Body+"\n")
	}
	format, err := convert.ParseFormat(name)
	if err != nil {
		return err
	}
	text, err := convert.Convert(format, header+"\n", imp.Body)
	if err != nil {
		return err
	}
	return writeOutput(cmd, "", text+"\n")
}

func saveImported(cmd *cobra.Command, dir, header string, imp *parser.Imported) error {
	db, err := store.OpenSQLite(dir)
	if err != nil {
		return err
	}
	defer db.Close()

	n := &note.Note{Title: imp.Title, Header: header, Body: imp.Body}
	if err := note.NewRepository(db).Save(cmd.Context(), n); err != nil {
		return fmt.Errorf("save note: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved note %s (%q, %d paragraphs) to %s\n", n.ID, n.Title, imp.Paragraphs, db.Path())
	return nil
}
