package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/notepen/internal/doctree"
	"github.com/dgallion1/notepen/internal/wordcount"
)

// NewCountCmd creates the count command.
func NewCountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count FILE",
		Short: "Count the words of a body markup file",
		Long: `Count parses FILE as body markup and prints its word count. With
--goal it also prints progress toward the goal.`,
		Args: cobra.ExactArgs(1),
		RunE: runCountCmd,
	}
	cmd.Flags().IntP("goal", "g", 0, "Word count goal (0 for none)")
	return cmd
}

func runCountCmd(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	n, err := countBody(string(data))
	if err != nil {
		return err
	}

	goal, _ := cmd.Flags().GetInt("goal")
	var tracker wordcount.Tracker
	tracker.SetGoal(goal)
	tracker.Update(n)
	p := tracker.Progress()

	if !p.Active {
		fmt.Fprintf(cmd.OutOrStdout(), "%d words\n", p.Count)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d/%d words (%.0f%%)", p.Count, p.Goal, p.Fill)
	if p.Complete {
		fmt.Fprint(cmd.OutOrStdout(), " goal reached")
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}

// countBody counts block by block, like the importer.
func countBody(markup string) (int, error) {
	doc, err := doctree.New("", markup)
	if err != nil {
		return 0, err
	}
	return wordcount.Count(doctree.BlockText(doc.Content)), nil
}
