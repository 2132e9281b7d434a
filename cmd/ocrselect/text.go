package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gardar/ocrselect/pkg/wordset"
)

var (
	textFlags   selectionFlags
	textWords   string
	textContext bool
	textNoColor bool
)

var textCmd = &cobra.Command{
	Use:   "text",
	Short: "Print the text of a selection",
	Long: `Print the assembled text of the selected words in reading order.
Without a selection the whole page is printed. With --context the page is
printed line by line with the selected words highlighted.`,
	RunE: runText,
}

func init() {
	RootCmd.AddCommand(textCmd)
	textCmd.Flags().StringVarP(&textWords, "words", "w", "", "Words file (required)")
	textCmd.Flags().BoolVar(&textContext, "context", false, "Print the page with the selection highlighted")
	textCmd.Flags().BoolVar(&textNoColor, "no-color", false, "Mark the selection with [brackets] instead of color")
	textCmd.MarkFlagRequired("words")
	textFlags.register(textCmd)
}

func runText(cmd *cobra.Command, args []string) error {
	res, set, err := readWords(textWords)
	if err != nil {
		return err
	}
	sel, err := textFlags.resolve(cmd, set)
	if err != nil {
		return err
	}
	log.WithField("selected", sel.Len()).Debug("selection resolved")

	out := cmd.OutOrStdout()
	switch {
	case textContext:
		mark := color.New(color.FgBlack, color.BgYellow).SprintFunc()
		if textNoColor {
			mark = func(a ...interface{}) string { return "[" + fmt.Sprint(a...) + "]" }
		}
		fmt.Fprintln(out, highlight(set.Words(), sel.IDs(), mark))
	case sel.IsEmpty():
		fmt.Fprintln(out, res.Text())
	default:
		fmt.Fprintln(out, sel.Text())
	}
	return nil
}

// highlight renders words line by line in reading order, passing selected
// words through mark
func highlight(words []wordset.Word, ids wordset.IDSet, mark func(a ...interface{}) string) string {
	var b strings.Builder
	ordered := wordset.SortReadingOrder(words)
	for i, w := range ordered {
		switch {
		case i == 0:
		case w.LineID != ordered[i-1].LineID:
			b.WriteByte('\n')
		default:
			b.WriteByte(' ')
		}
		if ids.Has(w.ID) {
			b.WriteString(mark(w.Text))
		} else {
			b.WriteString(w.Text)
		}
	}
	return b.String()
}
