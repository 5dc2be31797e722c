package services

import (
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/edh5623/Songtiment-Analysis/internal/core/domain"
)

const synthesizedNote = "Audio features were withheld by the provider; the values above are synthesized."

// renderFeatures lays the feature vector out as a two-column table. Rounded
// box drawing is used only on terminals.
func renderFeatures(v domain.FeatureVector, terminal bool) string {
	tw := table.NewWriter()
	if terminal {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}

	tw.AppendHeader(table.Row{"Feature", "Value"})
	for i, value := range v {
		tw.AppendRow(table.Row{domain.FeatureLabel(i), strconv.FormatFloat(value, 'g', -1, 64)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
