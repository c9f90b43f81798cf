package object

import (
	"fmt"
	"unicode/utf8"

	"github.com/tomz197/coincatch/internal/draw"
)

// Text is one line of overlay text at a 1-based terminal cell, drawn over
// the canvas. Color is an optional ANSI color escape for the whole line.
type Text struct {
	Col   int
	Row   int
	Value string
	Color string
}

// Centered returns a Text whose middle sits on column centerCol.
func Centered(centerCol, row int, value string) Text {
	return Text{Col: centerCol - utf8.RuneCountInString(value)/2, Row: row, Value: value}
}

// Width is the number of terminal cells the text covers.
func (t Text) Width() int {
	return utf8.RuneCountInString(t.Value)
}

// positionedWriter is implemented by writers that place text themselves
// (draw.ChunkWriter applies its centering offset).
type positionedWriter interface {
	WriteAt(col, row int, s string)
}

// Draw writes the text, clamped to the first row and column.
func (t Text) Draw(ctx DrawContext) error {
	if t.Value == "" || ctx.Writer == nil {
		return nil
	}
	col, row := max(t.Col, 1), max(t.Row, 1)
	value := t.Value
	if t.Color != "" {
		value = t.Color + value + draw.ColorReset
	}

	if pw, ok := ctx.Writer.(positionedWriter); ok {
		pw.WriteAt(col, row, value)
		return nil
	}
	_, err := fmt.Fprintf(ctx.Writer, "\033[%d;%dH%s", row, col, value)
	return err
}
