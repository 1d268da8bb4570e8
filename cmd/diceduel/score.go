package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lox/diceduel/internal/game"
)

// ScoreCmd evaluates five faces with the scoring rules
type ScoreCmd struct {
	Faces []int `arg:"" help:"Five die faces between 1 and 6"`
}

func (c *ScoreCmd) Run() error {
	return c.print(os.Stdout)
}

func (c *ScoreCmd) print(w io.Writer) error {
	faces, err := game.ParseFaces(c.Faces)
	if err != nil {
		return err
	}
	score := game.Evaluate(faces)

	formatter := game.NewEventFormatter(game.FormattingOptions{MarkHighlighted: true})
	fmt.Fprintf(w, "Roll: %s\n", formatter.FormatFaces(faces, score.Highlighted))
	fmt.Fprintf(w, "Reward: %d\n", score.Reward)

	highlighted := make([]string, 0, score.Highlighted.Len())
	for _, f := range score.Highlighted.Faces() {
		highlighted = append(highlighted, fmt.Sprint(f))
	}
	if len(highlighted) == 0 {
		highlighted = append(highlighted, "none")
	}
	fmt.Fprintf(w, "Highlighted: %s\n", strings.Join(highlighted, " "))
	return nil
}
