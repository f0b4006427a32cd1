// Package cue provides terminal notifiers for quiz audio cues.
package cue

import (
	"fmt"
	"io"
	"strings"

	"github.com/chlorine05/GameAceSelection/internal/quiz"
)

const bel = "\a"

// Bell rings the terminal bell, repeating it to tell cues apart.
type Bell struct {
	w io.Writer
}

// NewBell returns a notifier writing BEL characters to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// Play writes the bell pattern for a cue.
func (b *Bell) Play(c quiz.Cue) error {
	n := Rings(c)
	if n == 0 {
		return fmt.Errorf("no bell pattern for cue %s", c)
	}
	_, err := io.WriteString(b.w, strings.Repeat(bel, n))
	return err
}

// Rings returns how many bells a cue rings.
func Rings(c quiz.Cue) int {
	switch c {
	case quiz.CueStart, quiz.CueCorrect, quiz.CueWarning:
		return 1
	case quiz.CueWrong:
		return 2
	case quiz.CueFinish:
		return 3
	default:
		return 0
	}
}

// Mute ignores every cue.
type Mute struct{}

// Play does nothing.
func (Mute) Play(quiz.Cue) error { return nil }

// New returns a bell on w when sound is enabled, otherwise Mute.
func New(sound bool, w io.Writer) quiz.Notifier {
	if sound {
		return NewBell(w)
	}
	return Mute{}
}
