package quiz

import (
	"fmt"
	"math/rand"
	"time"
)

// Question is a single arithmetic prompt.
type Question struct {
	Prompt string
	Answer int
	A      int
	B      int
	C      int
}

// NewQuestion builds the question "a + b - c".
func NewQuestion(a, b, c int) Question {
	return Question{
		Prompt: fmt.Sprintf("%d + %d - %d", a, b, c),
		Answer: a + b - c,
		A:      a,
		B:      b,
		C:      c,
	}
}

// QuestionSource produces the next question for a round config.
type QuestionSource interface {
	Next(cfg RoundConfig) Question
}

// Generator draws operands uniformly from the round's ranges.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator returns a Generator seeded with the current time.
func NewGenerator() *Generator {
	return NewSeededGenerator(time.Now().UnixNano())
}

// NewSeededGenerator returns a Generator with a fixed seed.
func NewSeededGenerator(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Next implements QuestionSource.
func (g *Generator) Next(cfg RoundConfig) Question {
	a := intIn(g.rnd, cfg.A)
	b := intIn(g.rnd, cfg.B)
	c := intIn(g.rnd, cfg.C)
	return NewQuestion(a, b, c)
}

func intIn(rnd *rand.Rand, r Range) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rnd.Intn(r.Max-r.Min+1)
}
