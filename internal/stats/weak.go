package stats

import (
	"sort"
	"time"

	"github.com/chlorine05/GameAceSelection/internal/model"
)

// SlowestAnswers selects the N answers that took longest. Timeouts count
// as the slowest of all regardless of their recorded time.
func SlowestAnswers(answers []model.SessionAnswer, n int) []model.SessionAnswer {
	if n <= 0 || len(answers) == 0 {
		return nil
	}
	candidates := make([]model.SessionAnswer, len(answers))
	copy(candidates, answers)
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].TimedOut != candidates[j].TimedOut {
			return candidates[i].TimedOut
		}
		if candidates[i].ElapsedMs != candidates[j].ElapsedMs {
			return candidates[i].ElapsedMs > candidates[j].ElapsedMs
		}
		if candidates[i].SessionID != candidates[j].SessionID {
			return candidates[i].SessionID < candidates[j].SessionID
		}
		return candidates[i].Seq < candidates[j].Seq
	})
	if n > len(candidates) {
		n = len(candidates)
	}
	return candidates[:n]
}

// AverageDuration returns the mean time of the correct answers, or zero.
func AverageDuration(answers []model.SessionAnswer) time.Duration {
	var total int64
	count := 0
	for _, a := range answers {
		if !a.Correct {
			continue
		}
		total += a.ElapsedMs
		count++
	}
	if count == 0 {
		return 0
	}
	return time.Duration(total/int64(count)) * time.Millisecond
}
