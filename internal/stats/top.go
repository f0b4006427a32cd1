package stats

import (
	"sort"

	"github.com/chlorine05/GameAceSelection/internal/model"
)

// BestSessions returns the top N sessions by points. Ties go to the higher
// accuracy, then to the earlier session.
func BestSessions(sessions []model.SessionAggregate, n int) []model.SessionAggregate {
	if n <= 0 || len(sessions) == 0 {
		return nil
	}
	items := make([]model.SessionAggregate, len(sessions))
	copy(items, sessions)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Points != items[j].Points {
			return items[i].Points > items[j].Points
		}
		ai := Accuracy(items[i].Correct, items[i].Solved)
		aj := Accuracy(items[j].Correct, items[j].Solved)
		if ai != aj {
			return ai > aj
		}
		return items[i].EndedAt.Before(items[j].EndedAt)
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
