package agent

import "strings"

// FeedbackTally counts social responses to talking. Responses starting with
// 'N' are counted apart from all others.
type FeedbackTally struct {
	Nods   int
	Others int
}

func Tally(feedback []string) FeedbackTally {
	var t FeedbackTally
	for _, f := range feedback {
		if strings.HasPrefix(f, "N") {
			t.Nods++
		} else {
			t.Others++
		}
	}
	return t
}

func (t FeedbackTally) Add(other FeedbackTally) FeedbackTally {
	return FeedbackTally{Nods: t.Nods + other.Nods, Others: t.Others + other.Others}
}
