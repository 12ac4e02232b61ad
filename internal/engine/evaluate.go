package engine

import (
	"strings"

	"timeclash/internal/domain"
)

// Outcome classifies a single submission against the current card.
type Outcome int

const (
	// OutcomeIgnored marks a precondition violation; nothing changed.
	OutcomeIgnored Outcome = iota
	// OutcomeRetry is a wrong answer with tries left.
	OutcomeRetry
	// OutcomeCorrect is an exact (trimmed, case-insensitive) match.
	OutcomeCorrect
	// OutcomeExhausted is the third wrong answer or an explicit give-up; the
	// caller reveals the definition and the question resolves as class 4.
	OutcomeExhausted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRetry:
		return "retry"
	case OutcomeCorrect:
		return "correct"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return "ignored"
	}
}

const maxAttempts = 3

// Evaluate scores submitted text against a card given the wrong attempts
// already spent. Comparison is exact string equality on the definition after
// trimming and case folding; there is no fuzzy matching.
func Evaluate(card domain.Card, submitted string, attemptsSoFar int) (Outcome, int) {
	attemptsUsed := attemptsSoFar + 1
	if strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(card.Definition)) {
		return OutcomeCorrect, attemptsUsed
	}
	if attemptsUsed >= maxAttempts {
		return OutcomeExhausted, attemptsUsed
	}
	return OutcomeRetry, attemptsUsed
}

// attemptClass maps an outcome to the 1..4 class recorded in stats.
func attemptClass(outcome Outcome, attemptsUsed int) int {
	switch outcome {
	case OutcomeCorrect:
		return attemptsUsed
	case OutcomeExhausted:
		return revealClass
	default:
		return 0
	}
}

// revealClass is the attempt class for reveals and give-ups.
const revealClass = 4
