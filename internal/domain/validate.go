package domain

import (
	"fmt"
	"strings"
)

// ValidateExam checks the structural invariants of an exam definition: a
// non-empty name and at least one question, each with exactly four distinct
// non-empty options and a correct-answer index in range.
func ValidateExam(name string, questions []Question) error {
	if strings.TrimSpace(name) == "" {
		return Invalid("name", "exam name is required")
	}
	if len(questions) == 0 {
		return Invalid("questions", "exam must have at least one question")
	}
	for i, q := range questions {
		if err := validateQuestion(q); err != nil {
			return Invalid(fmt.Sprintf("questions[%d]", i), err.Error())
		}
	}
	return nil
}

func validateQuestion(q Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return Invalid("questionText", "question text is required")
	}
	if len(q.Options) != OptionCount {
		return Invalid("options", fmt.Sprintf("exactly %d options are required", OptionCount))
	}
	// Option texts double as answer identity on submitted results, so
	// duplicates within one question would make grading ambiguous.
	seen := make(map[string]struct{}, OptionCount)
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return Invalid(fmt.Sprintf("options[%d]", i), "option text is required")
		}
		if _, ok := seen[opt]; ok {
			return Invalid(fmt.Sprintf("options[%d]", i), "option texts must be distinct")
		}
		seen[opt] = struct{}{}
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= OptionCount {
		return Invalid("correctAnswer", fmt.Sprintf("correct answer index must be between 0 and %d", OptionCount-1))
	}
	return nil
}
