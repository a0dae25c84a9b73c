// ABOUTME: Parses compact answer notations into submissions
// ABOUTME: Accepts "1=A,2=B,..." pairs or one A/B letter per question in catalog order
package personality

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/2jang/Pawsonality/internal/models"
)

// ParseAnswers turns an answer string into a submission. Validation of the
// selections themselves is left to the classifier.
func ParseAnswers(input string, questions []models.Question) (models.Submission, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return models.Submission{}, fmt.Errorf("%w: no answers given", models.ErrIncompleteSubmission)
	}

	if !strings.ContainsAny(input, "=:") {
		letters := []rune(strings.Join(strings.FieldsFunc(input, func(r rune) bool {
			return r == ',' || r == ' '
		}), ""))
		if len(letters) != len(questions) {
			return models.Submission{}, fmt.Errorf("%w: got %d letters for %d questions",
				models.ErrIncompleteSubmission, len(letters), len(questions))
		}
		var sub models.Submission
		for i, q := range questions {
			sub.Answers = append(sub.Answers, models.Answer{QuestionID: q.ID, Selected: string(letters[i])})
		}
		return sub, nil
	}

	var sub models.Submission
	for _, pair := range strings.Split(input, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			key, value, ok = strings.Cut(pair, ":")
		}
		if !ok {
			return models.Submission{}, fmt.Errorf("malformed answer %q, want <id>=<A|B>", pair)
		}
		id, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return models.Submission{}, fmt.Errorf("malformed question id %q: %w", key, err)
		}
		sub.Answers = append(sub.Answers, models.Answer{QuestionID: id, Selected: strings.TrimSpace(value)})
	}
	return sub, nil
}
