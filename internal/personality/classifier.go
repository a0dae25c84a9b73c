// ABOUTME: Pure scoring of quiz submissions into personality codes
// ABOUTME: Majority vote per axis with a configured tie letter
package personality

import (
	"fmt"
	"sort"
	"strings"

	"github.com/2jang/Pawsonality/internal/models"
)

// Score composes a code from a submission. Every question must be answered
// exactly once (later duplicates win) and no answer may reference an unknown id.
func Score(sub models.Submission, questions []models.Question, axes []models.Axis) (string, error) {
	selections := sub.Selections()

	known := make(map[int]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}

	var unknown []int
	for id := range selections {
		if !known[id] {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		sort.Ints(unknown)
		return "", fmt.Errorf("%w: %v", models.ErrUnknownQuestion, unknown)
	}

	var missing []int
	for _, q := range questions {
		sel, ok := selections[q.ID]
		if !ok {
			missing = append(missing, q.ID)
			continue
		}
		if sel != models.OptionA && sel != models.OptionB {
			return "", fmt.Errorf("%w: question %d selected %q", models.ErrInvalidSelection, q.ID, sel)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: missing answers for questions %v", models.ErrIncompleteSubmission, missing)
	}

	// [0] counts A, [1] counts B
	counts := make(map[string][2]int, len(axes))
	for _, q := range questions {
		c := counts[q.Axis]
		if selections[q.ID] == models.OptionA {
			c[0]++
		} else {
			c[1]++
		}
		counts[q.Axis] = c
	}

	var code strings.Builder
	for _, ax := range axes {
		c := counts[ax.Key]
		switch {
		case c[0] > c[1]:
			code.WriteString(ax.ALetter)
		case c[1] > c[0]:
			code.WriteString(ax.BLetter)
		default:
			code.WriteString(ax.TieLetter())
		}
	}

	return code.String(), nil
}
