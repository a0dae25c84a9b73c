// ABOUTME: RAGAS-style metrics: faithfulness, context recall, hit rate and MRR
// ABOUTME: Deterministic evaluation against scenario ground truth

package ragas

import (
	"fmt"
	"strings"

	"github.com/2jang/Pawsonality/internal/models"
)

// PassThreshold is the minimum faithfulness and recall for a passing scenario
const PassThreshold = 0.9

// MetricsCalculator computes benchmark scores
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateFaithfulness scores (0.0-1.0) whether the answer contains the
// expected phrases and none of the forbidden ones
func (m *MetricsCalculator) CalculateFaithfulness(
	response string,
	expectedInResponse []string,
	forbiddenInResponse []string,
) (float64, string) {
	responseUpper := strings.ToUpper(response)

	missingItems := []string{}
	for _, expected := range expectedInResponse {
		if !strings.Contains(responseUpper, strings.ToUpper(expected)) {
			missingItems = append(missingItems, expected)
		}
	}

	forbiddenFound := []string{}
	for _, forbidden := range forbiddenInResponse {
		if strings.Contains(responseUpper, strings.ToUpper(forbidden)) {
			forbiddenFound = append(forbiddenFound, forbidden)
		}
	}

	switch {
	case len(missingItems) == 0 && len(forbiddenFound) == 0:
		return 1.0, "Perfect faithfulness - response matches expected ground truth"
	case len(missingItems) > 0 && len(forbiddenFound) > 0:
		return 0.0, fmt.Sprintf(
			"Faithfulness failure - missing expected items: %v, forbidden items found: %v",
			missingItems, forbiddenFound,
		)
	case len(missingItems) > 0:
		return 0.5, fmt.Sprintf("Partial faithfulness - missing expected items: %v", missingItems)
	default:
		return 0.5, fmt.Sprintf("Partial faithfulness - forbidden items found: %v", forbiddenFound)
	}
}

// CalculateContextRecall scores (0.0-1.0) the share of expected phrases
// found in the retrieved chunk texts
func (m *MetricsCalculator) CalculateContextRecall(
	retrievedContext []string,
	expectedContextItems []string,
) (float64, string) {
	if len(expectedContextItems) == 0 {
		return 1.0, "No context retrieval required"
	}

	allContext := strings.ToUpper(strings.Join(retrievedContext, " "))

	foundCount := 0
	missingItems := []string{}
	for _, expectedItem := range expectedContextItems {
		if strings.Contains(allContext, strings.ToUpper(expectedItem)) {
			foundCount++
		} else {
			missingItems = append(missingItems, expectedItem)
		}
	}

	recall := float64(foundCount) / float64(len(expectedContextItems))
	if recall == 1.0 {
		return 1.0, "Perfect context recall - all expected items retrieved"
	}

	return recall, fmt.Sprintf(
		"Partial context recall (%.2f) - missing items: %v",
		recall, missingItems,
	)
}

// CalculateHitRate is 1 when any cited source matches an expected document
func (m *MetricsCalculator) CalculateHitRate(sources, expected []string) float64 {
	if len(expected) == 0 {
		return 1.0
	}
	if m.CalculateReciprocalRank(sources, expected) > 0 {
		return 1.0
	}
	return 0.0
}

// CalculateReciprocalRank is 1/rank of the first matching source, 0 if none match
func (m *MetricsCalculator) CalculateReciprocalRank(sources, expected []string) float64 {
	if len(expected) == 0 {
		return 1.0
	}
	for i, id := range sources {
		for _, exp := range expected {
			if sourceMatches(id, exp) {
				return 1.0 / float64(i+1)
			}
		}
	}
	return 0.0
}

// sourceMatches reports whether a chunk id belongs to a document id: either
// the id itself or the id followed by "-" and a chunk number
func sourceMatches(chunkID, docID string) bool {
	if chunkID == docID {
		return true
	}
	n, ok := strings.CutPrefix(chunkID, docID+"-")
	if !ok || n == "" {
		return false
	}
	for _, r := range n {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// EvaluateTest scores the evaluated turn of a scenario
func (m *MetricsCalculator) EvaluateTest(
	scenario TestScenario,
	answer models.ChatAnswer,
	retrievedContext []string,
) TestResult {
	gt := scenario.GroundTruth

	faithfulness, faithfulnessDetail := m.CalculateFaithfulness(
		answer.Message,
		gt.ExpectedInResponse,
		gt.ForbiddenInResponse,
	)
	recall, recallDetail := m.CalculateContextRecall(retrievedContext, gt.ExpectedContextItems)
	hit := m.CalculateHitRate(answer.Sources, gt.ExpectedSources)
	rr := m.CalculateReciprocalRank(answer.Sources, gt.ExpectedSources)

	status := "FAIL"
	if faithfulness >= PassThreshold && recall >= PassThreshold && hit == 1.0 {
		status = "PASS"
	}

	preview := []rune(answer.Message)
	if len(preview) > 200 {
		preview = preview[:200]
	}

	return TestResult{
		TestID:             scenario.ID,
		TestName:           scenario.Name,
		FaithfulnessScore:  faithfulness,
		ContextRecallScore: recall,
		HitRate:            hit,
		ReciprocalRank:     rr,
		OverallScore:       (faithfulness + recall + rr) / 3.0,
		Mode:               answer.Mode,
		Status:             status,
		Details: map[string]any{
			"faithfulness_detail": faithfulnessDetail,
			"recall_detail":       recallDetail,
			"final_response":      string(preview),
			"sources":             answer.Sources,
			"confidence":          answer.Confidence,
			"context_items":       len(retrievedContext),
		},
	}
}
