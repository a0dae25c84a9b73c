// ABOUTME: Benchmark runner - plays scenarios through the chat composer
// ABOUTME: Accumulates history across turns and scores the evaluated turn

package ragas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/2jang/Pawsonality/internal/core"
	"github.com/2jang/Pawsonality/internal/models"
)

// Answerer is the subset of the composer the benchmark drives
type Answerer interface {
	ComposeWith(ctx context.Context, req core.Request) models.ChatAnswer
}

// ChunkLookup resolves cited chunk ids to their text
type ChunkLookup interface {
	Get(id string) (models.KnowledgeChunk, bool)
}

// BenchmarkRunner executes benchmark scenarios
type BenchmarkRunner struct {
	chat    Answerer
	chunks  ChunkLookup
	metrics *MetricsCalculator
	logger  *log.Logger
	out     io.Writer
	verbose bool
}

// NewBenchmarkRunner creates a runner over a composer and the chunk store
func NewBenchmarkRunner(chat Answerer, chunks ChunkLookup, logger *log.Logger, verbose bool) (*BenchmarkRunner, error) {
	if chat == nil {
		return nil, errors.New("benchmark runner needs a chat composer")
	}
	if chunks == nil {
		return nil, errors.New("benchmark runner needs a chunk lookup")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &BenchmarkRunner{
		chat:    chat,
		chunks:  chunks,
		metrics: NewMetricsCalculator(),
		logger:  logger,
		out:     os.Stdout,
		verbose: verbose,
	}, nil
}

// SetOutput redirects verbose transcripts
func (r *BenchmarkRunner) SetOutput(w io.Writer) {
	r.out = w
}

// RunTest executes a single scenario
func (r *BenchmarkRunner) RunTest(ctx context.Context, scenario TestScenario) (TestResult, error) {
	if len(scenario.Turns) == 0 {
		return TestResult{}, fmt.Errorf("scenario %s has no turns", scenario.ID)
	}
	if r.verbose {
		fmt.Fprintf(r.out, "\n========================================\n")
		fmt.Fprintf(r.out, "RUNNING: %s\n", scenario.Name)
		fmt.Fprintf(r.out, "========================================\n")
		fmt.Fprintf(r.out, "Description: %s\n\n", scenario.Description)
	}

	var (
		history   []models.ChatTurn
		final     models.ChatAnswer
		evaluated bool
	)

	for _, turn := range scenario.Turns {
		if err := ctx.Err(); err != nil {
			return TestResult{}, err
		}

		if r.verbose {
			fmt.Fprintf(r.out, "[Turn %d] User: %s\n", turn.TurnNumber, turn.UserMessage)
		}

		answer := r.chat.ComposeWith(ctx, core.Request{
			Message:  turn.UserMessage,
			History:  history,
			TypeCode: scenario.TypeCode,
		})

		if r.verbose {
			fmt.Fprintf(r.out, "[Turn %d] Answer (%s, %.2f): %s\n\n",
				turn.TurnNumber, answer.Mode, answer.Confidence, preview(answer.Message, 150))
		}
		r.logger.Debug("turn answered", "scenario", scenario.ID, "turn", turn.TurnNumber, "sources", answer.Sources)

		history = append(history,
			models.ChatTurn{Role: models.RoleUser, Content: turn.UserMessage},
			models.ChatTurn{Role: models.RoleAssistant, Content: answer.Message},
		)

		if turn.TurnNumber == scenario.GroundTruth.FinalQueryTurn {
			final = answer
			evaluated = true
		}
	}

	if !evaluated {
		return TestResult{}, fmt.Errorf("scenario %s has no turn %d", scenario.ID, scenario.GroundTruth.FinalQueryTurn)
	}

	result := r.metrics.EvaluateTest(scenario, final, r.contextTexts(final.Sources))

	if r.verbose {
		fmt.Fprintf(r.out, "RESULTS: %s\n", scenario.Name)
		fmt.Fprintf(r.out, "Faithfulness: %.2f\n", result.FaithfulnessScore)
		fmt.Fprintf(r.out, "Context Recall: %.2f\n", result.ContextRecallScore)
		fmt.Fprintf(r.out, "Hit Rate: %.2f  MRR: %.2f\n", result.HitRate, result.ReciprocalRank)
		fmt.Fprintf(r.out, "Status: %s\n", result.Status)
	}

	return result, nil
}

// contextTexts resolves cited chunk ids, skipping unknown ids
func (r *BenchmarkRunner) contextTexts(sources []string) []string {
	texts := make([]string, 0, len(sources))
	for _, id := range sources {
		if c, ok := r.chunks.Get(id); ok {
			texts = append(texts, c.Title+"\n"+c.Text)
		}
	}
	return texts
}

// RunAllTests executes every scenario; a failing scenario is recorded, not fatal
func (r *BenchmarkRunner) RunAllTests(ctx context.Context) ([]TestResult, error) {
	return r.RunTests(ctx, GetAllTests())
}

// RunTests executes the given scenarios in order
func (r *BenchmarkRunner) RunTests(ctx context.Context, scenarios []TestScenario) ([]TestResult, error) {
	results := make([]TestResult, 0, len(scenarios))
	for _, scenario := range scenarios {
		result, err := r.RunTest(ctx, scenario)
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			r.logger.Error("scenario failed", "scenario", scenario.ID, "err", err)
			result = TestResult{TestID: scenario.ID, TestName: scenario.Name, Status: "FAIL", ErrorMessage: err.Error()}
		}
		results = append(results, result)
	}
	return results, nil
}

// Summary counts passing and failing results
type Summary struct {
	Timestamp  string       `json:"timestamp"`
	TotalTests int          `json:"total_tests"`
	Passed     int          `json:"passed"`
	Failed     int          `json:"failed"`
	MeanMRR    float64      `json:"mean_mrr"`
	Results    []TestResult `json:"results"`
}

// Summarize aggregates results
func Summarize(results []TestResult) Summary {
	s := Summary{
		Timestamp:  time.Now().Format(time.RFC3339),
		TotalTests: len(results),
		Results:    results,
	}
	var rr float64
	for _, result := range results {
		if result.Status == "PASS" {
			s.Passed++
		} else {
			s.Failed++
		}
		rr += result.ReciprocalRank
	}
	if len(results) > 0 {
		s.MeanMRR = rr / float64(len(results))
	}
	return s
}

// ExportResults writes the summary as JSON
func (r *BenchmarkRunner) ExportResults(results []TestResult, outputPath string) error {
	jsonData, err := json.MarshalIndent(Summarize(results), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	r.logger.Info("results exported", "path", outputPath)
	return nil
}

func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
