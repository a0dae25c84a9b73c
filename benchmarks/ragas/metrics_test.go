package ragas

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/2jang/Pawsonality/internal/core"
	"github.com/2jang/Pawsonality/internal/models"
)

func TestCalculateFaithfulness(t *testing.T) {
	m := NewMetricsCalculator()
	tests := []struct {
		name      string
		response  string
		expected  []string
		forbidden []string
		want      float64
	}{
		{"all present", "Increase the DISTANCE to the other dog.", []string{"distance"}, nil, 1.0},
		{"missing", "Give treats.", []string{"distance"}, nil, 0.5},
		{"forbidden", "Keep your distance and punish your dog.", []string{"distance"}, []string{"punish your dog"}, 0.5},
		{"both", "Punish your dog.", []string{"distance"}, []string{"punish your dog"}, 0.0},
		{"nothing expected", "anything", nil, nil, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := m.CalculateFaithfulness(tt.response, tt.expected, tt.forbidden)
			if got != tt.want {
				t.Errorf("CalculateFaithfulness() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalculateContextRecall(t *testing.T) {
	m := NewMetricsCalculator()

	got, _ := m.CalculateContextRecall([]string{"Leash reactivity is common", "use a high-value treat"},
		[]string{"leash reactivity", "high-value treat"})
	if got != 1.0 {
		t.Errorf("full recall = %v, want 1.0", got)
	}

	got, detail := m.CalculateContextRecall([]string{"leash reactivity"}, []string{"leash reactivity", "high-value treat"})
	if got != 0.5 {
		t.Errorf("partial recall = %v, want 0.5", got)
	}
	if !strings.Contains(detail, "high-value treat") {
		t.Errorf("detail %q should name the missing item", detail)
	}

	if got, _ := m.CalculateContextRecall(nil, nil); got != 1.0 {
		t.Errorf("empty expectation recall = %v, want 1.0", got)
	}
}

func TestReciprocalRankAndHitRate(t *testing.T) {
	m := NewMetricsCalculator()
	tests := []struct {
		name     string
		sources  []string
		expected []string
		wantRR   float64
		wantHit  float64
	}{
		{"first", []string{"guide-walking-1", "guide-routine-2"}, []string{"guide-walking"}, 1.0, 1.0},
		{"second", []string{"guide-routine-2", "guide-walking-3"}, []string{"guide-walking"}, 0.5, 1.0},
		{"exact id", []string{"wtil-care"}, []string{"wtil-care"}, 1.0, 1.0},
		{"partial word is not a match", []string{"guide-walking-extra"}, []string{"guide-walk"}, 0.0, 0.0},
		{"longer document id is not a match", []string{"guide-walking-extra-1"}, []string{"guide-walking"}, 0.0, 0.0},
		{"trailing dash is not a match", []string{"guide-walking-"}, []string{"guide-walking"}, 0.0, 0.0},
		{"none", []string{"guide-health-1"}, []string{"guide-walking"}, 0.0, 0.0},
		{"no sources", nil, []string{"guide-walking"}, 0.0, 0.0},
		{"nothing expected", nil, nil, 1.0, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.CalculateReciprocalRank(tt.sources, tt.expected); got != tt.wantRR {
				t.Errorf("CalculateReciprocalRank() = %v, want %v", got, tt.wantRR)
			}
			if got := m.CalculateHitRate(tt.sources, tt.expected); got != tt.wantHit {
				t.Errorf("CalculateHitRate() = %v, want %v", got, tt.wantHit)
			}
		})
	}
}

func TestEvaluateTest(t *testing.T) {
	m := NewMetricsCalculator()
	scenario := GetReactivityTest()
	answer := models.ChatAnswer{
		Message: "Barking at other dogs on walks often comes from fear. Increase the distance and reward calm looks.",
		Sources: []string{"guide-reactivity-2", "guide-walking-1"},
		Mode:    models.ModeRAGOnly,
	}
	contexts := []string{"This is called leash reactivity.", "Give a high-value treat."}

	result := m.EvaluateTest(scenario, answer, contexts)
	if result.Status != "PASS" {
		t.Errorf("Status = %s, want PASS (%v)", result.Status, result.Details)
	}
	if result.ReciprocalRank != 1.0 {
		t.Errorf("ReciprocalRank = %v, want 1.0", result.ReciprocalRank)
	}
	if result.Mode != models.ModeRAGOnly {
		t.Errorf("Mode = %s", result.Mode)
	}

	answer.Sources = []string{"guide-health-1"}
	if result := m.EvaluateTest(scenario, answer, contexts); result.Status != "FAIL" {
		t.Errorf("Status = %s, want FAIL when no expected source is cited", result.Status)
	}
}

type scriptedChat struct {
	answers  []models.ChatAnswer
	requests []core.Request
}

func (s *scriptedChat) ComposeWith(ctx context.Context, req core.Request) models.ChatAnswer {
	s.requests = append(s.requests, req)
	a := s.answers[len(s.requests)-1]
	return a
}

type mapChunks map[string]models.KnowledgeChunk

func (m mapChunks) Get(id string) (models.KnowledgeChunk, bool) {
	c, ok := m[id]
	return c, ok
}

func TestRunTestAccumulatesHistory(t *testing.T) {
	chat := &scriptedChat{answers: []models.ChatAnswer{
		{Message: "Walk at least once a day.", Sources: []string{"guide-walking-1"}, Mode: models.ModeRAGOnly},
		{Message: "Change the route and visit a new area.", Sources: []string{"guide-walking-3"}, Mode: models.ModeRAGOnly},
	}}
	chunks := mapChunks{
		"guide-walking-3": {ID: "guide-walking-3", Title: "Walking", Text: "Change the direction or visit a new area once a week."},
	}

	runner, err := NewBenchmarkRunner(chat, chunks, nil, true)
	if err != nil {
		t.Fatalf("NewBenchmarkRunner: %v", err)
	}
	var out bytes.Buffer
	runner.SetOutput(&out)

	result, err := runner.RunTest(context.Background(), GetFollowUpTest())
	if err != nil {
		t.Fatalf("RunTest: %v", err)
	}

	if len(chat.requests) != 2 {
		t.Fatalf("composer called %d times, want 2", len(chat.requests))
	}
	if got := len(chat.requests[1].History); got != 2 {
		t.Errorf("second turn history = %d turns, want 2", got)
	}
	if got := chat.requests[1].History[0].Content; got != GetFollowUpTest().Turns[0].UserMessage {
		t.Errorf("history starts with %q, want the first user message", got)
	}
	if result.Status != "PASS" {
		t.Errorf("Status = %s, want PASS (%v)", result.Status, result.Details)
	}
	if !strings.Contains(out.String(), "RUNNING: "+GetFollowUpTest().Name) {
		t.Errorf("verbose output missing header: %s", out.String())
	}
}

func TestNewBenchmarkRunnerRequiresDeps(t *testing.T) {
	if _, err := NewBenchmarkRunner(nil, mapChunks{}, nil, false); err == nil {
		t.Error("expected error without a composer")
	}
	if _, err := NewBenchmarkRunner(&scriptedChat{}, nil, nil, false); err == nil {
		t.Error("expected error without a chunk lookup")
	}
}

func TestExportResults(t *testing.T) {
	runner, err := NewBenchmarkRunner(&scriptedChat{}, mapChunks{}, nil, false)
	if err != nil {
		t.Fatalf("NewBenchmarkRunner: %v", err)
	}
	results := []TestResult{
		{TestID: "a", Status: "PASS", ReciprocalRank: 1.0},
		{TestID: "b", Status: "FAIL", ReciprocalRank: 0.5},
	}
	path := filepath.Join(t.TempDir(), "results.json")
	if err := runner.ExportResults(results, path); err != nil {
		t.Fatalf("ExportResults: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read results: %v", err)
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.TotalTests != 2 || s.Passed != 1 || s.Failed != 1 {
		t.Errorf("summary = %+v", s)
	}
	if s.MeanMRR != 0.75 {
		t.Errorf("MeanMRR = %v, want 0.75", s.MeanMRR)
	}
}

func TestGetTest(t *testing.T) {
	if _, ok := GetTest("SEPARATION"); !ok {
		t.Error("GetTest should match case-insensitively")
	}
	if _, ok := GetTest("nope"); ok {
		t.Error("GetTest should reject unknown ids")
	}
	if len(TestIDs()) != len(GetAllTests()) {
		t.Error("TestIDs length mismatch")
	}
}
