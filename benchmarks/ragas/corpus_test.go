package ragas

import (
	"context"
	"testing"

	"github.com/2jang/Pawsonality/internal/core"
	"github.com/2jang/Pawsonality/internal/embedding"
	"github.com/2jang/Pawsonality/internal/knowledge"
	"github.com/2jang/Pawsonality/internal/personality"
	"github.com/2jang/Pawsonality/internal/retrieval"
)

// newCorpusRunner builds the shipped corpus with the default hash embedder and
// answers without a language model, the same way `kb build` and `ask` do.
func newCorpusRunner(t *testing.T) *BenchmarkRunner {
	t.Helper()

	catalog, err := personality.Default()
	if err != nil {
		t.Fatalf("personality.Default: %v", err)
	}
	docs, err := knowledge.LoadCorpus("../../data/knowledge")
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}
	docs = append(docs, knowledge.TypeDocuments(catalog)...)

	embedder, err := embedding.NewHashEmbedder(embedding.DefaultHashDimension)
	if err != nil {
		t.Fatalf("NewHashEmbedder: %v", err)
	}
	artifact, err := knowledge.NewBuilder(embedder, nil, knowledge.BuilderConfig{Concurrency: 4}).
		Build(context.Background(), docs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	store, err := knowledge.NewStore(artifact)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	composer, err := core.NewComposer(core.Deps{
		Embedder:  embedder,
		Retriever: retrieval.NewLinearRetriever(store),
		Types:     catalog,
		Chunks:    store,
	}, core.DefaultOptions())
	if err != nil {
		t.Fatalf("NewComposer: %v", err)
	}

	runner, err := NewBenchmarkRunner(composer, store, nil, false)
	if err != nil {
		t.Fatalf("NewBenchmarkRunner: %v", err)
	}
	return runner
}

func TestScenariosPassOnShippedCorpus(t *testing.T) {
	runner := newCorpusRunner(t)

	for _, scenario := range GetAllTests() {
		t.Run(scenario.ID, func(t *testing.T) {
			result, err := runner.RunTest(context.Background(), scenario)
			if err != nil {
				t.Fatalf("RunTest: %v", err)
			}
			if result.Status != "PASS" {
				t.Errorf("Status = %s (faithfulness %.2f, recall %.2f, hit %.0f): %v",
					result.Status, result.FaithfulnessScore, result.ContextRecallScore, result.HitRate, result.Details)
			}
			if result.ReciprocalRank != 1.0 {
				t.Errorf("ReciprocalRank = %.2f, want the expected document ranked first (sources %v)",
					result.ReciprocalRank, result.Details["sources"])
			}
		})
	}
}

func TestTypedScenarioStaysWithinType(t *testing.T) {
	runner := newCorpusRunner(t)

	result, err := runner.RunTest(context.Background(), GetCareTest())
	if err != nil {
		t.Fatalf("RunTest: %v", err)
	}
	sources, _ := result.Details["sources"].([]string)
	if len(sources) == 0 {
		t.Fatal("expected cited sources")
	}
	for _, id := range sources {
		if len(id) < 5 || id[:5] != "wtil-" {
			t.Errorf("source %s is outside the WTIL type filter", id)
		}
	}
}
