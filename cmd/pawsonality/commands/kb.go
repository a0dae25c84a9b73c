// ABOUTME: Knowledge base commands: build the embedded artifact and show stats
// ABOUTME: Build runs offline; serving processes only load the result
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/2jang/Pawsonality/internal/app"
	"github.com/2jang/Pawsonality/internal/knowledge"
)

var (
	kbCorpusDir string
	kbOutput    string
	kbNoTypes   bool
	kbPath      string
)

// NewKBCmd creates the kb command group
func NewKBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Manage the knowledge base",
		Long: `Build and inspect the knowledge base used by the assistant.

The knowledge base is a JSON artifact of text chunks with embeddings. It is
built offline from the curated corpus plus per-type documents generated from
the catalog, then loaded read-only by serve, ask, explain, chat and mcp.`,
	}

	cmd.AddCommand(newKBBuildCmd(), newKBStatsCmd())
	return cmd
}

func newKBBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the knowledge base artifact",
		Long: `Chunk and embed the curated corpus and the catalog's type documents.

Uses the configured embedder (EMBEDDER=hash or openai). The artifact is
written to --output, PAWSONALITY_KB_PATH, or the XDG data directory.

Examples:
  pawsonality kb build
  pawsonality kb build --output data/knowledge_base.json
  EMBEDDER=openai pawsonality kb build`,
		Args: cobra.NoArgs,
		RunE: runKBBuild,
	}

	cmd.Flags().StringVar(&kbCorpusDir, "corpus", "", "Corpus directory (default PAWSONALITY_CORPUS_DIR)")
	cmd.Flags().StringVarP(&kbOutput, "output", "o", "", "Artifact path")
	cmd.Flags().BoolVar(&kbNoTypes, "no-types", false, "Skip documents generated from the catalog")

	return cmd
}

func runKBBuild(cmd *cobra.Command, args []string) error {
	a, err := loadBase()
	if err != nil {
		return err
	}

	corpusDir := kbCorpusDir
	if corpusDir == "" {
		corpusDir = a.Config.CorpusDir
	}
	docs, err := knowledge.LoadCorpus(corpusDir)
	if err != nil {
		return err
	}
	if !kbNoTypes {
		docs = append(docs, knowledge.TypeDocuments(a.Catalog)...)
	}

	embedder, err := app.NewEmbedder(a.Config)
	if err != nil {
		return err
	}

	output := kbOutput
	if output == "" {
		if output, err = a.Config.DefaultKBOutput(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	builder := knowledge.NewBuilder(embedder, a.Logger, knowledge.BuilderConfig{
		Concurrency: a.Config.EmbeddingConcurrency,
		MaxRetries:  a.Config.EmbeddingMaxRetries,
		RetryDelay:  a.Config.EmbeddingRetryDelay,
	})
	artifact, err := builder.Build(ctx, docs)
	if err != nil {
		return fmt.Errorf("building knowledge base: %w", err)
	}
	if err := knowledge.WriteArtifact(output, artifact); err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), map[string]interface{}{
			"path":      output,
			"documents": len(docs),
			"chunks":    len(artifact.Chunks),
			"embedder":  artifact.Embedder,
			"dimension": artifact.Dimension,
		})
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d chunks from %d documents to %s (%s, %d dimensions)\n",
			len(artifact.Chunks), len(docs), output, artifact.Embedder, artifact.Dimension)
	}
	return nil
}

func newKBStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show knowledge base statistics",
		Long:  `Show chunk counts per personality type and category for a built knowledge base.`,
		Args:  cobra.NoArgs,
		RunE:  runKBStats,
	}

	cmd.Flags().StringVar(&kbPath, "path", "", "Artifact path (default: resolved from config)")

	return cmd
}

func runKBStats(cmd *cobra.Command, args []string) error {
	a, err := loadBase()
	if err != nil {
		return err
	}

	path := kbPath
	if path == "" {
		path = a.Config.ResolveKBPath()
	}
	store, err := knowledge.Load(path)
	if err != nil {
		return err
	}
	stats := store.Stats()

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), stats)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Path:      %s\n", path)
	fmt.Fprintf(out, "Chunks:    %d\n", stats.Chunks)
	fmt.Fprintf(out, "Embedder:  %s\n", stats.Embedder)
	fmt.Fprintf(out, "Dimension: %d\n", stats.Dimension)
	fmt.Fprintf(out, "Untyped:   %d\n\n", stats.Untyped)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "GROUP\tKEY\tCHUNKS\n")
	fmt.Fprintf(w, "-----\t---\t------\n")
	for _, k := range sortedKeys(stats.ByType) {
		fmt.Fprintf(w, "type\t%s\t%d\n", k, stats.ByType[k])
	}
	for _, k := range sortedKeys(stats.ByCategory) {
		fmt.Fprintf(w, "category\t%s\t%d\n", k, stats.ByCategory[k])
	}
	return w.Flush()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
