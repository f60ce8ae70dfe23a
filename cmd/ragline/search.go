package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ragline-ai/go-ragline/pkg/helpers"
	"github.com/ragline-ai/go-ragline/pkg/retrieval"
)

var (
	flagTopK        int
	flagNoThreshold bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a similarity search without generating an answer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cfg, err := commandContext(cmd)
		if err != nil {
			return err
		}

		index, err := buildIndex(ctx, cfg)
		if err != nil {
			return err
		}
		defer index.Close()
		maybeServeMetrics(ctx, index)

		query := args[0]
		results := index.SearchK(ctx, query, flagTopK, !flagNoThreshold)

		reranker := retrieval.NewReranker(retrieval.RerankConfig{
			SemanticWeight: cfg.Retrieval.SemanticWeight,
			LexicalWeight:  cfg.Retrieval.LexicalWeight,
			LengthWeight:   cfg.Retrieval.LengthWeight,
			PositionWeight: cfg.Retrieval.PositionWeight,
			IdealLengthMin: cfg.Retrieval.IdealLengthMin,
			IdealLengthMax: cfg.Retrieval.IdealLengthMax,
		})
		results = reranker.Rerank(ctx, query, results)

		if len(results) == 0 {
			fmt.Println("没有找到相关文档。")
			return nil
		}

		for i, result := range results {
			meta := result.Chunk.Metadata
			fmt.Printf("%d. %s (chunk %d/%d) 相关度: %.3f\n", i+1, meta.Filename, meta.ChunkIndex+1, meta.TotalChunks, result.FinalScore)
			fmt.Printf("   %s\n", helpers.TruncateRunes(result.Chunk.Content, 120))
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&flagTopK, "top-k", "k", 0, "result limit (default from config)")
	searchCmd.Flags().BoolVar(&flagNoThreshold, "no-threshold", false, "disable similarity threshold filtering")
	rootCmd.AddCommand(searchCmd)
}
