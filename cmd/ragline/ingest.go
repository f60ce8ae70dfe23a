package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ragline-ai/go-ragline/pkg/document"
)

var flagRebuild bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <path>",
	Short: "Index a document file or directory into the knowledge base",
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

		if flagRebuild {
			fmt.Println("Rebuilding collection...")
			if err := index.Rebuild(ctx); err != nil {
				return fmt.Errorf("rebuild failed: %w", err)
			}
		} else if err := index.EnsureReady(ctx); err != nil {
			return fmt.Errorf("preparing collection: %w", err)
		}

		processor := buildProcessor(cfg)
		path := args[0]
		stat, err := os.Stat(path)
		if err != nil {
			return err
		}

		start := time.Now()
		var chunks []document.Chunk
		if stat.IsDir() {
			var stats document.DirectoryStats
			chunks, stats, err = processor.ProcessDirectory(ctx, path)
			if err != nil {
				return err
			}
			fmt.Printf("Processed %d files (%d skipped)\n", stats.ProcessedFiles, stats.SkippedFiles)
		} else {
			chunks, err = processor.Process(ctx, path)
			if err != nil {
				return err
			}
		}
		chunks = processor.Validate(ctx, chunks)

		if len(chunks) == 0 {
			fmt.Println("No chunks to index.")
			return nil
		}
		if !index.AddDocuments(ctx, chunks) {
			return fmt.Errorf("indexing failed, see log for details")
		}

		fmt.Printf("Indexed %d chunks in %s\n", len(chunks), time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	ingestCmd.Flags().BoolVar(&flagRebuild, "rebuild", false, "drop and recreate the collection before indexing")
	rootCmd.AddCommand(ingestCmd)
}
