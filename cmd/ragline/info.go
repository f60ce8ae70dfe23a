package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ragline-ai/go-ragline/pkg/config"
	"github.com/ragline-ai/go-ragline/pkg/document"
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Show knowledge base configuration, or inspect a document file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cfg, err := commandContext(cmd)
		if err != nil {
			return err
		}

		if len(args) == 1 {
			return describeFile(ctx, cfg, args[0])
		}

		index, err := buildIndex(ctx, cfg)
		if err != nil {
			return err
		}
		defer index.Close()

		info, err := index.Info(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Collection:      %s (%s)\n", info.Name, info.Backend)
		fmt.Printf("Stored chunks:   %d\n", info.DocumentCount)
		fmt.Printf("Embedding model: %s (%d dims, %s)\n", cfg.Embedding.Model, cfg.Embedding.Dimension, cfg.Embedding.Provider)
		fmt.Printf("LLM:             %s (%s)\n", cfg.LLM.Model, cfg.LLM.Provider)
		fmt.Printf("Top-K:           %d, threshold %.2f\n", cfg.Retrieval.TopK, cfg.Retrieval.SimilarityThreshold)
		return nil
	},
}

// describeFile prints a file summary and, for supported files, the most
// frequent terms in its content.
func describeFile(ctx context.Context, cfg *config.Config, path string) error {
	processor := buildProcessor(cfg)

	info, err := processor.DocumentInfo(path)
	if err != nil {
		return err
	}

	fmt.Printf("File:      %s\n", info.Filename)
	fmt.Printf("Type:      %s (supported: %t)\n", info.Extension, info.Supported)
	fmt.Printf("Size:      %d bytes\n", info.SizeBytes)

	if !info.Supported {
		return nil
	}

	chunks, err := processor.Process(ctx, path)
	if err != nil {
		return err
	}

	var content strings.Builder
	for _, chunk := range chunks {
		content.WriteString(chunk.Content)
		content.WriteString("\n")
	}
	fmt.Printf("Chunks:    %d\n", len(chunks))
	if keywords := document.Keywords(content.String(), 10); len(keywords) > 0 {
		fmt.Printf("Keywords:  %s\n", strings.Join(keywords, ", "))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
