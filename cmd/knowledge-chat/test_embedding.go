package main

import (
	"encoding/json"
	"fmt"

	"github.com/arturoeanton/knowledge-chat/internal/service"
	"github.com/spf13/cobra"
)

// NewTestEmbeddingCmd creates the test-embedding command.
func NewTestEmbeddingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test-embedding",
		Short: "Embed a fixed text and print the vector shape",
		Long:  `Call the configured embedding provider once and print the model, vector length and the first five values.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			// Only the embedder is needed; no database connection is opened.
			docs := service.NewDocumentService(newEmbedder(cfg), nil, ingestTimeout)

			res, err := docs.TestEmbedding(cmd.Context())
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
