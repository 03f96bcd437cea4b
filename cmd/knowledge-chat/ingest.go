package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	ingestFile  string
	ingestSplit bool
)

// NewIngestCmd creates the ingest command.
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [text]",
		Short: "Add passages to the knowledge base",
		Long: `Embed text and store it as a knowledge-base passage.

Examples:
  knowledge-chat ingest "Data science roles commonly require Python, SQL, and statistics."
  knowledge-chat ingest --file faq.txt --split
  cat notes.txt | knowledge-chat ingest`,
		Args: cobra.MaximumNArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().StringVar(&ingestFile, "file", "", "Read passages from file")
	cmd.Flags().BoolVar(&ingestSplit, "split", false, "Store each blank-line separated paragraph as its own passage")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	var text string
	switch {
	case ingestFile != "":
		data, err := os.ReadFile(ingestFile)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		text = string(data)
	case len(args) > 0:
		text = args[0]
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	passages := []string{text}
	if ingestSplit {
		passages = splitParagraphs(text)
	}
	if len(passages) == 0 || strings.TrimSpace(passages[0]) == "" {
		return fmt.Errorf("nothing to ingest")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	comps, err := buildComponents(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer comps.Close()

	for i, p := range passages {
		if err := comps.docs.Ingest(cmd.Context(), p); err != nil {
			return fmt.Errorf("passage %d: %w", i+1, err)
		}
	}

	slog.Debug("ingest finished", "passages", len(passages))
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Stored %d passage(s)\n", len(passages))
	return nil
}

// splitParagraphs splits text on blank lines and drops empty paragraphs.
func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
