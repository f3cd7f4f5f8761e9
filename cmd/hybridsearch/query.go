package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hybridsearch/internal/domain"
	"hybridsearch/internal/search"
	"hybridsearch/internal/ui/views"
)

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if logger != nil {
		defer func() { _ = logger.Sync() }()
	}
	if err != nil {
		return err
	}

	mode := domain.ParseMode(modeFlag)
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("query is empty")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := search.NewClient(cfg.BaseURL, cfg.APIKey, cfg.DatasetID, search.WithLogger(logger))
	strategy := search.NewStrategies(client)[mode]

	logger.Info("running one-shot search", zap.Stringer("mode", mode), zap.String("query", query))
	results, err := strategy.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("%s search failed: %w", mode, err)
	}

	printResults(cmd.OutOrStdout(), results, cfg.UISettings.ShowLinks)
	return nil
}

// printResults writes one hit per line, group headers unindented
func printResults(w io.Writer, results domain.ResultSet, showLinks bool) {
	styles := views.NewStyles()
	printItem := func(item domain.ChunkMetadata, indent string) {
		fmt.Fprintf(w, "%s%s\n", indent, views.PlainText(item.ChunkHTML, styles.Highlight.Render))
		if link := item.Target(); showLinks && link != "" {
			fmt.Fprintf(w, "%s  %s\n", indent, link)
		}
	}

	if results == nil || results.Len() == 0 {
		fmt.Fprintln(w, "No results")
		return
	}

	switch set := results.(type) {
	case domain.GroupResults:
		for _, group := range set {
			fmt.Fprintln(w, styles.GroupHeader.Render(group.Name))
			for _, item := range group.Entries {
				printItem(item, "  ")
			}
		}
	default:
		for _, item := range results.Items() {
			printItem(item, "")
		}
	}
}
