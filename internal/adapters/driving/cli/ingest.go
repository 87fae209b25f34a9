package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docqa-cli/internal/logger"
)

var ingestWatch bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest documents into the index",
	Long: `Ingests a file, or every supported file under a directory, into the
hybrid index. Re-ingesting a document replaces its previous chunks.

With no path argument the corpus path from the config file is used.
With --watch, after the initial ingest the path is watched and changed
files are re-ingested until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "keep watching the path and re-ingest changes")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	p, err := getPipeline()
	if err != nil {
		return err
	}

	path := appCfg.Corpus.Path
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return errors.New("no path given and corpus.path is not configured")
	}

	report, err := p.IngestPath(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	printReport(cmd, report)

	if !ingestWatch {
		return nil
	}
	return watchPath(cmd.Context(), cmd, p, path)
}

func printReport(cmd *cobra.Command, report driving.BatchIngestReport) {
	total := 0
	for _, res := range report.Succeeded {
		cmd.Printf("  indexed %s (%d chunks)\n", res.DocumentID, res.ChunksIndexed)
		total += res.ChunksIndexed
	}
	for _, skipped := range report.Skipped {
		cmd.Println(sourceStyle.Render("  skipped " + skipped + " (unsupported format)"))
	}

	// Deterministic order for the failure list.
	failed := make([]string, 0, len(report.Failed))
	for path := range report.Failed {
		failed = append(failed, path)
	}
	sort.Strings(failed)
	for _, path := range failed {
		cmd.Println(failStyle.Render(fmt.Sprintf("  failed  %s: %s", path, report.Failed[path])))
	}

	cmd.Printf("Ingested %d documents, %d chunks (%d skipped, %d failed)\n",
		len(report.Succeeded), total, len(report.Skipped), len(report.Failed))
}

// watchPath re-ingests files as they change until the context ends.
func watchPath(ctx context.Context, cmd *cobra.Command, p driving.Pipeline, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %q: %w", path, err)
	}

	// Watch the directory itself plus any subdirectories.
	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watching %q: %w", path, err)
	}
	if info.IsDir() {
		err := filepath.WalkDir(path, func(sub string, d os.DirEntry, err error) error {
			if err != nil || !d.IsDir() || sub == path {
				return err
			}
			return watcher.Add(sub)
		})
		if err != nil {
			return fmt.Errorf("watching subdirectories: %w", err)
		}
	}

	cmd.Printf("Watching %s for changes (ctrl-c to stop)\n", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleWatchEvent(ctx, cmd, p, watcher, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

func handleWatchEvent(ctx context.Context, cmd *cobra.Command, p driving.Pipeline, watcher *fsnotify.Watcher, event fsnotify.Event) {
	switch {
	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		if removed, err := p.Remove(ctx, event.Name); err == nil && removed > 0 {
			cmd.Printf("  removed %s (%d chunks)\n", event.Name, removed)
		}

	case event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil {
			return
		}
		if info.IsDir() {
			watcher.Add(event.Name) //nolint:errcheck
			return
		}
		report, err := p.IngestPath(ctx, event.Name)
		if err != nil {
			logger.Warn("Re-ingest failed for %s: %v", event.Name, err)
			return
		}
		printReport(cmd, report)
	}
}
