// analyze runs the certification pipeline over local text files and
// prints one JSON result per document, for batch runs and debugging
// without a server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"certifi/internal/classify"
	"certifi/internal/pipeline"
	"certifi/internal/platform/logger"
)

func main() {
	claimBased := flag.Bool("claim-based", false, "certify semantic documents through claim evaluation")
	family := flag.String("family", "", "skip classification and force a document family")
	workers := flag.Int("workers", 4, "documents processed concurrently")
	verbose := flag.Bool("v", false, "log pipeline details to stderr")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: analyze [flags] file...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	log := logger.New(level)

	opts := pipeline.Options{UseClaimBased: *claimBased}
	if *family != "" {
		f := classify.Family(*family)
		if !classify.KnownFamily(f) {
			fmt.Fprintf(os.Stderr, "analyze: unknown family %q\n", *family)
			os.Exit(2)
		}
		opts.Family = f
	}

	if err := run(context.Background(), log, opts, *workers, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}
}

type result struct {
	File string `json:"file"`
	pipeline.Projection
}

func run(ctx context.Context, log *slog.Logger, opts pipeline.Options, workers int, files []string) error {
	service := pipeline.NewService(log, nil)

	var mu sync.Mutex
	enc := json.NewEncoder(os.Stdout)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))
	for _, file := range files {
		g.Go(func() error {
			text, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			rec := service.ProcessText(ctx, string(text), opts)

			mu.Lock()
			defer mu.Unlock()
			return enc.Encode(result{File: file, Projection: rec.Projection()})
		})
	}
	return g.Wait()
}
