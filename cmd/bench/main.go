package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/framenotes"
	"github.com/aretw0/framenotes/internal/metrics"
)

func main() {
	count := flag.Int("count", 1000, "Number of notes to generate")
	blocksPer := flag.Int("blocks", 5, "Text blocks per note")
	adapters := flag.String("adapters", "fs,sqlite", "Comma separated adapters to benchmark")
	keep := flag.Bool("keep", false, "Keep the benchmark data after running")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	notes := generate(*count, *blocksPer)

	for _, adapter := range strings.Split(*adapters, ",") {
		benchDir, err := os.MkdirTemp("", "framenotes_bench_")
		if err != nil {
			panic(err)
		}
		if err := run(adapter, benchDir, notes, logger); err != nil {
			fmt.Printf("%s: %v\n", adapter, err)
		}
		if *keep {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		} else {
			os.RemoveAll(benchDir)
		}
	}
}

func generate(count, blocksPer int) []framenotes.Note {
	now := time.Now().UTC()
	out := make([]framenotes.Note, count)
	for i := range out {
		n := framenotes.Note{
			ID:        uuid.NewString(),
			Title:     fmt.Sprintf("Note %d", i),
			CreatedAt: now,
			UpdatedAt: now.Add(time.Duration(i) * time.Second),
			IsPinned:  i%10 == 0,
			IsHidden:  i%7 == 0,
		}
		for j := 0; j < blocksPer; j++ {
			n.Blocks = append(n.Blocks, framenotes.Block{
				ID:      uuid.NewString(),
				Type:    framenotes.BlockText,
				Content: fmt.Sprintf("Benchmark note %d, block %d.", i, j),
			})
		}
		out[i] = n
	}
	return out
}

func run(adapter, dir string, notes []framenotes.Note, logger *slog.Logger) error {
	ctx := context.Background()
	m := metrics.New()

	env, err := framenotes.New(ctx, dir,
		framenotes.WithAdapter(adapter),
		framenotes.WithLogger(logger),
		framenotes.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	// Run 1: save the whole collection
	start := time.Now()
	if err := env.Bridge.SaveAll(ctx, notes); err != nil {
		return err
	}
	save := time.Since(start)
	env.Close()

	// Run 2: a new instance loads it back, like a new CLI command run
	start = time.Now()
	env, err = framenotes.New(ctx, dir, framenotes.WithAdapter(adapter), framenotes.WithLogger(logger))
	if err != nil {
		return err
	}
	defer env.Close()
	load := time.Since(start)

	// Run 3: one edit through the editor, flushed on back
	start = time.Now()
	e, ok, err := env.App.Open(ctx, notes[len(notes)/2].ID)
	if err != nil || !ok {
		return fmt.Errorf("open failed: %v", err)
	}
	e.SetTitle("edited")
	if _, err := env.App.Back(ctx); err != nil {
		return err
	}
	edit := time.Since(start)

	// Run 4: search
	start = time.Now()
	env.App.SetQuery("block 3")
	visible := env.App.Visible()
	search := time.Since(start)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result [%s] (%d notes):\n", adapter, len(env.Library.Notes()))
	fmt.Printf("  Save:   %v\n", save)
	fmt.Printf("  Load:   %v\n", load)
	fmt.Printf("  Edit:   %v\n", edit)
	fmt.Printf("  Search: %v (%d visible)\n", search, len(visible))
	fmt.Printf("--------------------------------------------------\n")
	return nil
}
