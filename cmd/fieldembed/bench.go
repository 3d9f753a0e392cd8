package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/jluo41/FieldEmbed/internal/api"
	"github.com/jluo41/FieldEmbed/internal/kernel"
	"github.com/jluo41/FieldEmbed/internal/vecops"
)

func benchCmd() *cli.Command {
	var (
		dim         int64
		vocab       int64
		subUnits    int64
		subFields   int64
		window      int64
		negative    int64
		alpha       float64
		sample      float64
		threads     int64
		sentences   int64
		sentenceLen int64
		epochs      int64
		seed        int64
		cbow        bool
		noSubsample bool
		trackLoss   bool
		addr        string
	)

	flags := append([]cli.Flag{}, loggingFlags()...)
	flags = append(flags,
		&cli.Int64Flag{Name: "dim", Usage: "vector dimension", Value: 100, Destination: &dim},
		&cli.Int64Flag{Name: "vocab", Usage: "synthetic vocabulary size", Value: 5000, Destination: &vocab},
		&cli.Int64Flag{Name: "sub-units", Usage: "sub-unit table size per sub field", Value: 2000, Destination: &subUnits},
		&cli.Int64Flag{Name: "sub-fields", Usage: "number of sub fields", Value: 1, Destination: &subFields},
		&cli.Int64Flag{Name: "window", Aliases: []string{"w"}, Usage: "context window radius", Value: 5, Destination: &window},
		&cli.Int64Flag{Name: "negative", Aliases: []string{"k"}, Usage: "negative samples per token", Value: 5, Destination: &negative},
		&cli.Float64Flag{Name: "alpha", Usage: "learning rate", Value: 0.025, Destination: &alpha},
		&cli.Float64Flag{Name: "sample", Usage: "subsampling rate", Value: 1e-3, Destination: &sample},
		&cli.Int64Flag{Name: "threads", Aliases: []string{"t"}, Usage: "Hogwild worker count", Value: int64(runtime.GOMAXPROCS(0)), Destination: &threads},
		&cli.Int64Flag{Name: "sentences", Usage: "synthetic corpus size", Value: 2000, Destination: &sentences},
		&cli.Int64Flag{Name: "sentence-len", Usage: "tokens per synthetic sentence", Value: 20, Destination: &sentenceLen},
		&cli.Int64Flag{Name: "epochs", Usage: "passes over the corpus", Value: 3, Destination: &epochs},
		&cli.Int64Flag{Name: "seed", Usage: "base PRNG seed", Value: 42, Destination: &seed},
		&cli.BoolFlag{Name: "cbow", Usage: "CBOW-style windows instead of skip-gram", Destination: &cbow},
		&cli.BoolFlag{Name: "no-subsample", Usage: "disable frequency subsampling", Destination: &noSubsample},
		&cli.BoolFlag{Name: "track-loss", Usage: "accumulate running training loss", Value: true, Destination: &trackLoss},
		&cli.StringFlag{Name: "addr", Usage: "serve live status counters on this address", Destination: &addr},
	)

	return &cli.Command{
		Name:  "bench",
		Usage: "Run the training kernel on a synthetic corpus and report throughput",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyBenchConfig(cmd, loadConfig(), &dim, &window, &negative, &threads, &alpha, &sample, &addr)
			log := buildLogger(os.Stderr)

			prec := kernel.Init()
			log.Info("dot/axpy backend selected",
				"precision", prec.String(),
				"cpu", strings.Join(vecops.Features(), ","))

			spec := synthSpec{
				vocab:     int(vocab),
				subUnits:  int(subUnits),
				subFields: int(subFields),
				dim:       int(dim),
				sample:    sample,
				window:    int(window),
				negative:  int(negative),
				skipGram:  !cbow,
				seed:      seed,
			}
			model := buildSynthModel(spec)
			batches, bounds := buildSynthCorpus(spec, int(sentences), int(sentenceLen), 128)

			tracker := api.NewTracker()
			log = log.With("run", tracker.RunID())

			if addr != "" {
				e := echo.New()
				e.Use(middleware.Recover())
				api.NewServer(tracker).Register(e)
				srvCtx, cancel := context.WithCancel(ctx)
				defer cancel()
				go func() {
					sc := echo.StartConfig{Address: addr}
					if err := sc.Start(srvCtx, e); err != nil && srvCtx.Err() == nil {
						log.Error("status server stopped", "err", err)
					}
				}()
				log.Info("serving live status", "addr", addr)
			}

			mode := "skip-gram"
			if cbow {
				mode = "cbow"
			}
			fmt.Println("=== FieldEmbed Benchmark ===")
			fmt.Printf("Mode:      %s, window %d, negative %d\n", mode, window, negative)
			fmt.Printf("Model:     vocab %d, dim %d, %d sub field(s) x %d units\n", vocab, dim, subFields, subUnits)
			fmt.Printf("Corpus:    %d sentences x %d tokens, %d batches\n", sentences, sentenceLen, len(batches))
			fmt.Printf("Workers:   %d (GOMAXPROCS %d)\n", threads, runtime.GOMAXPROCS(0))
			fmt.Printf("Backend:   %s dot/axpy\n", prec)
			fmt.Println()

			trainer := kernel.NewTrainer(nil)
			start := time.Now()
			for epoch := range int(epochs) {
				epochStart := time.Now()
				var wg sync.WaitGroup
				var words atomic.Uint64
				for w := range int(threads) {
					wg.Add(1)
					go func() {
						defer wg.Done()
						// each worker owns its buffers and a view of the
						// shared model so per-call loss reads stay local
						view := *model
						buf := kernel.NewBuffers(len(model.Fields), model.Dim)
						for b := w; b < len(batches); b += int(threads) {
							lossBefore := view.RunningLoss
							truncBefore := view.Truncated
							n, err := trainer.TrainBatch(&view, batches[b], bounds[b], kernel.Params{
								Alpha:     float32(alpha),
								Seed:      uint64(seed) + uint64(epoch*1_000_003+b*7919+w),
								TrackLoss: trackLoss,
								Subsample: !noSubsample,
							}, buf)
							if err != nil {
								log.Error("batch failed", "batch", b, "err", err)
								return
							}
							words.Add(uint64(n))
							tracker.ObserveBatch(n, view.Truncated-truncBefore, view.RunningLoss-lossBefore)
						}
					}()
				}
				wg.Wait()

				elapsed := time.Since(epochStart)
				wps := float64(words.Load()) / elapsed.Seconds()
				snap := tracker.Snapshot()
				log.Info("epoch complete",
					"epoch", epoch+1,
					"words", words.Load(),
					"words_per_sec", fmt.Sprintf("%.0f", wps),
					"loss", fmt.Sprintf("%.2f", snap.RunningLoss))
			}

			total := time.Since(start)
			snap := tracker.Snapshot()
			fmt.Println()
			fmt.Printf("Total:     %s\n", total.Round(time.Millisecond))
			fmt.Printf("Words:     %d (%.0f words/s)\n", snap.WordsTrained, snap.WordsPerSecond)
			if snap.TruncatedWords > 0 {
				fmt.Printf("Truncated: %d\n", snap.TruncatedWords)
			}
			if trackLoss {
				fmt.Printf("Loss:      %.2f\n", snap.RunningLoss)
			}
			return nil
		},
	}
}
