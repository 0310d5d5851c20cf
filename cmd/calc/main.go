// Command calc is a terminal calculator. It reads key tokens from stdin
// ("12+3=", "Enter", "negate", ...) and prints the display after each one.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/comalice/calculatorx"
	"github.com/comalice/calculatorx/internal/config"
	"github.com/comalice/calculatorx/internal/core"
	"github.com/comalice/calculatorx/internal/extensibility"
	"github.com/comalice/calculatorx/internal/production"
)

func main() {
	dotFlag := flag.Bool("dot", false, "print the Graphviz chart and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		config.Exitf("calc: %v", err)
	}

	logger := log.New(io.Discard, "", 0)
	if cfg.Verbose {
		logger = log.New(os.Stderr, "calc: ", log.LstdFlags)
	}

	persister, closer, err := production.OpenPersister(cfg.Store, cfg.StateDir)
	if err != nil {
		config.Exitf("calc: %v", err)
	}
	defer closer.Close()

	var sink calculatorx.Sink = extensibility.NewWriterSink(os.Stdout)
	if cfg.Verbose {
		sink = extensibility.NewLoggingSink(sink, logger)
	}

	publishChan := make(chan production.PublishedEvent, cfg.QueueSize)
	opts := []core.Option{
		core.WithSink(sink),
		core.WithLogger(logger),
		core.WithErrorDelay(cfg.ErrorDelay),
		core.WithQueueSize(cfg.QueueSize),
		core.WithPublisher(production.NewChannelPublisher(publishChan)),
		core.WithVisualizer(&production.DefaultVisualizer{}),
	}
	if persister != nil {
		opts = append(opts, core.WithPersister(persister))
	}
	rt := core.NewRuntime(cfg.Session, opts...)

	if *dotFlag {
		fmt.Print(rt.Visualize())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rt.Start(ctx); err != nil {
		log.Printf("calc: %v", err)
		return
	}
	defer rt.Stop()

	go func() {
		for pe := range publishChan {
			logger.Printf("%s: %s (%s) -> %q", pe.Metadata.SessionID, pe.Metadata.Trigger, pe.Metadata.Transition, pe.Metadata.Display)
		}
	}()

	src := extensibility.NewKeyReaderSource(os.Stdin, cfg.QueueSize)
	defer src.Stop()

	for {
		select {
		case ev, ok := <-src.Events():
			if !ok {
				if err := src.Err(); err != nil {
					log.Printf("calc: read input: %v", err)
				}
				return
			}
			if _, err := rt.Do(ctx, ev); err != nil {
				log.Printf("calc: %s: %v", ev, err)
				return
			}
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "\nShutting down gracefully...")
			return
		}
	}
}
