// Command calc-mcp serves a calculator session as Model Context Protocol
// tools, over stdio or streamable HTTP when CALC_MCP_HTTP_ADDR is set.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/comalice/calculatorx/internal/config"
	"github.com/comalice/calculatorx/internal/core"
	"github.com/comalice/calculatorx/internal/production"
)

const version = "0.1.0"

func main() {
	versionFlag := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *versionFlag {
		fmt.Println("calc-mcp v" + version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		config.Exitf("calc-mcp: %v", err)
	}

	// Stdout carries the protocol; logs go to stderr.
	logger := log.New(os.Stderr, "calc-mcp: ", log.LstdFlags)

	persister, closer, err := production.OpenPersister(cfg.Store, cfg.StateDir)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer closer.Close()

	opts := []core.Option{
		core.WithErrorDelay(cfg.ErrorDelay),
		core.WithQueueSize(cfg.QueueSize),
		core.WithVisualizer(&production.DefaultVisualizer{}),
	}
	if cfg.Verbose {
		opts = append(opts, core.WithLogger(logger))
	}
	if persister != nil {
		opts = append(opts, core.WithPersister(persister))
	}
	rt := core.NewRuntime(cfg.Session, opts...)
	if err := rt.Start(context.Background()); err != nil {
		logger.Fatalf("start session %q: %v", cfg.Session, err)
	}
	defer rt.Stop()

	mcpServer := newMCPServer(rt, version)

	if cfg.MCPHTTPAddr == "" {
		if err := server.ServeStdio(mcpServer); err != nil {
			logger.Printf("server failed: %v", err)
		}
		return
	}

	httpServer := server.NewStreamableHTTPServer(mcpServer)
	logger.Printf("starting HTTP server on %s", cfg.MCPHTTPAddr)
	if err := httpServer.Start(cfg.MCPHTTPAddr); err != nil {
		logger.Printf("HTTP server failed: %v", err)
	}
}
