package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/booksage/kgforager/internal/config"
	"github.com/booksage/kgforager/internal/graph"
	"github.com/booksage/kgforager/internal/logging"
)

// graphDriver is a graph.Driver that owns a connection.
type graphDriver interface {
	graph.Driver
	Close(ctx context.Context) error
}

type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	out        io.Writer
	openDriver func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (graphDriver, error)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{out: os.Stdout, openDriver: openNeo4j}
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		log.Printf("kgforager: %v", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "kgforager",
		Short:         "Scrape page summaries and write to a graph store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.AddCommand(newForageCmd(a), newGraphCmd(a))
	return root
}

// init loads configuration and builds the logger once per process.
func (a *app) init() error {
	if a.cfg == nil {
		cfg, err := config.GetConfig()
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	if a.logger == nil {
		logger, err := logging.New(a.cfg.LogLevel, a.cfg.LogFormat)
		if err != nil {
			return err
		}
		a.logger = logger
	}
	return nil
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func openNeo4j(ctx context.Context, cfg *config.Config, logger *zap.Logger) (graphDriver, error) {
	d, err := graph.NewNeo4jDriver(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword, cfg.Neo4jDatabase, logger)
	if err != nil {
		return nil, err
	}
	return d, nil
}
