package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreasstove999/artisan-marketplace/internal/cart"
	"github.com/andreasstove999/artisan-marketplace/internal/clients"
	"github.com/andreasstove999/artisan-marketplace/internal/config"
	"github.com/andreasstove999/artisan-marketplace/internal/logging"
	"github.com/andreasstove999/artisan-marketplace/internal/session"
)

// app holds the state shared by every subcommand.
type app struct {
	out io.Writer

	apiURL    string
	sessionID string
	verbose   bool
	jsonOut   bool
	timeout   time.Duration

	logger *zap.Logger
	api    *clients.ContentClient
}

func newRootCmd(out io.Writer) *cobra.Command {
	// flag defaults still need a config when the file is bad; the error is
	// reported once a command runs
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		cfg = config.Default()
	}
	a := &app{out: out, timeout: cfg.UpstreamTimeout}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Browse the artisan marketplace and manage a cart",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return fmt.Errorf("load config: %w", cfgErr)
			}
			return a.init(cfg)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&a.apiURL, "api", cfg.ContentAPIURL, "Content API base URL")
	root.PersistentFlags().StringVar(&a.sessionID, "session", cfg.SessionID, "cart session id")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log requests and cart activity")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print JSON instead of tables")

	root.AddCommand(
		newCartCmd(a),
		newProductsCmd(a),
		newArtisansCmd(a),
		newStoryCmd(a),
		newHealthCmd(a),
	)
	return root
}

func (a *app) init(cfg config.Config) error {
	if a.verbose {
		logger, err := logging.New(logging.Options{Service: "storefront", Env: cfg.AppEnv, Level: "debug", Development: true})
		if err != nil {
			return err
		}
		a.logger = logger
	} else {
		a.logger = zap.NewNop()
	}

	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}
	base, err := newClient(a.apiURL, httpClient)
	if err != nil {
		return err
	}
	a.api = clients.NewContentClient(base)
	return nil
}

// newClient reports a bad base URL as an error instead of panicking.
func newClient(baseURL string, hc *http.Client) (c *clients.Client, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid --api url %q: %v", baseURL, r)
		}
	}()
	return clients.NewClient("content-api", baseURL, hc), nil
}

func (a *app) newStore() *cart.Store {
	return cart.NewStore(a.api, session.Static(a.sessionID), a.logger)
}

// cartContext provisions a cart store for the session on ctx. The initial
// load happens here.
func (a *app) cartContext(ctx context.Context) (context.Context, *cart.Store) {
	store := a.newStore()
	return cart.Provide(session.WithSessionID(ctx, a.sessionID), store), store
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}
