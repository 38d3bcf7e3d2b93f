package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sfcoverage/internal/app"
	"sfcoverage/internal/handlers"
	"sfcoverage/internal/salesforce"
	"sfcoverage/internal/session"
	"sfcoverage/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
)

// Cookie signing keys. The cookie only remembers the last viewed org, so a
// per-deployment secret is not required.
var (
	cookieHashKey  = []byte("very-very-very-very-secret-key32")
	cookieBlockKey = []byte("a-lot-of-secret!")
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP reporting server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&flagAddr, "addr", "a", "", "HTTP-server startup address")
	serveCmd.Flags().IntVar(&flagRequestTimeout, "request-timeout", 0, "HTTP request timeout in seconds")
}

func runServe(cmd *cobra.Command, _ []string) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sugar, err := newLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = sugar.Sync() }()

	cli, err := newCLI(cmd, c, sugar)
	if err != nil {
		return err
	}

	tmpl, err := web.ParseTemplates()
	if err != nil {
		return err
	}

	orgService := salesforce.NewOrgService(cli, sugar)
	sessionService := session.NewSessionService(cookieHashKey, cookieBlockKey)
	controller := handlers.NewController(c, orgService, sessionService, tmpl, sugar)

	r := chi.NewRouter()
	app.InitMiddleware(r, c, controller)
	if err := app.Routing(r, controller); err != nil {
		return err
	}

	server := app.CreateServer(c, r, sugar)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-stop:
		sugar.Infof("received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			return err
		}
	}

	return nil
}
