package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/skip2/go-qrcode"

	"github.com/danielhkuo/quickly-vote/api"
	"github.com/danielhkuo/quickly-vote/app"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/dom"
	"github.com/danielhkuo/quickly-vote/query"
	"github.com/danielhkuo/quickly-vote/router"
	"github.com/danielhkuo/quickly-vote/session"
	"github.com/danielhkuo/quickly-vote/views"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Open local storage
	dbConn, err := db.Open(cfg.StorageType, cfg.StorageURL)
	if err != nil {
		slog.Error("storage connection failed", "type", cfg.StorageType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Local storage ready", "type", cfg.StorageType)

	// Restore the stored session
	sess := session.New(db.NewStore(dbConn, cfg.StorageType))
	if err := sess.Restore(context.Background()); err != nil {
		slog.Error("session restore failed", "error", err)
		os.Exit(1)
	}
	if sess.Authenticated() {
		slog.Info("Session restored", "email", sess.Viewer().Email)
	}

	env := &views.Env{
		Doc:     dom.New(),
		Cache:   query.NewClient(),
		API:     api.New(cfg.APIBaseURL, sess),
		Session: sess,
		Nav:     &views.Navigator{},
		QR: func(content string) ([]byte, error) {
			return qrcode.Encode(content, qrcode.Medium, 256)
		},
		PublicURL:    cfg.PublicURL,
		PollInterval: cfg.PollInterval,
		MinBusy:      cfg.MinBusy,
	}
	application := app.New(env)
	defer application.Reset()

	// Create router
	mux := router.NewRouter(application, cfg)

	// Create server
	server := http.Server{
		Handler: mux,
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "api", cfg.APIBaseURL, "public_url", cfg.PublicURL)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
