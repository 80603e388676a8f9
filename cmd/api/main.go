package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"aegis.gg/internal/activity"
	"aegis.gg/internal/auth"
	"aegis.gg/internal/config"
	"aegis.gg/internal/httpapi"
	"aegis.gg/internal/mail"
	"aegis.gg/internal/obs"
)

var version = "0.3.1"

func main() {
	obs.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxConnections)
	db.SetMaxIdleConns(cfg.Database.MaxConnections)
	db.SetConnMaxLifetime(30 * time.Minute)

	codec, err := auth.NewTokenCodec(cfg.JWT.Secret, cfg.JWT.ExpirationDays)
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	store := auth.NewPGStore(db)
	feed := activity.NewFeed()
	sink := auth.NewAuditSink(store.Audit(context.Background()),
		auth.WithAuditFanout(func(e auth.AuditEntry) {
			feed.Publish(activity.FromAudit(e))
		}),
	)
	svc, err := auth.NewService(store, codec, sink,
		auth.WithMailer(mail.New(cfg.SMTP)),
	)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}

	resolver := auth.NewPermissionResolver(auth.DefaultPermissions())
	api := httpapi.New(svc, resolver, httpapi.ReadyProbe{DB: db}, version, codec.TTL())
	api.Handle("/admin/activity/stream", activity.SSEHandler(feed))

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting aegis-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	sink.Close()
	_ = db.Close()
	log.Println("Stopped")
}
