package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"wedding-invitation/internal/config"
	"wedding-invitation/internal/handler"
	"wedding-invitation/internal/imagecache"
	"wedding-invitation/internal/models"
	"wedding-invitation/internal/storage"
	"wedding-invitation/internal/whatsapp"
)

func main() {
	showLedger := flag.Bool("ledger", false, "print the demo RSVP ledger and exit")
	flag.Parse()

	boot := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	cfg := config.LoadConfig(boot)
	log := cfg.Logger()

	// Demo-mode RSVPs
	ledger, err := storage.NewStorage(filepath.Join(cfg.DataDir, "demo-rsvps.json"))
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing storage")
	}

	if *showLedger {
		printLedger(ledger)
		return
	}

	deps := handler.Deps{
		Store:  ledger,
		Images: imagecache.New(cfg.ImageCacheSize),
	}

	var wa *whatsapp.Service
	if cfg.WhatsAppNotifyPhone != "" {
		wa, err = whatsapp.NewService(whatsapp.Config{
			DataDir:     cfg.DataDir,
			NotifyPhone: cfg.WhatsAppNotifyPhone,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Error initializing WhatsApp service")
		}
		log.Info().Msg("Connecting to WhatsApp...")
		if err := wa.Connect(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Error connecting to WhatsApp")
		}
		deps.Notifier = wa
	}

	api := handler.NewServer(cfg, deps, log)
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", cfg.ListenAddr).
			Strs("trusted_origins", cfg.TrustedOrigins).
			Str("platform_origin", api.TargetOrigin()).
			Msg("Invitation server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Info().Msg("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Shutdown did not complete")
	}
	if wa != nil {
		wa.Disconnect()
	}
}

func printLedger(ledger *storage.Storage) {
	guests := ledger.GetAllGuests()
	if len(guests) == 0 {
		fmt.Println("No demo RSVPs recorded yet.")
		return
	}

	fmt.Printf("\n📋 Demo RSVPs (%d)\n", len(guests))
	fmt.Println("================================")
	for _, status := range []models.GuestStatus{
		models.GuestAccepted, models.GuestSubmitted, models.GuestDeclined, models.GuestViewed, models.GuestPending,
	} {
		group := ledger.GetGuestsByStatus(status)
		if len(group) == 0 {
			continue
		}
		fmt.Printf("\n%s (%d)\n", status, len(group))
		for _, g := range group {
			name := g.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Printf("  • %s  %s\n", name, g.ID)
			for k, v := range g.RSVPData {
				fmt.Printf("      %s: %v\n", k, v)
			}
		}
	}
}
