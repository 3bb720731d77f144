// Package main is the entry point for the CityPulse admin CLI.
// This tool inspects the local store: registered accounts, the session
// snapshot, per-user favorites and the biometric link slot.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/prn-tf/citypulse/internal/config"
	"github.com/prn-tf/citypulse/internal/repository/kv"
	"github.com/prn-tf/citypulse/internal/securestore"
	"github.com/prn-tf/citypulse/internal/storage"
	"github.com/prn-tf/citypulse/internal/storage/postgres"
	"github.com/prn-tf/citypulse/internal/storage/sqlite"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version":
		fmt.Printf("CityPulse Admin CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "users":
		runCommand(cmdUsers)

	case "session":
		runCommand(cmdSession)

	case "favorites":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: citypulse-admin favorites <user-id>")
			os.Exit(1)
		}
		runCommand(func(ctx context.Context, cfg *config.Config, store storage.KV) error {
			return cmdFavorites(ctx, store, os.Args[2])
		})

	case "biometric":
		runCommand(cmdBiometric)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runCommand(fn func(ctx context.Context, cfg *config.Config, store storage.KV) error) {
	ctx := context.Background()
	cfg := config.MustLoad(os.Getenv("CITYPULSE_CONFIG"))

	store, err := openStorage(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := fn(ctx, cfg, store); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.KV, error) {
	if cfg.Database.IsEmbedded() {
		return sqlite.New(ctx, sqlite.Config{
			Path:            cfg.Database.Path,
			JournalMode:     cfg.Database.JournalMode,
			BusyTimeout:     cfg.Database.BusyTimeout,
			SynchronousMode: cfg.Database.SynchronousMode,
		}, zerolog.Nop())
	}
	return postgres.New(ctx, postgres.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	}, zerolog.Nop())
}

func cmdUsers(ctx context.Context, cfg *config.Config, store storage.KV) error {
	users := kv.NewUserRegistry(store, zerolog.Nop()).List(ctx)
	if len(users) == 0 {
		fmt.Println("No registered users.")
		return nil
	}

	for _, u := range users {
		fmt.Printf("%-30s %-20s %s\n", u.Email, u.Name, u.ID)
	}
	return nil
}

func cmdSession(ctx context.Context, cfg *config.Config, store storage.KV) error {
	state, found := kv.NewSnapshotStore(store, zerolog.Nop()).Load(ctx)
	if !found {
		fmt.Println("No session snapshot.")
		return nil
	}

	encoded, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

func cmdFavorites(ctx context.Context, store storage.KV, userID string) error {
	favorites := kv.NewFavoritesRepository(store, zerolog.Nop()).Load(ctx, userID)
	if len(favorites) == 0 {
		fmt.Printf("No favorites for %s.\n", userID)
		return nil
	}

	for _, id := range favorites {
		fmt.Println(id)
	}
	return nil
}

func cmdBiometric(ctx context.Context, cfg *config.Config, store storage.KV) error {
	if cfg.SecureStore.DeviceSecret == "" {
		fmt.Println("No device secret configured; biometric link unavailable.")
		return nil
	}

	secure, err := securestore.NewSealedFile(cfg.SecureStore.Path, cfg.SecureStore.DeviceSecret, zerolog.Nop())
	if err != nil {
		return err
	}

	email, err := secure.Get(ctx)
	if err != nil {
		if errors.Is(err, securestore.ErrEmpty) {
			fmt.Println("Biometric link: not set.")
			return nil
		}
		return err
	}

	fmt.Printf("Biometric link: %s\n", email)
	return nil
}

func printUsage() {
	fmt.Println(`CityPulse Admin CLI

Usage:
  citypulse-admin <command> [arguments]

Commands:
  users       List registered accounts
  session     Print the persisted session snapshot
  favorites   Print the stored favorites for a user ID
  biometric   Show the biometric link slot
  version     Print version information
  help        Show this help message

Examples:
  citypulse-admin users
  citypulse-admin favorites u_0198f2f3-1111-7aaa-8bbb-ccccddddeeee
  citypulse-admin biometric

Configuration is read from CITYPULSE_CONFIG, ./config.yaml or
environment variables, the same as the main daemon.`)
}
