// ABOUTME: Admin CLI for taskhub user and token management
// ABOUTME: Operates directly on the SQLite store, not through the HTTP API

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/taskhub/taskhub/internal/config"
	"github.com/taskhub/taskhub/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "users":
		err = cmdUsers(args)
	case "tokens":
		err = cmdTokens(args)
	case "stats":
		err = cmdStats()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	yellow := color.New(color.FgYellow)

	fmt.Println("Usage: taskhub-admin <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  users                    List all registered users")
	fmt.Println("  users list               List all registered users")
	fmt.Println("  users inspect <email>    Show one user in detail")
	fmt.Println("  tokens list <email>      List a user's API tokens")
	fmt.Println("  tokens revoke <id>       Revoke an API token by ID")
	fmt.Println("  stats                    Show store totals")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  TASKHUB_DB               SQLite database path (overrides config)")
	fmt.Println("  TASKHUB_CONFIG           Config file path")
}

// openStore opens the SQLite store from TASKHUB_DB or the server config file.
func openStore() (*store.SQLiteStore, error) {
	if dbPath := os.Getenv("TASKHUB_DB"); dbPath != "" {
		return store.NewSQLiteStore(dbPath)
	}

	configPath := os.Getenv("TASKHUB_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("set TASKHUB_DB or TASKHUB_CONFIG")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return store.NewSQLiteStore(cfg.Database.Path)
}

func cmdUsers(args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := context.Background()

	switch sub {
	case "list":
		users, err := s.ListUsers(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tCREATED")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.CreatedAt.Format(time.RFC3339))
		}
		return w.Flush()

	case "inspect":
		if len(args) < 2 {
			return fmt.Errorf("usage: taskhub-admin users inspect <email>")
		}
		u, err := s.GetUserByEmail(ctx, args[1])
		if err != nil {
			return err
		}
		cyan := color.New(color.FgCyan)
		cyan.Printf("User %s\n", u.ID)
		fmt.Printf("  Name:    %s\n", u.Name)
		fmt.Printf("  Email:   %s\n", u.Email)
		fmt.Printf("  Created: %s\n", u.CreatedAt.Format(time.RFC3339))
		fmt.Printf("  Updated: %s\n", u.UpdatedAt.Format(time.RFC3339))

		tokens, err := s.ListAPITokensForUser(ctx, u.ID)
		if err != nil {
			return err
		}
		fmt.Printf("  Tokens:  %d\n", len(tokens))
		return nil

	default:
		return fmt.Errorf("unknown users subcommand: %s", sub)
	}
}

func cmdTokens(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: taskhub-admin tokens <list|revoke> ...")
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := context.Background()

	switch args[0] {
	case "list":
		if len(args) < 2 {
			return fmt.Errorf("usage: taskhub-admin tokens list <email>")
		}
		u, err := s.GetUserByEmail(ctx, args[1])
		if err != nil {
			return err
		}
		tokens, err := s.ListAPITokensForUser(ctx, u.ID)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tLAST USED\tCREATED")
		for _, t := range tokens {
			lastUsed := "never"
			if t.LastUsedAt != nil {
				lastUsed = t.LastUsedAt.Format(time.RFC3339)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Name, lastUsed, t.CreatedAt.Format(time.RFC3339))
		}
		return w.Flush()

	case "revoke":
		if len(args) < 2 {
			return fmt.Errorf("usage: taskhub-admin tokens revoke <token-id>")
		}
		if err := s.DeleteAPIToken(ctx, args[1]); err != nil {
			return err
		}
		color.Green("Token %s revoked\n", args[1])
		return nil

	default:
		return fmt.Errorf("unknown tokens subcommand: %s", args[0])
	}
}

func cmdStats() error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	count, err := s.CountUsers(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("users: %d\n", count)
	return nil
}
