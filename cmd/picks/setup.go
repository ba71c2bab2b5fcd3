package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/picks/internal/adapter"
	"github.com/mmcdole/picks/internal/adapter/actor"
	"github.com/mmcdole/picks/internal/domain"
	"github.com/mmcdole/picks/internal/tui/styles"
)

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

// runSetupFlow handles the initial setup when not configured
func runSetupFlow(cfg *adapter.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to My Amazon Picks!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	// Loop until the backend answers
	for {
		backendURL, err := prompt(reader, "Enter the backend URL (e.g., https://picks.example.com): ")
		if err != nil {
			return err
		}
		if backendURL == "" {
			fmt.Println("Backend URL cannot be empty. Please try again.")
			continue
		}

		fmt.Println()
		if err := checkBackendWithSpinner(backendURL, logger); err != nil {
			fmt.Printf("\n✗ Could not reach the backend: %v\n", err)
			fmt.Println("Please check the URL and try again.")
			fmt.Println()
			continue
		}

		cfg.Actor.URL = backendURL
		break
	}

	for cfg.Identity.URL == "" {
		identityURL, err := prompt(reader, "Enter the identity service URL (e.g., https://id.example.com): ")
		if err != nil {
			return err
		}
		if identityURL == "" {
			fmt.Println("Identity service URL cannot be empty. Please try again.")
			continue
		}
		cfg.Identity.URL = identityURL
	}

	if err := adapter.SaveConfig(cfg, configDir()); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run picks again to start the application.")

	return nil
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(strings.TrimSpace(input), "/"), nil
}

// checkBackendWithSpinner asks the backend for the anonymous caller's role
// while showing a spinner
func checkBackendWithSpinner(backendURL string, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	type result struct {
		role domain.UserRole
		err  error
	}
	resultCh := make(chan result, 1)

	go func() {
		role, err := actor.NewClient(backendURL, "", 15*time.Second, logger).GetCallerUserRole(ctx)
		resultCh <- result{role, err}
	}()

	frame := 0
	fmt.Printf("\r%s Contacting backend...", styles.SpinnerFrames[frame])

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case res := <-resultCh:
			fmt.Print(clearSpinnerLine)
			if res.err != nil {
				return res.err
			}
			fmt.Printf("✓ Connected (anonymous role: %s)\n", res.role)
			return nil

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Contacting backend...", styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])

		case <-ctx.Done():
			fmt.Print(clearSpinnerLine)
			return fmt.Errorf("timed out")
		}
	}
}
