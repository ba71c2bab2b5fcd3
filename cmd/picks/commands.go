package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/picks/internal/domain"
	"github.com/mmcdole/picks/internal/tui/components"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const commandTimeout = 30 * time.Second

var showCmd = &cobra.Command{
	Use:   "show <principal>",
	Short: "Print a user's profile and product picks",
	Long: `Print a user's profile and product picks without starting the TUI.

Output is styled when stdout is a terminal and plain text otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Print the logged-in principal",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with the identity service",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Inspect or assign backend roles",
	Long: `Inspect or assign backend roles.

  picks role                       print your role (same as "role get")
  picks role admin                 report whether you are an admin
  picks role assign <p> <role>     assign admin, user or guest to a principal`,
	Args: cobra.ArbitraryArgs,
	RunE: runRole,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "picks %s\n", Version)
	},
}

// withApp wires the services, restores the session and runs fn
func withApp(fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if err := a.restore(ctx); err != nil {
		a.logger.Warn("failed to restore session", "error", err)
	}
	return fn(ctx, a)
}

func runShow(cmd *cobra.Command, args []string) error {
	owner := domain.Principal(strings.TrimSpace(args[0]))
	if owner.IsAnonymous() {
		return fmt.Errorf("principal cannot be empty")
	}

	return withApp(func(ctx context.Context, a *app) error {
		profile, err := a.svc.FetchUserProfile(ctx, owner)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		products, err := a.svc.FetchProducts(ctx, owner)
		if err != nil {
			return fmt.Errorf("failed to load products: %w", err)
		}

		out := cmd.OutOrStdout()
		fd := int(os.Stdout.Fd())
		if !term.IsTerminal(fd) {
			printPlain(out, owner, profile, products)
			return nil
		}

		width := 80
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
		printStyled(out, profile, products, width)
		return nil
	})
}

func printPlain(out io.Writer, owner domain.Principal, profile domain.Option[domain.UserProfile], products []domain.ProductListing) {
	if p, ok := profile.Get(); ok {
		fmt.Fprintln(out, p.DisplayName)
		if p.Bio != "" {
			fmt.Fprintln(out, p.Bio)
		}
		if h := p.Handle(); h != "" {
			fmt.Fprintf(out, "@%s\n", h)
		}
	} else {
		fmt.Fprintf(out, "%s has no profile yet\n", owner)
	}
	fmt.Fprintln(out)

	if len(products) == 0 {
		fmt.Fprintln(out, "No products yet")
		return
	}
	for i, l := range products {
		line := fmt.Sprintf("%d. %s", i+1, l.Title)
		if price, ok := l.Price.Get(); ok {
			line += "  " + price
		}
		fmt.Fprintln(out, line)
		if l.Description != "" {
			fmt.Fprintf(out, "   %s\n", l.Description)
		}
		fmt.Fprintf(out, "   %s\n", l.AmazonURL)
	}
}

func printStyled(out io.Writer, profile domain.Option[domain.UserProfile], products []domain.ProductListing, width int) {
	fmt.Fprintln(out, components.RenderProfileHero(components.HeroProps{
		Profile:  profile,
		Visiting: true,
	}, width))

	if len(products) == 0 {
		fmt.Fprintln(out, "  No products yet")
		return
	}

	cardWidth := min(width-4, 60)
	cards := make([]string, len(products))
	for i, l := range products {
		cards[i] = components.RenderProductCard(components.CardProps{Listing: l}, cardWidth)
	}
	fmt.Fprintln(out, lipgloss.NewStyle().Padding(0, 2).Render(lipgloss.JoinVertical(lipgloss.Left, cards...)))
}

func runWhoami(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		p, ok := a.auth.Principal().Get()
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), p)
		return nil
	})
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	// Approval happens in a browser, so allow the full poll window
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Identity.PollTimeout+commandTimeout)
	defer cancel()

	if err := a.restore(ctx); err != nil {
		a.logger.Warn("failed to restore session", "error", err)
	}

	if err := a.auth.Login(ctx, printObserver{out: cmd.OutOrStdout()}); err != nil {
		if errors.Is(err, domain.ErrLinkExpired) {
			return fmt.Errorf("login code expired before it was approved")
		}
		return fmt.Errorf("login failed: %w", err)
	}

	p, _ := a.auth.Principal().Get()
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged in as %s\n", p)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		if !a.auth.IsAuthenticated() {
			fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
			return nil
		}
		if err := a.auth.Logout(ctx); err != nil {
			return fmt.Errorf("logout failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Logged out")
		return nil
	})
}

func runRole(cmd *cobra.Command, args []string) error {
	sub := "get"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "get":
		if len(args) > 1 {
			return fmt.Errorf("usage: picks role get")
		}
	case "admin":
		if len(args) > 1 {
			return fmt.Errorf("usage: picks role admin")
		}
	case "assign":
		if len(args) != 3 {
			return fmt.Errorf("usage: picks role assign <principal> <role>")
		}
	default:
		return fmt.Errorf("unknown role command %q", sub)
	}

	return withApp(func(ctx context.Context, a *app) error {
		out := cmd.OutOrStdout()
		switch sub {
		case "admin":
			admin, err := a.svc.IsCallerAdmin(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, admin)

		case "assign":
			user := domain.Principal(args[1])
			role, err := domain.ParseUserRole(args[2])
			if err != nil {
				return err
			}
			if err := a.svc.AssignRole(ctx, user, role); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Assigned %s to %s\n", role, user)

		default:
			role, err := a.svc.CallerRole(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, role)
		}
		return nil
	})
}
