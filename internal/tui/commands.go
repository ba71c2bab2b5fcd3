package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/picks/internal/domain"
	"github.com/mmcdole/picks/internal/query"
	"github.com/mmcdole/picks/internal/showcase"
)

// Command factories for async operations

// Restorer reads a persisted session (implemented by the identity provider)
type Restorer interface {
	Restore(ctx context.Context) error
}

// LinkOpener opens a URL outside the terminal
type LinkOpener interface {
	Open(url string) error
}

// RestoreSessionCmd restores the persisted session
func RestoreSessionCmd(r Restorer, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return SessionRestoredMsg{Err: r.Restore(ctx)}
	}
}

// FetchCallerProfileCmd loads the caller's profile
func FetchCallerProfileCmd(svc *showcase.Service, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		profile, err := svc.FetchCallerProfile(ctx)
		if errors.Is(err, query.ErrDisabled) {
			return nil
		}
		return CallerProfileLoadedMsg{Profile: profile, Err: err}
	}
}

// FetchUserProfileCmd loads another user's profile
func FetchUserProfileCmd(svc *showcase.Service, owner domain.Principal, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		profile, err := svc.FetchUserProfile(ctx, owner)
		if err != nil {
			return queryErr(err, "loading profile")
		}
		return ProfileLoadedMsg{Owner: owner, Profile: profile}
	}
}

// FetchProductsCmd loads an owner's product list
func FetchProductsCmd(svc *showcase.Service, owner domain.Principal, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		products, err := svc.FetchProducts(ctx, owner)
		if err != nil {
			return queryErr(err, "loading products")
		}
		return ProductsLoadedMsg{Owner: owner, Products: products}
	}
}

// queryErr hides disabled queries; they are not failures
func queryErr(err error, what string) tea.Msg {
	if errors.Is(err, query.ErrDisabled) {
		return nil
	}
	return ErrMsg{Err: err, Context: what}
}

// SaveProfileCmd saves the caller's profile
func SaveProfileCmd(svc *showcase.Service, profile domain.UserProfile, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return ProfileSavedMsg{Err: svc.SaveProfile(ctx, profile)}
	}
}

// AddProductCmd appends a listing
func AddProductCmd(svc *showcase.Service, l domain.ProductListing, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return ProductSavedMsg{Index: -1, Err: svc.AddProduct(ctx, l)}
	}
}

// UpdateProductCmd replaces the listing at index
func UpdateProductCmd(svc *showcase.Service, index int, l domain.ProductListing, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return ProductSavedMsg{Index: index, Err: svc.UpdateProduct(ctx, index, l)}
	}
}

// RemoveProductCmd removes the listing at index
func RemoveProductCmd(svc *showcase.Service, index int, title string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return ProductRemovedMsg{Index: index, Title: title, Err: svc.RemoveProduct(ctx, index)}
	}
}

// LoginCmd runs the interactive login. Link codes issued along the way are
// delivered as LinkCodeMsg before the final LoginDoneMsg.
func LoginCmd(auth *showcase.Auth, timeout time.Duration) tea.Cmd {
	codes := make(chan domain.LinkCode, 2)
	observer := NewChannelLoginObserver(codes)

	login := func() tea.Msg {
		defer close(codes)
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return LoginDoneMsg{Err: auth.Login(ctx, observer)}
	}

	return tea.Batch(login, listenForLinkCodeCmd(codes))
}

// listenForLinkCodeCmd reads the next link code, ending when login finishes
func listenForLinkCodeCmd(codes <-chan domain.LinkCode) tea.Cmd {
	return func() tea.Msg {
		code, ok := <-codes
		if !ok {
			return nil
		}
		return LinkCodeMsg{Code: code, NextCmd: listenForLinkCodeCmd(codes)}
	}
}

// LogoutCmd ends the session and clears cached data
func LogoutCmd(auth *showcase.Auth) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return LogoutDoneMsg{Err: auth.Logout(ctx)}
	}
}

// ListenInvalidationsCmd waits for the next batch of invalidated keys
func ListenInvalidationsCmd(sub *query.ChannelSubscriber) tea.Cmd {
	return func() tea.Msg {
		keys, ok := sub.Next()
		if !ok {
			return nil
		}
		return InvalidatedMsg{Keys: keys}
	}
}

// OpenLinkCmd opens a product link in the browser
func OpenLinkCmd(opener LinkOpener, url string) tea.Cmd {
	return func() tea.Msg {
		return LinkOpenedMsg{Err: opener.Open(url)}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
