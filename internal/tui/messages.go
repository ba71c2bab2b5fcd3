package tui

import (
	"github.com/mmcdole/picks/internal/domain"
	"github.com/mmcdole/picks/internal/query"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// SessionRestoredMsg signals that the persisted session has been read
type SessionRestoredMsg struct {
	Err error
}

// CallerProfileLoadedMsg signals that the caller's profile query settled
type CallerProfileLoadedMsg struct {
	Profile domain.Option[domain.UserProfile]
	Err     error
}

// ProfileLoadedMsg signals that another user's profile query settled
type ProfileLoadedMsg struct {
	Owner   domain.Principal
	Profile domain.Option[domain.UserProfile]
}

// ProductsLoadedMsg signals that an owner's product list settled
type ProductsLoadedMsg struct {
	Owner    domain.Principal
	Products []domain.ProductListing
}

// ProfileSavedMsg reports the result of a profile save
type ProfileSavedMsg struct {
	Err error
}

// ProductSavedMsg reports the result of an add or update
type ProductSavedMsg struct {
	Index int // -1 for add
	Err   error
}

// ProductRemovedMsg reports the result of a removal
type ProductRemovedMsg struct {
	Index int
	Title string
	Err   error
}

// LinkCodeMsg carries the code the user must approve to finish logging in
type LinkCodeMsg struct {
	Code    domain.LinkCode
	NextCmd interface{} // Continuation command (tea.Cmd) for later codes
}

// LoginDoneMsg reports the end of a login attempt
type LoginDoneMsg struct {
	Err error
}

// LogoutDoneMsg reports the end of a logout
type LogoutDoneMsg struct {
	Err error
}

// InvalidatedMsg carries cache keys whose queries went stale
type InvalidatedMsg struct {
	Keys []query.Key
}

// LinkOpenedMsg reports the result of opening a product link
type LinkOpenedMsg struct {
	Err error
}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}
