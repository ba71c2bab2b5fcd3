package tui

import "github.com/mmcdole/picks/internal/domain"

// ChannelLoginObserver adapts domain.LoginObserver to a channel for Bubble Tea.
type ChannelLoginObserver struct {
	ch chan<- domain.LinkCode
}

// NewChannelLoginObserver creates a new channel-based observer.
func NewChannelLoginObserver(ch chan<- domain.LinkCode) *ChannelLoginObserver {
	return &ChannelLoginObserver{ch: ch}
}

// OnLinkCode sends the code to the channel (non-blocking if full).
func (o *ChannelLoginObserver) OnLinkCode(code domain.LinkCode) {
	select {
	case o.ch <- code:
	default: // Non-blocking if channel full
	}
}
