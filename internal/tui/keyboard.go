package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/picks/internal/tui/components"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	// ctrl+c always quits, even from a modal that cannot be dismissed
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// Handle state-specific keys
	switch m.State {
	case StateHelp:
		m.State = StateBrowsing
		return m, nil

	case StateConfirmLogout:
		switch {
		case key.Matches(msg, Keys.Confirm):
			return m, LogoutCmd(m.Auth)
		case key.Matches(msg, Keys.Deny):
			m.State = StateBrowsing
		}
		return m, nil
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	// Filter input captures typing
	if m.Grid.IsFilterTyping() {
		return m, m.Grid.UpdateFilter(msg)
	}

	f := m.flags()

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if m.Grid.IsFiltering() {
			m.Grid.ClearFilter()
		}
		return m, nil

	case key.Matches(msg, Keys.Filter):
		return m, m.Grid.ToggleFilter()

	case key.Matches(msg, Keys.Up):
		m.Grid.MoveUp()
	case key.Matches(msg, Keys.Down):
		m.Grid.MoveDown()
	case key.Matches(msg, Keys.Left):
		m.Grid.MoveLeft()
	case key.Matches(msg, Keys.Right):
		m.Grid.MoveRight()
	case key.Matches(msg, Keys.Home):
		m.Grid.Home()
	case key.Matches(msg, Keys.End):
		m.Grid.End()

	case key.Matches(msg, Keys.Open):
		_, listing, ok := m.Grid.Selected()
		if !ok || m.Launcher == nil {
			return m, nil
		}
		m.setStatus("Opening " + listing.Title + " on Amazon…")
		return m, tea.Batch(OpenLinkCmd(m.Launcher, listing.AmazonURL), ClearStatusCmd(statusDuration))

	case key.Matches(msg, Keys.Refresh):
		m.setStatus("Refreshing…")
		return m, tea.Batch(m.refresh(), ClearStatusCmd(statusDuration))

	case key.Matches(msg, Keys.Login):
		if f.IsAuthenticated || m.isLoggingIn() || m.Auth.IsInitializing() {
			return m, nil
		}
		m.loggingIn = true
		return m, LoginCmd(m.Auth, loginTimeout)

	case key.Matches(msg, Keys.Logout):
		if f.IsAuthenticated {
			m.State = StateConfirmLogout
		}
		return m, nil

	case key.Matches(msg, Keys.EditProfile):
		if !f.IsOwner {
			return m, nil
		}
		profile, _ := m.displayedProfile(f)
		if profile.IsNone() {
			return m, nil
		}
		return m, m.ProfileForm.Show(components.ProfileEdit, profile)

	case key.Matches(msg, Keys.AddProduct):
		if !f.IsOwner {
			return m, nil
		}
		return m, m.ProductForm.ShowAdd()

	case key.Matches(msg, Keys.EditProduct):
		if !f.IsOwner {
			return m, nil
		}
		if idx, listing, ok := m.Grid.Selected(); ok {
			return m, m.ProductForm.ShowEdit(idx, listing)
		}

	case key.Matches(msg, Keys.Remove):
		if !f.IsOwner || m.removing >= 0 {
			return m, nil
		}
		if idx, listing, ok := m.Grid.Selected(); ok {
			m.pendingRemove = idx
			m.Confirm.Show("Remove Product?", fmt.Sprintf("Remove %q from your picks?", listing.Title))
		}
	}

	return m, nil
}

// routeToModal sends keys to the open modal, if any
func (m Model) routeToModal(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	if m.Confirm.IsVisible() {
		var confirmed bool
		m.Confirm, confirmed, _ = m.Confirm.Update(msg)
		if !confirmed {
			if !m.Confirm.IsVisible() {
				m.pendingRemove = -1
			}
			return true, m, nil
		}

		idx := m.pendingRemove
		m.pendingRemove = -1
		products := m.Grid.Products()
		if idx < 0 || idx >= len(products) || m.removing >= 0 {
			return true, m, nil
		}
		m.removing = idx
		return true, m, RemoveProductCmd(m.Svc, idx, products[idx].Title, m.timeout)
	}

	if m.ProfileForm.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.ProfileForm, cmd, submitted = m.ProfileForm.Update(msg)
		if !submitted {
			return true, m, cmd
		}
		profile, err := m.ProfileForm.Draft().Profile()
		if err != nil {
			m.ProfileForm.SetError(err)
			return true, m, nil
		}
		m.ProfileForm.SetSubmitting(true)
		return true, m, SaveProfileCmd(m.Svc, profile, m.timeout)
	}

	if m.ProductForm.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.ProductForm, cmd, submitted = m.ProductForm.Update(msg)
		if !submitted {
			return true, m, cmd
		}
		listing, err := m.ProductForm.Draft().Listing()
		if err != nil {
			m.ProductForm.SetError(err)
			return true, m, nil
		}
		m.ProductForm.SetSubmitting(true)
		if m.ProductForm.IsEdit() {
			return true, m, UpdateProductCmd(m.Svc, m.ProductForm.Index(), listing, m.timeout)
		}
		return true, m, AddProductCmd(m.Svc, listing, m.timeout)
	}

	return false, m, nil
}
