package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/picks/internal/domain"
	"github.com/mmcdole/picks/internal/query"
	"github.com/mmcdole/picks/internal/showcase"
	"github.com/mmcdole/picks/internal/tui/components"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
	StateConfirmLogout
)

const (
	defaultTimeout = 30 * time.Second
	loginTimeout   = 10 * time.Minute
	tickInterval   = 100 * time.Millisecond
	statusDuration = 3 * time.Second
	errorDuration  = 6 * time.Second
)

// Options configure a Model beyond its required services
type Options struct {
	// Viewed is the owner whose showcase is displayed; None shows the caller's
	Viewed domain.Option[domain.Principal]

	Launcher LinkOpener
	Restorer Restorer

	Timeout     time.Duration
	GridColumns int
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Services
	Svc      *showcase.Service
	Auth     *showcase.Auth
	Launcher LinkOpener
	restorer Restorer

	// UI Components
	Grid        components.ProductGrid
	ProfileForm components.ProfileForm
	ProductForm components.ProductForm
	Confirm     components.ConfirmModal

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int

	viewed    domain.Option[domain.Principal]
	loggingIn bool
	linkCode  domain.Option[domain.LinkCode]

	// Product removal: pendingRemove awaits confirmation, removing is in flight
	pendingRemove int
	removing      int

	timeout       time.Duration
	invalidations *query.ChannelSubscriber
}

// NewModel creates a new application model and subscribes it to cache
// invalidations.
func NewModel(svc *showcase.Service, auth *showcase.Auth, opts Options) Model {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.GridColumns <= 0 {
		opts.GridColumns = 3
	}

	invalidations := query.NewChannelSubscriber(svc.Cache())

	return Model{
		State:         StateBrowsing,
		Svc:           svc,
		Auth:          auth,
		Launcher:      opts.Launcher,
		restorer:      opts.Restorer,
		Grid:          components.NewProductGrid(opts.GridColumns),
		ProfileForm:   components.NewProfileForm(),
		ProductForm:   components.NewProductForm(),
		Confirm:       components.NewConfirmModal(),
		viewed:        opts.Viewed,
		pendingRemove: -1,
		removing:      -1,
		timeout:       opts.Timeout,
		invalidations: invalidations,
	}
}

// Close stops listening for cache invalidations
func (m Model) Close() {
	m.invalidations.Close()
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	start := m.loadCmds()
	if m.restorer != nil {
		start = RestoreSessionCmd(m.restorer, m.timeout)
	}
	return tea.Batch(
		tea.SetWindowTitle(components.AppTitle),
		start,
		ListenInvalidationsCmd(m.invalidations),
		TickCmd(tickInterval),
	)
}

// Update handles all messages. Presentation flags are derived again after
// every message, so the setup modal always follows the cached profile.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m.updateLayout()
	setupCmd := m.syncSetupModal()
	return m, tea.Batch(cmd, setupCmd)
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(tickInterval)

	case SessionRestoredMsg:
		if msg.Err != nil {
			m.setError(fmt.Sprintf("Could not restore session: %v", msg.Err))
			return m, tea.Batch(m.loadCmds(), ClearStatusCmd(errorDuration))
		}
		return m, m.loadCmds()

	case CallerProfileLoadedMsg:
		if msg.Err == nil {
			return m, nil
		}
		// A setup save went through but its refetch did not; let the
		// user submit again instead of waiting forever.
		if m.ProfileForm.IsVisible() && m.ProfileForm.Mode() == components.ProfileSetup && m.ProfileForm.IsSubmitting() {
			m.ProfileForm.SetError(fmt.Errorf("loading your profile: %w", msg.Err))
		}
		m.setError(ErrMsg{Err: msg.Err, Context: "loading your profile"}.Error())
		return m, ClearStatusCmd(errorDuration)

	case ProfileLoadedMsg:
		return m, nil

	case ProductsLoadedMsg:
		if owner, ok := m.owner().Get(); ok && owner == msg.Owner {
			m.Grid.SetProducts(msg.Products)
		}
		return m, nil

	case InvalidatedMsg:
		return m, tea.Batch(m.refetch(msg.Keys), ListenInvalidationsCmd(m.invalidations))

	case ProfileSavedMsg:
		if msg.Err != nil {
			m.ProfileForm.SetError(msg.Err)
			return m, nil
		}
		// Setup stays open, still submitting, until the refetched profile
		// arrives and the flags close it.
		if m.ProfileForm.Mode() == components.ProfileEdit {
			m.ProfileForm.Hide()
		}
		m.setStatus("Profile saved")
		return m, ClearStatusCmd(statusDuration)

	case ProductSavedMsg:
		if msg.Err != nil {
			m.ProductForm.SetError(msg.Err)
			return m, nil
		}
		m.ProductForm.Hide()
		if msg.Index < 0 {
			m.setStatus("Product added")
		} else {
			m.setStatus("Product updated")
		}
		return m, ClearStatusCmd(statusDuration)

	case ProductRemovedMsg:
		m.removing = -1
		if msg.Err != nil {
			m.setError(fmt.Sprintf("Failed to remove %q: %v", msg.Title, msg.Err))
			return m, ClearStatusCmd(errorDuration)
		}
		m.setStatus(fmt.Sprintf("Removed %q", msg.Title))
		return m, ClearStatusCmd(statusDuration)

	case LinkCodeMsg:
		m.linkCode = domain.Some(msg.Code)
		if next, ok := msg.NextCmd.(tea.Cmd); ok {
			return m, next
		}
		return m, nil

	case LoginDoneMsg:
		m.loggingIn = false
		m.linkCode = domain.None[domain.LinkCode]()
		if msg.Err != nil {
			m.setError(loginErrorMessage(msg.Err))
			return m, ClearStatusCmd(errorDuration)
		}
		m.setStatus("Logged in")
		return m, tea.Batch(m.loadCmds(), ClearStatusCmd(statusDuration))

	case LogoutDoneMsg:
		m.State = StateBrowsing
		if msg.Err != nil {
			m.setError(fmt.Sprintf("Logout failed: %v", msg.Err))
			return m, ClearStatusCmd(errorDuration)
		}
		m.ProfileForm.Hide()
		m.ProductForm.Hide()
		m.Confirm.Hide()
		m.Grid.ClearFilter()
		m.Grid.SetProducts(nil)
		m.setStatus("Logged out")
		return m, tea.Batch(m.loadCmds(), ClearStatusCmd(statusDuration))

	case LinkOpenedMsg:
		if msg.Err != nil {
			m.setError(fmt.Sprintf("Could not open link: %v", msg.Err))
			return m, ClearStatusCmd(errorDuration)
		}
		return m, nil

	case ErrMsg:
		m.setError(msg.Error())
		return m, ClearStatusCmd(errorDuration)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Cursor blink and other component messages go to the open form
	var cmd tea.Cmd
	switch {
	case m.ProfileForm.IsVisible():
		m.ProfileForm, cmd, _ = m.ProfileForm.Update(msg)
	case m.ProductForm.IsVisible():
		m.ProductForm, cmd, _ = m.ProductForm.Update(msg)
	}
	return m, cmd
}

// === Derived state ===

// owner is the principal whose showcase is on screen
func (m Model) owner() domain.Option[domain.Principal] {
	if m.viewed.IsSome() {
		return m.viewed
	}
	return m.Svc.CallerPrincipal()
}

func (m Model) productsState() query.State {
	owner, ok := m.owner().Get()
	if !ok {
		return query.State{}
	}
	return m.Svc.ProductsState(owner)
}

func (m Model) flags() showcase.Flags {
	return showcase.DeriveFlags(showcase.Session{
		Identity:       m.Auth.Identity(),
		IsInitializing: m.Auth.IsInitializing(),
		Viewed:         m.viewed,
		CallerProfile:  m.Svc.CallerProfileState(),
		Products:       m.productsState(),
	})
}

// displayedProfile returns the profile shown in the hero and whether it is
// still loading
func (m Model) displayedProfile(f showcase.Flags) (domain.Option[domain.UserProfile], bool) {
	viewed, ok := m.viewed.Get()
	if !ok {
		return showcase.CachedProfile(m.Svc.CallerProfileState()), f.ProfileLoading
	}
	st := m.Svc.UserProfileState(viewed)
	loading := st.IsLoading() || (!st.Fetched && st.Status != query.StatusError)
	return showcase.CachedProfile(st), loading
}

func (m Model) isLoggingIn() bool {
	return m.loggingIn || m.Auth.IsLoggingIn()
}

// syncSetupModal opens the first-time setup form when the flags ask for it
// and closes it once a profile exists
func (m *Model) syncSetupModal() tea.Cmd {
	f := m.flags()
	if f.ShowProfileSetup && !m.ProductForm.IsVisible() {
		if !m.ProfileForm.IsVisible() {
			return m.ProfileForm.Show(components.ProfileSetup, domain.None[domain.UserProfile]())
		}
		return nil
	}
	if !f.ShowProfileSetup && m.ProfileForm.IsVisible() && m.ProfileForm.Mode() == components.ProfileSetup {
		m.ProfileForm.Hide()
	}
	return nil
}

// === Loading ===

// loadCmds fetches everything the current screen shows
func (m Model) loadCmds() tea.Cmd {
	var cmds []tea.Cmd
	if m.Svc.CallerPrincipal().IsSome() {
		cmds = append(cmds, FetchCallerProfileCmd(m.Svc, m.timeout))
	}
	if viewed, ok := m.viewed.Get(); ok {
		cmds = append(cmds, FetchUserProfileCmd(m.Svc, viewed, m.timeout))
	}
	if owner, ok := m.owner().Get(); ok {
		cmds = append(cmds, FetchProductsCmd(m.Svc, owner, m.timeout))
	}
	return tea.Batch(cmds...)
}

// refetch reloads the queries behind invalidated keys that are on screen
func (m Model) refetch(keys []query.Key) tea.Cmd {
	owner, hasOwner := m.owner().Get()

	var cmds []tea.Cmd
	seen := make(map[query.Key]bool)
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true

		switch {
		case k == showcase.KeyCallerProfile:
			cmds = append(cmds, FetchCallerProfileCmd(m.Svc, m.timeout))
		case hasOwner && m.viewed.IsSome() && k == showcase.UserProfileKey(owner):
			cmds = append(cmds, FetchUserProfileCmd(m.Svc, owner, m.timeout))
		case hasOwner && k == showcase.ProductsKey(owner):
			cmds = append(cmds, FetchProductsCmd(m.Svc, owner, m.timeout))
		}
	}
	return tea.Batch(cmds...)
}

// refresh marks every showcase query stale; the subscription refetches them
func (m Model) refresh() tea.Cmd {
	cache := m.Svc.Cache()
	n := len(cache.Invalidate(showcase.KeyCallerProfile))
	n += len(cache.Invalidate(showcase.PrefixUserProfile))
	n += len(cache.Invalidate(showcase.PrefixProducts))
	if n == 0 {
		return m.loadCmds()
	}
	return nil
}

// === Status ===

func (m *Model) setStatus(s string) {
	m.StatusMsg = s
	m.StatusIsErr = false
}

func (m *Model) setError(s string) {
	m.StatusMsg = s
	m.StatusIsErr = true
}

func loginErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrLinkExpired):
		return "Login code expired, press l to try again"
	case errors.Is(err, domain.ErrAlreadyAuthenticated):
		return "Already logged in"
	}
	return fmt.Sprintf("Login failed: %v", err)
}
