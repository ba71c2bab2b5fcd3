package tui

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/picks/internal/adapter/actor"
	"github.com/mmcdole/picks/internal/adapter/identity"
	"github.com/mmcdole/picks/internal/domain"
	"github.com/mmcdole/picks/internal/query"
	"github.com/mmcdole/picks/internal/showcase"
	"github.com/mmcdole/picks/internal/tui/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	jane domain.Principal = "jane-principal"
	bob  domain.Principal = "bob-principal"
)

// mockLauncher is a mock of LinkOpener
type mockLauncher struct {
	mock.Mock
}

func newMockLauncher(t *testing.T) *mockLauncher {
	m := &mockLauncher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *mockLauncher) Open(url string) error {
	args := m.Called(url)
	return args.Error(0)
}

var errBackendDown = errors.New("backend unavailable")

// flakySource hands out actors whose calls fail while the matching switch is on
type flakySource struct {
	src           showcase.ActorSource
	failReads     atomic.Bool // caller profile reads
	failSaves     atomic.Bool // profile saves
	failMutations atomic.Bool // product add/update/remove
}

func (s *flakySource) Actor() (domain.Actor, bool) {
	a, ok := s.src.Actor()
	if !ok {
		return nil, false
	}
	return flakyActor{Actor: a, src: s}, true
}

type flakyActor struct {
	domain.Actor
	src *flakySource
}

func (a flakyActor) GetCallerUserProfile(ctx context.Context) (domain.Option[domain.UserProfile], error) {
	if a.src.failReads.Load() {
		return domain.None[domain.UserProfile](), errBackendDown
	}
	return a.Actor.GetCallerUserProfile(ctx)
}

func (a flakyActor) SaveCallerUserProfile(ctx context.Context, p domain.UserProfile) error {
	if a.src.failSaves.Load() {
		return errBackendDown
	}
	return a.Actor.SaveCallerUserProfile(ctx, p)
}

func (a flakyActor) AddProduct(ctx context.Context, l domain.ProductListing) error {
	if a.src.failMutations.Load() {
		return errBackendDown
	}
	return a.Actor.AddProduct(ctx, l)
}

func (a flakyActor) UpdateProduct(ctx context.Context, index uint64, l domain.ProductListing) error {
	if a.src.failMutations.Load() {
		return errBackendDown
	}
	return a.Actor.UpdateProduct(ctx, index, l)
}

// harness drives a Model the way the Bubble Tea runtime would: commands run
// in goroutines and their messages are fed back into Update until the
// program goes quiet.
type harness struct {
	t        *testing.T
	model    Model
	msgs     chan tea.Msg
	mem      *actor.Memory
	id       domain.IdentityProvider
	launcher *mockLauncher
}

func newHarness(t *testing.T, id domain.IdentityProvider, mem *actor.Memory, viewed domain.Option[domain.Principal]) *harness {
	t.Helper()
	return newHarnessWithSource(t, id, mem, actor.NewMemorySource(mem, id), viewed)
}

func newHarnessWithSource(t *testing.T, id domain.IdentityProvider, mem *actor.Memory, src showcase.ActorSource, viewed domain.Option[domain.Principal]) *harness {
	t.Helper()
	cache := query.NewCache(nil)
	svc := showcase.NewService(src, id, cache, nil)
	auth := showcase.NewAuth(id, cache, nil)
	launcher := newMockLauncher(t)

	h := &harness{
		t:        t,
		model:    NewModel(svc, auth, Options{Viewed: viewed, Launcher: launcher, Timeout: time.Second}),
		msgs:     make(chan tea.Msg, 64),
		mem:      mem,
		id:       id,
		launcher: launcher,
	}
	t.Cleanup(h.model.Close)
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	h.run(h.model.Init())
	h.settle()
	return h
}

func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() {
		if msg := cmd(); msg != nil {
			h.msgs <- msg
		}
	}()
}

func (h *harness) send(msg tea.Msg) {
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	h.run(cmd)
}

// settle feeds messages back until nothing arrives for a short while.
// Animation ticks and status expiry are dropped so the loop ends.
func (h *harness) settle() {
	for {
		select {
		case msg := <-h.msgs:
			switch msg := msg.(type) {
			case tea.BatchMsg:
				for _, cmd := range msg {
					h.run(cmd)
				}
			case TickMsg, ClearStatusMsg, tea.QuitMsg:
			default:
				h.send(msg)
			}
		case <-time.After(150 * time.Millisecond):
			return
		}
	}
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		h.send(keyMsg(k))
		h.settle()
	}
}

func (h *harness) typeText(s string) {
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	h.settle()
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func listing(title, url string) domain.ProductListing {
	return domain.ProductListing{Title: title, AmazonURL: url}
}

func TestModel_FirstTimeSetup(t *testing.T) {
	h := newHarness(t, identity.NewLocalSignedIn(jane), actor.NewMemory(), domain.None[domain.Principal]())

	require.True(t, h.model.ProfileForm.IsVisible(), "setup should open for a signed-in caller without a profile")
	assert.Equal(t, components.ProfileSetup, h.model.ProfileForm.Mode())

	// Esc cannot dismiss first-time setup
	h.press("esc")
	require.True(t, h.model.ProfileForm.IsVisible())

	h.typeText("Jane Doe")
	h.press("tab")
	h.typeText("Tech reviewer")
	h.press("tab")
	h.typeText("@janedoe")
	h.press("ctrl+s")

	assert.False(t, h.model.ProfileForm.IsVisible(), "setup should close once the profile is saved")

	saved, err := h.mem.As(jane).GetCallerUserProfile(t.Context())
	require.NoError(t, err)
	profile, ok := saved.Get()
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", profile.DisplayName)
	assert.Equal(t, "@janedoe", profile.SocialHandle)

	view := h.model.View()
	assert.Contains(t, view, "Jane Doe")
	assert.Contains(t, view, "@janedoe")

	// A later refresh must not bring the setup back
	h.press("r")
	assert.False(t, h.model.ProfileForm.IsVisible())
}

func TestModel_SetupBlankNameNeverSubmits(t *testing.T) {
	h := newHarness(t, identity.NewLocalSignedIn(jane), actor.NewMemory(), domain.None[domain.Principal]())
	require.True(t, h.model.ProfileForm.IsVisible())

	h.typeText("   ")
	h.press("ctrl+s")

	assert.True(t, h.model.ProfileForm.IsVisible())
	assert.False(t, h.model.ProfileForm.IsSubmitting())
	saved, err := h.mem.As(jane).GetCallerUserProfile(t.Context())
	require.NoError(t, err)
	assert.True(t, saved.IsNone())
}

func TestModel_FailedSaveKeepsFormOpen(t *testing.T) {
	t.Run("profile", func(t *testing.T) {
		mem := actor.NewMemory()
		mem.Seed(jane, domain.UserProfile{DisplayName: "Jane"}, nil)
		id := identity.NewLocalSignedIn(jane)
		src := &flakySource{src: actor.NewMemorySource(mem, id)}
		h := newHarnessWithSource(t, id, mem, src, domain.None[domain.Principal]())

		src.failSaves.Store(true)
		h.press("p")
		require.True(t, h.model.ProfileForm.IsVisible())
		h.typeText(" Doe")
		h.press("ctrl+s")

		assert.True(t, h.model.ProfileForm.IsVisible())
		assert.False(t, h.model.ProfileForm.IsSubmitting())
		require.Error(t, h.model.ProfileForm.Err())
		assert.Contains(t, h.model.View(), "backend unavailable")
		assert.Equal(t, "Jane Doe", h.model.ProfileForm.Draft().DisplayName, "draft survives for retry")

		src.failSaves.Store(false)
		h.press("ctrl+s")
		assert.False(t, h.model.ProfileForm.IsVisible())
		assert.Contains(t, h.model.View(), "Jane Doe")
	})

	t.Run("add product", func(t *testing.T) {
		mem := actor.NewMemory()
		mem.Seed(jane, domain.UserProfile{DisplayName: "Jane"}, nil)
		id := identity.NewLocalSignedIn(jane)
		src := &flakySource{src: actor.NewMemorySource(mem, id)}
		h := newHarnessWithSource(t, id, mem, src, domain.None[domain.Principal]())

		src.failMutations.Store(true)
		h.press("a")
		h.typeText("Kettle")
		h.press("tab", "tab", "tab", "tab")
		h.typeText("https://amazon.com/dp/1")
		h.press("enter")

		assert.True(t, h.model.ProductForm.IsVisible())
		assert.False(t, h.model.ProductForm.IsSubmitting())
		require.Error(t, h.model.ProductForm.Err())
		assert.Empty(t, h.model.Grid.Products())

		src.failMutations.Store(false)
		h.press("enter")
		assert.False(t, h.model.ProductForm.IsVisible())
		require.Len(t, h.model.Grid.Products(), 1)
	})

	t.Run("update product", func(t *testing.T) {
		mem := actor.NewMemory()
		mem.Seed(jane, domain.UserProfile{DisplayName: "Jane"}, []domain.ProductListing{
			listing("Kettle", "https://amazon.com/dp/1"),
		})
		id := identity.NewLocalSignedIn(jane)
		src := &flakySource{src: actor.NewMemorySource(mem, id)}
		h := newHarnessWithSource(t, id, mem, src, domain.None[domain.Principal]())

		src.failMutations.Store(true)
		h.press("e")
		h.typeText(" Pro")
		h.press("enter")

		assert.True(t, h.model.ProductForm.IsVisible())
		assert.True(t, h.model.ProductForm.IsEdit())
		assert.False(t, h.model.ProductForm.IsSubmitting())
		assert.ErrorIs(t, h.model.ProductForm.Err(), errBackendDown)
		assert.Equal(t, "Kettle", h.model.Grid.Products()[0].Title)
	})
}

func TestModel_SetupRefetchFailureAllowsRetry(t *testing.T) {
	mem := actor.NewMemory()
	id := identity.NewLocalSignedIn(jane)
	src := &flakySource{src: actor.NewMemorySource(mem, id)}
	h := newHarnessWithSource(t, id, mem, src, domain.None[domain.Principal]())
	require.True(t, h.model.ProfileForm.IsVisible())

	src.failReads.Store(true)
	h.typeText("Jane")
	h.press("ctrl+s")

	require.True(t, h.model.ProfileForm.IsVisible())
	assert.False(t, h.model.ProfileForm.IsSubmitting(), "form must not stay locked after the refetch fails")
	assert.ErrorIs(t, h.model.ProfileForm.Err(), errBackendDown)

	src.failReads.Store(false)
	h.press("ctrl+s")
	assert.False(t, h.model.ProfileForm.IsVisible())
	assert.Contains(t, h.model.View(), "Jane")
}

func TestModel_CtrlCQuitsFromSetup(t *testing.T) {
	h := newHarness(t, identity.NewLocalSignedIn(jane), actor.NewMemory(), domain.None[domain.Principal]())
	require.True(t, h.model.ProfileForm.IsVisible())

	_, cmd := h.model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_AddProductAndOpenLink(t *testing.T) {
	mem := actor.NewMemory()
	mem.Seed(jane, domain.UserProfile{DisplayName: "Jane Doe"}, nil)
	h := newHarness(t, identity.NewLocalSignedIn(jane), mem, domain.None[domain.Principal]())

	require.False(t, h.model.ProfileForm.IsVisible())
	assert.Contains(t, h.model.View(), "No products yet")

	h.press("a")
	require.True(t, h.model.ProductForm.IsVisible())
	h.typeText("Sony WH-1000XM5")
	h.press("tab")
	h.typeText("Best noise cancelling")
	h.press("tab")
	h.typeText("$399")
	h.press("tab", "tab")
	h.typeText("https://amazon.com/dp/B09XS7JWHH")
	h.press("enter")

	require.False(t, h.model.ProductForm.IsVisible())
	products := h.model.Grid.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "Sony WH-1000XM5", products[0].Title)
	assert.Equal(t, domain.Some("$399"), products[0].Price)
	assert.Contains(t, h.model.View(), "Sony WH-1000XM5")

	h.launcher.On("Open", "https://amazon.com/dp/B09XS7JWHH").Return(nil).Once()
	h.press("enter")
}

func TestModel_RemoveWithConfirmation(t *testing.T) {
	mem := actor.NewMemory()
	mem.Seed(jane, domain.UserProfile{DisplayName: "Jane Doe"}, []domain.ProductListing{
		listing("Kettle", "https://amazon.com/dp/1"),
		listing("Lamp", "https://amazon.com/dp/2"),
		listing("Mug", "https://amazon.com/dp/3"),
	})
	h := newHarness(t, identity.NewLocalSignedIn(jane), mem, domain.None[domain.Principal]())
	require.Len(t, h.model.Grid.Products(), 3)

	// Declining leaves the list alone
	h.press("x")
	require.True(t, h.model.Confirm.IsVisible())
	h.press("n")
	assert.False(t, h.model.Confirm.IsVisible())
	assert.Len(t, h.model.Grid.Products(), 3)

	h.press("x", "y")

	products := h.model.Grid.Products()
	require.Len(t, products, 2)
	assert.Equal(t, "Lamp", products[0].Title)
	assert.Equal(t, "Mug", products[1].Title)
	assert.Equal(t, -1, h.model.removing)
	assert.Contains(t, h.model.StatusMsg, "Kettle")
}

func TestModel_EditProduct(t *testing.T) {
	mem := actor.NewMemory()
	mem.Seed(jane, domain.UserProfile{DisplayName: "Jane Doe"}, []domain.ProductListing{
		listing("Kettle", "https://amazon.com/dp/1"),
	})
	h := newHarness(t, identity.NewLocalSignedIn(jane), mem, domain.None[domain.Principal]())

	h.press("e")
	require.True(t, h.model.ProductForm.IsVisible())
	assert.True(t, h.model.ProductForm.IsEdit())
	h.typeText(" Pro")
	h.press("enter")

	products := h.model.Grid.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "Kettle Pro", products[0].Title)
}

func TestModel_VisitorIsReadOnly(t *testing.T) {
	mem := actor.NewMemory()
	mem.Seed(bob, domain.UserProfile{DisplayName: "Bob Builder"}, []domain.ProductListing{
		listing("Hammer", "https://amazon.com/dp/h"),
	})
	h := newHarness(t, identity.NewLocal(jane), mem, domain.Some(bob))

	view := h.model.View()
	assert.Contains(t, view, "Bob Builder")
	assert.Contains(t, view, "Hammer")
	assert.False(t, h.model.ProfileForm.IsVisible())

	h.press("a")
	assert.False(t, h.model.ProductForm.IsVisible())
	h.press("x")
	assert.False(t, h.model.Confirm.IsVisible())
	h.press("e", "p")
	assert.False(t, h.model.ProductForm.IsVisible())
	assert.False(t, h.model.ProfileForm.IsVisible())

	// Visitors can still open links
	h.launcher.On("Open", "https://amazon.com/dp/h").Return(nil).Once()
	h.press("enter")
}

func TestModel_LoginThenLogout(t *testing.T) {
	mem := actor.NewMemory()
	mem.Seed(jane, domain.UserProfile{DisplayName: "Jane Doe"}, []domain.ProductListing{
		listing("Kettle", "https://amazon.com/dp/1"),
	})
	h := newHarness(t, identity.NewLocal(jane), mem, domain.None[domain.Principal]())

	assert.Contains(t, h.model.View(), "Login")
	assert.Empty(t, h.model.Grid.Products())

	h.press("l")
	require.True(t, h.model.Auth.IsAuthenticated())
	assert.Len(t, h.model.Grid.Products(), 1)
	assert.Contains(t, h.model.View(), "Jane Doe")

	h.press("L")
	require.Equal(t, StateConfirmLogout, h.model.State)
	h.press("y")

	assert.Equal(t, StateBrowsing, h.model.State)
	assert.False(t, h.model.Auth.IsAuthenticated())
	assert.Empty(t, h.model.Grid.Products())
	assert.Zero(t, h.model.Svc.Cache().Len())
}

func TestModel_FilterNarrowsGrid(t *testing.T) {
	mem := actor.NewMemory()
	mem.Seed(jane, domain.UserProfile{DisplayName: "Jane Doe"}, []domain.ProductListing{
		listing("Kettle", "https://amazon.com/dp/1"),
		listing("Desk Lamp", "https://amazon.com/dp/2"),
	})
	h := newHarness(t, identity.NewLocalSignedIn(jane), mem, domain.None[domain.Principal]())

	h.press("/")
	require.True(t, h.model.Grid.IsFilterTyping())
	h.typeText("lamp")
	h.press("enter")

	idx, l, ok := h.model.Grid.Selected()
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "Desk Lamp", l.Title)

	h.press("esc")
	assert.False(t, h.model.Grid.IsFiltering())
}

func TestModel_HelpScreen(t *testing.T) {
	h := newHarness(t, identity.NewLocal(jane), actor.NewMemory(), domain.None[domain.Principal]())

	h.press("?")
	assert.Equal(t, StateHelp, h.model.State)
	assert.Contains(t, h.model.View(), "View on Amazon")
	h.press("j")
	assert.Equal(t, StateBrowsing, h.model.State)
}

// pendingIdentity issues a link code and waits for approval until released
type pendingIdentity struct {
	mu       sync.Mutex
	release  chan struct{}
	identity domain.Option[domain.Identity]
	busy     bool
}

func (p *pendingIdentity) Login(ctx context.Context, observer domain.LoginObserver) error {
	p.mu.Lock()
	p.busy = true
	p.mu.Unlock()

	observer.OnLinkCode(domain.LinkCode{ID: "pin-1", Code: "WXYZ-1234", URL: "https://id.example.com/link"})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.release:
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.busy = false
	p.identity = domain.Some(domain.Identity{Principal: jane, Delegation: "tok"})
	return nil
}

func (p *pendingIdentity) Clear(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.identity = domain.None[domain.Identity]()
	return nil
}

func (p *pendingIdentity) Identity() domain.Option[domain.Identity] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.identity
}

func (p *pendingIdentity) IsInitializing() bool { return false }

func (p *pendingIdentity) IsLoggingIn() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy
}

func TestModel_LinkCodeShownWhileLoggingIn(t *testing.T) {
	id := &pendingIdentity{release: make(chan struct{})}
	mem := actor.NewMemory()
	mem.Seed(jane, domain.UserProfile{DisplayName: "Jane Doe"}, nil)
	h := newHarness(t, id, mem, domain.None[domain.Principal]())

	h.press("l")
	code, ok := h.model.linkCode.Get()
	require.True(t, ok)
	assert.Equal(t, "WXYZ-1234", code.Code)
	view := h.model.View()
	assert.Contains(t, view, "WXYZ-1234")
	assert.Contains(t, view, "Logging in…")

	// A second press does not start another login
	h.press("l")

	close(id.release)
	h.settle()

	assert.True(t, h.model.Auth.IsAuthenticated())
	assert.True(t, h.model.linkCode.IsNone())
	assert.Equal(t, "Logged in", h.model.StatusMsg)
	assert.Contains(t, h.model.View(), "Jane Doe")
}
