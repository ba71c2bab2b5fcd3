package actor

import (
	"context"
	"sync"

	"github.com/mmcdole/picks/internal/domain"
)

// Memory is an in-process backend with the same rules as the remote one.
// It serves demo mode and tests.
type Memory struct {
	mu       sync.RWMutex
	profiles map[domain.Principal]domain.UserProfile
	products map[domain.Principal][]domain.ProductListing
	roles    map[domain.Principal]domain.UserRole
}

// NewMemory creates an empty backend. The given principals start as admins.
func NewMemory(admins ...domain.Principal) *Memory {
	m := &Memory{
		profiles: make(map[domain.Principal]domain.UserProfile),
		products: make(map[domain.Principal][]domain.ProductListing),
		roles:    make(map[domain.Principal]domain.UserRole),
	}
	for _, p := range admins {
		m.roles[p] = domain.RoleAdmin
	}
	return m
}

// Seed stores a profile and product list for owner, replacing what was there
func (m *Memory) Seed(owner domain.Principal, profile domain.UserProfile, products []domain.ProductListing) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[owner] = profile
	m.products[owner] = append([]domain.ProductListing(nil), products...)
}

// As returns an actor bound to caller. The anonymous principal may only read.
func (m *Memory) As(caller domain.Principal) domain.Actor {
	return &memoryActor{mem: m, caller: caller}
}

func (m *Memory) roleOf(p domain.Principal) domain.UserRole {
	if p.IsAnonymous() {
		return domain.RoleGuest
	}
	if r, ok := m.roles[p]; ok {
		return r
	}
	return domain.RoleUser
}

type memoryActor struct {
	mem    *Memory
	caller domain.Principal
}

func (a *memoryActor) requireUser(method string) error {
	if a.caller.IsAnonymous() {
		return &domain.RemoteError{Method: method, Err: domain.ErrUnauthorized}
	}
	return nil
}

func (a *memoryActor) GetCallerUserProfile(ctx context.Context) (domain.Option[domain.UserProfile], error) {
	if err := a.requireUser(methodGetCallerUserProfile); err != nil {
		return domain.None[domain.UserProfile](), err
	}
	return a.GetUserProfile(ctx, a.caller)
}

func (a *memoryActor) SaveCallerUserProfile(_ context.Context, profile domain.UserProfile) error {
	if err := a.requireUser(methodSaveCallerUserProfile); err != nil {
		return err
	}
	a.mem.mu.Lock()
	defer a.mem.mu.Unlock()
	a.mem.profiles[a.caller] = profile
	return nil
}

func (a *memoryActor) GetUserProfile(_ context.Context, user domain.Principal) (domain.Option[domain.UserProfile], error) {
	a.mem.mu.RLock()
	defer a.mem.mu.RUnlock()
	if p, ok := a.mem.profiles[user]; ok {
		return domain.Some(p), nil
	}
	return domain.None[domain.UserProfile](), nil
}

func (a *memoryActor) GetProducts(_ context.Context, user domain.Principal) ([]domain.ProductListing, error) {
	a.mem.mu.RLock()
	defer a.mem.mu.RUnlock()
	list := a.mem.products[user]
	out := make([]domain.ProductListing, len(list))
	copy(out, list)
	return out, nil
}

func (a *memoryActor) AddProduct(_ context.Context, product domain.ProductListing) error {
	if err := a.requireUser(methodAddProduct); err != nil {
		return err
	}
	a.mem.mu.Lock()
	defer a.mem.mu.Unlock()
	a.mem.products[a.caller] = append(a.mem.products[a.caller], product)
	return nil
}

func (a *memoryActor) UpdateProduct(_ context.Context, index uint64, product domain.ProductListing) error {
	if err := a.requireUser(methodUpdateProduct); err != nil {
		return err
	}
	a.mem.mu.Lock()
	defer a.mem.mu.Unlock()
	list := a.mem.products[a.caller]
	if index >= uint64(len(list)) {
		return &domain.RemoteError{Method: methodUpdateProduct, Err: domain.ErrIndexOutOfRange}
	}
	list[index] = product
	return nil
}

func (a *memoryActor) RemoveProduct(_ context.Context, index uint64) error {
	if err := a.requireUser(methodRemoveProduct); err != nil {
		return err
	}
	a.mem.mu.Lock()
	defer a.mem.mu.Unlock()
	list := a.mem.products[a.caller]
	if index >= uint64(len(list)) {
		return &domain.RemoteError{Method: methodRemoveProduct, Err: domain.ErrIndexOutOfRange}
	}
	next := make([]domain.ProductListing, 0, len(list)-1)
	next = append(next, list[:index]...)
	next = append(next, list[index+1:]...)
	a.mem.products[a.caller] = next
	return nil
}

func (a *memoryActor) GetCallerUserRole(context.Context) (domain.UserRole, error) {
	a.mem.mu.RLock()
	defer a.mem.mu.RUnlock()
	return a.mem.roleOf(a.caller), nil
}

func (a *memoryActor) IsCallerAdmin(context.Context) (bool, error) {
	a.mem.mu.RLock()
	defer a.mem.mu.RUnlock()
	return a.mem.roleOf(a.caller) == domain.RoleAdmin, nil
}

// AssignCallerUserRole is admin-only
func (a *memoryActor) AssignCallerUserRole(_ context.Context, user domain.Principal, role domain.UserRole) error {
	a.mem.mu.Lock()
	defer a.mem.mu.Unlock()
	if a.mem.roleOf(a.caller) != domain.RoleAdmin {
		return &domain.RemoteError{Method: methodAssignCallerUserRole, Err: domain.ErrUnauthorized}
	}
	if _, err := domain.ParseUserRole(string(role)); err != nil {
		return &domain.RemoteError{Method: methodAssignCallerUserRole, Err: err}
	}
	a.mem.roles[user] = role
	return nil
}
