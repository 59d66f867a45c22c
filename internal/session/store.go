package session

// Package session implements the session state layer: the authoritative
// in-memory record of the current identity and resolved role, the role
// resolver, and the access gate evaluated for every protected navigation.

import (
	"context"
	"log/slog"
	"sync"

	domainauth "github.com/hosteldesk/hosteldesk/internal/domain/auth"
	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
	"github.com/hosteldesk/hosteldesk/internal/ports"
)

// Snapshot is an immutable view of the current session state.
// Role is meaningful only when Identity is non-nil; an invalid (empty) Role
// with a present Identity means the role is unresolved and grants nothing.
type Snapshot struct {
	Identity  *domainauth.Identity
	Role      domainauth.Role
	Resolving bool
}

// Authenticated reports whether an identity is present.
func (s Snapshot) Authenticated() bool { return s.Identity != nil }

// Store holds the session state for the current principal. It has exactly one
// writer path (OnIdentityChange) and any number of readers. A mutex serializes
// mutations; role resolution runs asynchronously and is tagged with a
// generation counter so a completion for a superseded identity change is
// discarded instead of overwriting newer state.
type Store struct {
	resolver ports.RoleResolver
	logger   *slog.Logger

	mu        sync.Mutex
	gen       uint64
	snap      Snapshot
	nextID    int
	subs      map[int]func(Snapshot)
	pending   []Snapshot
	notifying bool
}

// StoreOptions groups dependencies for Store.
type StoreOptions struct {
	Resolver ports.RoleResolver // Required: role lookup per identity change
	Logger   *slog.Logger       // Optional: structured logger
}

// NewStore constructs a session Store.
func NewStore(opts StoreOptions) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		resolver: opts.Resolver,
		logger:   logger.With("component", "session_store"),
		subs:     make(map[int]func(Snapshot)),
	}
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Subscribe registers fn to be invoked after every state change. The returned
// function removes the subscription. Callbacks run outside the store lock, in
// transition order for any single writer.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// OnIdentityChange replaces the session for a new identity. A nil identity
// clears the session synchronously (logout / no-session state); any role
// resolution still in flight for a previous identity is invalidated either
// way. A non-nil identity sets resolving=true and triggers exactly one role
// resolution for this change.
func (s *Store) OnIdentityChange(ctx context.Context, identity *domainauth.Identity) {
	s.mu.Lock()
	s.gen++
	gen := s.gen

	if identity == nil {
		s.snap = Snapshot{}
		s.notifyLocked()
		s.mu.Unlock()
		return
	}

	id := *identity
	s.snap = Snapshot{Identity: &id, Resolving: true}
	s.notifyLocked()
	s.mu.Unlock()

	go s.resolve(ctx, gen, id.ID)
}

// resolve performs the role lookup for one identity change and publishes the
// result unless a newer change has superseded it.
func (s *Store) resolve(ctx context.Context, gen uint64, identityID string) {
	role, err := s.resolver.Resolve(ctx, identityID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		// A newer identity change arrived while this lookup was in flight.
		return
	}

	if err != nil {
		// Soft failure: unresolved grants no role. Not retried.
		if !apperrors.IsNotFound(err) {
			s.logger.Warn("role resolution failed", "identity_id", identityID, "error", err)
		}
		role = ""
	}

	s.snap.Role = role
	s.snap.Resolving = false
	s.notifyLocked()
}

// notifyLocked queues the current snapshot for delivery to subscribers. The
// caller holds the lock. A single drain goroutine delivers queued snapshots in
// order, outside the lock, so subscribers may safely call back into the store.
func (s *Store) notifyLocked() {
	s.pending = append(s.pending, s.snap)
	if s.notifying {
		return
	}
	s.notifying = true
	go s.drain()
}

func (s *Store) drain() {
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.notifying = false
			s.mu.Unlock()
			return
		}
		snap := s.pending[0]
		s.pending = s.pending[1:]
		fns := make([]func(Snapshot), 0, len(s.subs))
		for _, fn := range s.subs {
			fns = append(fns, fn)
		}
		s.mu.Unlock()

		for _, fn := range fns {
			fn(snap)
		}
	}
}
