// Package store holds the in-memory seat-hold state shared by every
// connection on the gateway.  A hold is a temporary single-holder claim on
// a seat: created on select, removed on unselect, on disconnect of its
// holder, or when the booking system confirms the seat.  Holds live only
// for the lifetime of the process; confirmed bookings are authoritative in
// the surrounding booking system, not here.
package store

import (
	"sort"
	"sync"
	"time"
)

// HoldResult reports the outcome of a hold attempt.  Admission control is
// first-writer-wins: a seat already held by anyone, including the same
// holder asking twice, is reported as taken.
type HoldResult int

const (
	// HoldOK means the seat was free and is now held by the caller.
	HoldOK HoldResult = iota
	// SeatTaken means the seat is already held and nothing changed.
	SeatTaken
)

// ReleaseResult reports the outcome of a release attempt.  Only the holder
// of a seat may free it; these variants let callers and tests distinguish
// an ownership violation from a release of a seat nobody holds, even when
// the gateway chooses to stay silent on both.
type ReleaseResult int

const (
	// ReleaseOK means the caller held the seat and it is now free.
	ReleaseOK ReleaseResult = iota
	// NotHolder means the seat is held by a different holder; no change.
	NotHolder
	// NotHeld means the seat was not held at all; no change.
	NotHeld
)

// Store maps room identifiers to their seat-hold tables.  It is the only
// mutable shared state in the process.  A Store is constructed once at
// startup and handed to the gateway; nothing reaches it through package
// globals, so tests can run isolated instances side by side.
//
// The gateway already serializes every mutation, but the Store carries its
// own lock so it is safe to exercise directly and stays correct if a
// second entry point is ever added.
type Store struct {
	mu    sync.RWMutex
	rooms map[string]*roomState
	now   func() time.Time // swapped out by tests that drive the sweep
}

// roomState is one room's seat table plus the activity timestamp used by
// the idle sweep.  A seat key is present iff exactly one holder currently
// holds it; absence means available.
type roomState struct {
	seats      map[string]string // seat id -> holder id
	lastActive time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		rooms: make(map[string]*roomState),
		now:   time.Now,
	}
}

// getOrCreate returns the room's state, creating it lazily on first use and
// stamping its activity.  Callers must hold the write lock.
func (s *Store) getOrCreate(room string) *roomState {
	rs, ok := s.rooms[room]
	if !ok {
		rs = &roomState{seats: make(map[string]string)}
		s.rooms[room] = rs
	}
	rs.lastActive = s.now()
	return rs
}

// Touch creates the room lazily and marks it active.  The gateway calls it
// on join so a room full of spectators who never select a seat is not swept
// out from under them.
func (s *Store) Touch(room string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreate(room)
}

// RoomState returns a copy of the room's seat-to-holder mapping, empty if
// the room has never been seen.  Mutating the returned map does not affect
// the store.
func (s *Store) RoomState(room string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs, ok := s.rooms[room]
	if !ok {
		return map[string]string{}
	}
	out := make(map[string]string, len(rs.seats))
	for seat, holder := range rs.seats {
		out[seat] = holder
	}
	return out
}

// HoldSeat claims a seat for the holder.  The claim succeeds only when the
// seat is currently absent from the room's table; a duplicate request, by
// the same holder or anyone else, is reported as SeatTaken and changes
// nothing.
func (s *Store) HoldSeat(room, seatID, holderID string) HoldResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs := s.getOrCreate(room)
	if _, held := rs.seats[seatID]; held {
		return SeatTaken
	}
	rs.seats[seatID] = holderID
	return HoldOK
}

// ReleaseSeat frees a seat, but only when it is held by exactly this
// holder.  A holder can never free someone else's seat.
func (s *Store) ReleaseSeat(room, seatID, holderID string) ReleaseResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs, ok := s.rooms[room]
	if !ok {
		return NotHeld
	}
	rs.lastActive = s.now()
	current, held := rs.seats[seatID]
	if !held {
		return NotHeld
	}
	if current != holderID {
		return NotHolder
	}
	delete(rs.seats, seatID)
	return ReleaseOK
}

// ReleaseAllFor removes every seat in the room held by the holder and
// returns the freed seat ids, sorted so broadcasts are deterministic.
// Used when a connection disconnects or abandons a room for a new one.
func (s *Store) ReleaseAllFor(room, holderID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs, ok := s.rooms[room]
	if !ok {
		return nil
	}
	rs.lastActive = s.now()
	var freed []string
	for seat, holder := range rs.seats {
		if holder == holderID {
			freed = append(freed, seat)
		}
	}
	for _, seat := range freed {
		delete(rs.seats, seat)
	}
	sort.Strings(freed)
	return freed
}

// ClearSeats unconditionally removes the listed seats from the room,
// regardless of who holds them: booking confirmation overrides any hold.
// It returns the subset of seats that were actually present, in request
// order, so callers can tell a fresh clearance from an idempotent repeat.
func (s *Store) ClearSeats(room string, seatIDs []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs, ok := s.rooms[room]
	if !ok {
		return nil
	}
	rs.lastActive = s.now()
	var cleared []string
	for _, seat := range seatIDs {
		if _, held := rs.seats[seat]; held {
			cleared = append(cleared, seat)
			delete(rs.seats, seat)
		}
	}
	return cleared
}

// SweepIdle deletes rooms whose last activity is at least idleFor in the
// past, skipping any room for which keep returns true.  It returns the ids
// of the rooms removed.  Rooms for past showtimes otherwise accumulate for
// the life of the process.
func (s *Store) SweepIdle(idleFor time.Duration, keep func(room string) bool) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-idleFor)
	var swept []string
	for name, rs := range s.rooms {
		if rs.lastActive.After(cutoff) {
			continue
		}
		if keep != nil && keep(name) {
			continue
		}
		delete(s.rooms, name)
		swept = append(swept, name)
	}
	sort.Strings(swept)
	return swept
}
