package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/airforshare/backend/internal/core"
	"github.com/airforshare/backend/internal/domain"
)

// Rejection reasons surfaced to the requesting endpoint only.
const (
	ReasonPrivateRoom       = "This is a private room. You need an invitation to join."
	ReasonCreatorOnlyInvite = "Only the room creator can invite others to a private room."
)

// Orchestrator owns the registry and the room directory and applies
// the room lifecycle policy. A single mutex serializes every compound
// mutation so each inbound event runs to completion against a
// consistent view; membership snapshots handed back to the relay are
// taken inside the same critical section.
type Orchestrator struct {
	mu       sync.Mutex
	Registry *Registry
	Rooms    *Directory
}

func NewOrchestrator() *Orchestrator {
	return &Orchestrator{
		Registry: NewRegistry(),
		Rooms:    NewDirectory(),
	}
}

// RoomChange describes a membership change the relay must announce.
// Recipients is who to notify (the members still present after the
// change); Members is the list to put in the payload, empty when the
// room was deleted by the change.
type RoomChange struct {
	RoomID     domain.RoomID
	Recipients []core.MemberDTO
	Members    []core.MemberDTO
	Deleted    bool
}

type JoinOutcome struct {
	Rejected bool
	Reason   string

	RoomID    domain.RoomID
	IsPrivate bool
	Created   bool
	Members   []core.MemberDTO

	// Left is set when the endpoint switched rooms and its previous
	// room needs a membership notification.
	Left *RoomChange
}

type InviteStatus int

const (
	// InviteIgnored: unknown room or sender, dropped without a reply.
	InviteIgnored InviteStatus = iota
	InviteDenied
	InviteAllowed
)

type InviteOutcome struct {
	Status    InviteStatus
	Reason    string
	RoomID    domain.RoomID
	IsPrivate bool
	From      core.MemberDTO
}

// AttemptJoin resolves the target room (creating it when needed; the
// requester becomes creator only then), applies the private-room gate
// and records membership and profile. A rejected join changes no
// state. Rejoining a room the endpoint is already in is a no-op
// success.
func (o *Orchestrator) AttemptJoin(id domain.EndpointID, roomID domain.RoomID, displayName string, isPrivate bool) JoinOutcome {
	o.mu.Lock()
	defer o.mu.Unlock()

	room, created := o.Rooms.GetOrCreate(roomID, isPrivate, id)

	// Private rooms admit only their creator or standing members.
	if room.IsPrivate && room.Creator != id && !room.HasMember(id) {
		log.Info().Str("module", "app.lifecycle").Str("endpoint", string(id)).Str("room", string(room.ID)).Msg("join rejected: private room")
		return JoinOutcome{Rejected: true, Reason: ReasonPrivateRoom}
	}

	// An endpoint belongs to at most one room; leaving the previous
	// one follows the same eviction rule as a disconnect.
	var left *RoomChange
	if ep, ok := o.Registry.Lookup(id); ok && ep.RoomID != "" && ep.RoomID != room.ID {
		if prev, ok := o.Rooms.Get(ep.RoomID); ok {
			left = o.removeFromRoom(id, prev)
		}
	}

	o.Rooms.AddMember(room, id)
	o.Registry.SetProfile(id, room.ID, displayName)

	log.Info().Str("module", "app.lifecycle").Str("endpoint", string(id)).Str("room", string(room.ID)).Bool("created", created).Msg("joined room")
	return JoinOutcome{
		RoomID:    room.ID,
		IsPrivate: room.IsPrivate,
		Created:   created,
		Members:   o.memberViews(room),
		Left:      left,
	}
}

// HandleDisconnect removes the endpoint from its room (if any),
// applies the eviction rule and drops the registry record. Idempotent:
// a second report for the same endpoint is a no-op. Returns nil when
// no room notification is needed.
func (o *Orchestrator) HandleDisconnect(id domain.EndpointID) *RoomChange {
	o.mu.Lock()
	defer o.mu.Unlock()

	ep, ok := o.Registry.Lookup(id)
	if !ok {
		return nil
	}
	defer o.Registry.Unregister(id)

	if ep.RoomID == "" {
		return nil
	}
	room, ok := o.Rooms.Get(ep.RoomID)
	if !ok {
		return nil
	}
	return o.removeFromRoom(id, room)
}

// Invite checks invite permission without touching membership: the
// invitation only notifies the target, it grants no standing in the
// room.
func (o *Orchestrator) Invite(sender domain.EndpointID, roomID domain.RoomID, target domain.EndpointID) InviteOutcome {
	o.mu.Lock()
	defer o.mu.Unlock()

	room, ok := o.Rooms.Get(roomID)
	ep, known := o.Registry.Lookup(sender)
	if !ok || !known {
		return InviteOutcome{Status: InviteIgnored}
	}
	if room.IsPrivate && room.Creator != sender {
		log.Info().Str("module", "app.lifecycle").Str("endpoint", string(sender)).Str("room", string(roomID)).Msg("invite denied: not creator")
		return InviteOutcome{Status: InviteDenied, Reason: ReasonCreatorOnlyInvite}
	}
	return InviteOutcome{
		Status:    InviteAllowed,
		RoomID:    room.ID,
		IsPrivate: room.IsPrivate,
		From:      core.MemberDTO{ID: sender, DisplayName: ep.DisplayName},
	}
}

// MembersOf snapshots the current membership of a room. Empty for
// unknown rooms, so a broadcast against an evicted room delivers to
// nobody.
func (o *Orchestrator) MembersOf(roomID domain.RoomID) []core.MemberDTO {
	o.mu.Lock()
	defer o.mu.Unlock()

	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return nil
	}
	return o.memberViews(room)
}

// removeFromRoom drops the endpoint from the membership list and
// deletes the room when it is left empty, or when it is private and
// the departing endpoint created it: membership control of a private
// room depends on its creator being reachable, so the room cannot
// outlive them. Caller holds o.mu.
func (o *Orchestrator) removeFromRoom(id domain.EndpointID, room *domain.Room) *RoomChange {
	o.Rooms.RemoveMember(room, id)

	deleted := len(room.Members) == 0 || (room.IsPrivate && room.Creator == id)
	recipients := o.memberViews(room)
	if deleted {
		o.Rooms.Delete(room.ID)
	}

	members := recipients
	if deleted {
		members = []core.MemberDTO{}
	}
	return &RoomChange{
		RoomID:     room.ID,
		Recipients: recipients,
		Members:    members,
		Deleted:    deleted,
	}
}

// memberViews resolves member ids to display names through the
// registry. Caller holds o.mu.
func (o *Orchestrator) memberViews(room *domain.Room) []core.MemberDTO {
	out := make([]core.MemberDTO, 0, len(room.Members))
	for _, id := range room.Members {
		ep, ok := o.Registry.Lookup(id)
		if !ok {
			continue
		}
		out = append(out, core.MemberDTO{ID: id, DisplayName: ep.DisplayName})
	}
	return out
}
