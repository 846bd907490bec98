package app

import (
	"github.com/airforshare/backend/internal/core"
	"github.com/airforshare/backend/internal/domain"
)

// Read-only accessors for the HTTP layer. None of these mutate state.

func (o *Orchestrator) ListPublicRooms() []core.RoomSummary {
	return o.Rooms.ListPublic()
}

// GetRoom returns the room view. The member list is included only for
// public rooms; private rooms expose counts and timestamps only.
func (o *Orchestrator) GetRoom(id domain.RoomID) (core.RoomInfo, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	room, ok := o.Rooms.Get(id)
	if !ok {
		return core.RoomInfo{}, false
	}
	info := core.RoomInfo{
		ID:          room.ID,
		MemberCount: len(room.Members),
		IsPrivate:   room.IsPrivate,
		CreatedAt:   room.CreatedAt,
	}
	if !room.IsPrivate {
		info.Members = o.memberViews(room)
	}
	return info, true
}

func (o *Orchestrator) ListConnectedEndpoints() []core.EndpointInfo {
	return o.Registry.ListAll()
}
