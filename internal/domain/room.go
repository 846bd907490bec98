package domain

import (
	"time"

	"github.com/google/uuid"
)

type RoomID string

// Room groups endpoints exchanging signaling, chat and file events.
// Creator is fixed at creation and never reassigned. Members keeps
// join order and holds each endpoint id at most once.
type Room struct {
	ID        RoomID
	IsPrivate bool
	Creator   EndpointID
	Members   []EndpointID
	CreatedAt time.Time
}

func NewRoomID() RoomID {
	return RoomID(uuid.NewString())
}

func (r *Room) HasMember(id EndpointID) bool {
	for _, m := range r.Members {
		if m == id {
			return true
		}
	}
	return false
}
