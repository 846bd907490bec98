package core

import (
	"time"

	"github.com/airforshare/backend/internal/domain"
)

// MemberDTO is a read-only member view for events and APIs
// (no transport fields).
type MemberDTO struct {
	ID          domain.EndpointID `json:"id"`
	DisplayName string            `json:"displayName"`
}

// RoomSummary is the public-room listing entry.
type RoomSummary struct {
	ID          domain.RoomID `json:"id"`
	MemberCount int           `json:"memberCount"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// RoomInfo is the single-room view for the HTTP layer. Members is
// populated only for public rooms.
type RoomInfo struct {
	ID          domain.RoomID `json:"id"`
	MemberCount int           `json:"memberCount"`
	IsPrivate   bool          `json:"isPrivate"`
	CreatedAt   time.Time     `json:"createdAt"`
	Members     []MemberDTO   `json:"members,omitempty"`
}

// EndpointInfo is the connected-endpoint view for the HTTP layer.
type EndpointInfo struct {
	ID          domain.EndpointID `json:"id"`
	RoomID      domain.RoomID     `json:"roomId,omitempty"`
	DisplayName string            `json:"displayName,omitempty"`
}
