// Package domain contains entities without logic, just meta-data.
package domain

import "github.com/google/uuid"

type EndpointID string

// Endpoint is one live connection. DisplayName and RoomID stay empty
// until the endpoint issues its first join.
type Endpoint struct {
	ID          EndpointID `json:"id"`
	DisplayName string     `json:"displayName,omitempty"`
	RoomID      RoomID     `json:"roomId,omitempty"`
}

func NewEndpointID() EndpointID {
	return EndpointID(uuid.NewString())
}
