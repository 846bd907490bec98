package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/airforshare/backend/internal/core"
	"github.com/airforshare/backend/internal/domain"
)

type registryEntry struct {
	endpoint domain.Endpoint
	conn     core.SignalConnection
}

// Registry tracks every live connection: identity, display name,
// current room assignment and the transport to reach it.
type Registry struct {
	mu        sync.RWMutex
	endpoints map[domain.EndpointID]*registryEntry
}

func NewRegistry() *Registry {
	return &Registry{endpoints: make(map[domain.EndpointID]*registryEntry)}
}

// Register creates the record for a fresh connection. Name and room
// stay empty until the first join.
func (r *Registry) Register(id domain.EndpointID, conn core.SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endpoints[id] = &registryEntry{
		endpoint: domain.Endpoint{ID: id},
		conn:     conn,
	}
	log.Info().Str("module", "app.registry").Str("endpoint", string(id)).Msg("endpoint registered")
}

// SetProfile records the room assignment and display name set by a
// join. No-op for unknown endpoints.
func (r *Registry) SetProfile(id domain.EndpointID, roomID domain.RoomID, displayName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.endpoints[id]
	if !ok {
		return
	}
	e.endpoint.RoomID = roomID
	e.endpoint.DisplayName = displayName
}

// Lookup returns a copy of the endpoint record.
func (r *Registry) Lookup(id domain.EndpointID) (domain.Endpoint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.endpoints[id]; ok {
		return e.endpoint, true
	}
	return domain.Endpoint{}, false
}

// Signal returns the transport of a connected endpoint.
func (r *Registry) Signal(id domain.EndpointID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.endpoints[id]; ok {
		return e.conn, true
	}
	return nil, false
}

// Unregister removes the record. Safe to call twice; the transport
// layer may report a disconnect more than once.
func (r *Registry) Unregister(id domain.EndpointID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.endpoints[id]; !ok {
		return
	}
	delete(r.endpoints, id)
	log.Info().Str("module", "app.registry").Str("endpoint", string(id)).Msg("endpoint unregistered")
}

func (r *Registry) ListAll() []core.EndpointInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.EndpointInfo, 0, len(r.endpoints))
	for _, e := range r.endpoints {
		out = append(out, core.EndpointInfo{
			ID:          e.endpoint.ID,
			RoomID:      e.endpoint.RoomID,
			DisplayName: e.endpoint.DisplayName,
		})
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.endpoints)
}
