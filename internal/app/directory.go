package app

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/airforshare/backend/internal/core"
	"github.com/airforshare/backend/internal/domain"
)

// Directory tracks active rooms. It owns the Room records; endpoints
// are referenced by id only, the Registry owns their lifecycle.
type Directory struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*domain.Room
}

func NewDirectory() *Directory {
	return &Directory{rooms: make(map[domain.RoomID]*domain.Room)}
}

// GetOrCreate resolves a room, creating it when absent. An empty id
// requests a freshly generated one. Visibility and creator of an
// existing room are never overwritten by a later join. The second
// return value reports whether the room was just created.
func (d *Directory) GetOrCreate(id domain.RoomID, isPrivate bool, creator domain.EndpointID) (*domain.Room, bool) {
	if id == "" {
		id = domain.NewRoomID()
	}
	d.mu.RLock()
	room, ok := d.rooms[id]
	d.mu.RUnlock()
	if ok {
		return room, false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if room, ok = d.rooms[id]; ok {
		return room, false
	}
	room = &domain.Room{
		ID:        id,
		IsPrivate: isPrivate,
		Creator:   creator,
		CreatedAt: time.Now(),
	}
	d.rooms[id] = room
	log.Info().Str("module", "app.directory").Str("room", string(id)).Bool("private", isPrivate).Msg("room created")
	return room, true
}

func (d *Directory) Get(id domain.RoomID) (*domain.Room, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	room, ok := d.rooms[id]
	return room, ok
}

// AddMember appends the endpoint to the membership list if absent.
// Reports whether an append occurred.
func (d *Directory) AddMember(room *domain.Room, id domain.EndpointID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if room.HasMember(id) {
		return false
	}
	room.Members = append(room.Members, id)
	return true
}

func (d *Directory) RemoveMember(room *domain.Room, id domain.EndpointID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, m := range room.Members {
		if m == id {
			room.Members = append(room.Members[:i], room.Members[i+1:]...)
			return
		}
	}
}

func (d *Directory) Delete(id domain.RoomID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.rooms[id]; !ok {
		return
	}
	delete(d.rooms, id)
	log.Info().Str("module", "app.directory").Str("room", string(id)).Msg("room deleted")
}

// ListPublic returns summaries of rooms with public visibility only.
func (d *Directory) ListPublic() []core.RoomSummary {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]core.RoomSummary, 0, len(d.rooms))
	for _, r := range d.rooms {
		if r.IsPrivate {
			continue
		}
		out = append(out, core.RoomSummary{
			ID:          r.ID,
			MemberCount: len(r.Members),
			CreatedAt:   r.CreatedAt,
		})
	}
	return out
}

func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms)
}
