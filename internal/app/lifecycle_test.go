package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airforshare/backend/internal/app"
	"github.com/airforshare/backend/internal/core"
	"github.com/airforshare/backend/internal/domain"
)

// connect registers a fresh endpoint the way the signaling adapter does
// on upgrade.
func connect(o *app.Orchestrator) domain.EndpointID {
	id := domain.NewEndpointID()
	o.Registry.Register(id, &fakeConn{})
	return id
}

func memberIDs(members []core.MemberDTO) []domain.EndpointID {
	out := make([]domain.EndpointID, 0, len(members))
	for _, m := range members {
		out = append(out, m.ID)
	}
	return out
}

func TestAttemptJoin_EmptyIDMintsRoom(t *testing.T) {
	o := app.NewOrchestrator()
	a := connect(o)

	out := o.AttemptJoin(a, "", "alice", false)
	require.False(t, out.Rejected)
	assert.True(t, out.Created)
	assert.NotEmpty(t, out.RoomID)
	assert.Equal(t, []domain.EndpointID{a}, memberIDs(out.Members))

	ep, ok := o.Registry.Lookup(a)
	require.True(t, ok)
	assert.Equal(t, out.RoomID, ep.RoomID)
	assert.Equal(t, "alice", ep.DisplayName)
}

func TestAttemptJoin_FirstJoinerBecomesCreator(t *testing.T) {
	o := app.NewOrchestrator()
	a := connect(o)

	out := o.AttemptJoin(a, "r1", "alice", true)
	require.False(t, out.Rejected)
	assert.True(t, out.IsPrivate)

	room, ok := o.Rooms.Get("r1")
	require.True(t, ok)
	assert.Equal(t, a, room.Creator)
}

func TestAttemptJoin_RejoinIsNoop(t *testing.T) {
	o := app.NewOrchestrator()
	a := connect(o)

	o.AttemptJoin(a, "r1", "alice", true)
	out := o.AttemptJoin(a, "r1", "alice", true)

	require.False(t, out.Rejected)
	assert.Equal(t, []domain.EndpointID{a}, memberIDs(out.Members), "rejoining must not duplicate the membership entry")
	assert.Nil(t, out.Left)
}

func TestAttemptJoin_PrivateRoomRejectsStranger(t *testing.T) {
	o := app.NewOrchestrator()
	a := connect(o)
	b := connect(o)
	o.AttemptJoin(a, "r1", "alice", true)

	out := o.AttemptJoin(b, "r1", "bob", false)

	require.True(t, out.Rejected)
	assert.Equal(t, app.ReasonPrivateRoom, out.Reason)

	// A rejected join leaves every piece of state untouched.
	assert.Equal(t, []domain.EndpointID{a}, memberIDs(o.MembersOf("r1")))
	ep, ok := o.Registry.Lookup(b)
	require.True(t, ok)
	assert.Empty(t, ep.RoomID)
	assert.Empty(t, ep.DisplayName)
}

func TestAttemptJoin_ExistingVisibilityWins(t *testing.T) {
	o := app.NewOrchestrator()
	a := connect(o)
	b := connect(o)
	o.AttemptJoin(a, "r1", "alice", false)

	// Asking for privacy on an existing public room neither flips the
	// room nor blocks the join.
	out := o.AttemptJoin(b, "r1", "bob", true)
	require.False(t, out.Rejected)
	assert.False(t, out.IsPrivate)
	assert.Equal(t, []domain.EndpointID{a, b}, memberIDs(out.Members))
}

func TestAttemptJoin_SwitchingRoomsLeavesPrevious(t *testing.T) {
	o := app.NewOrchestrator()
	a := connect(o)
	b := connect(o)
	o.AttemptJoin(a, "r1", "alice", false)
	o.AttemptJoin(b, "r1", "bob", false)

	out := o.AttemptJoin(a, "r2", "alice", false)
	require.False(t, out.Rejected)
	require.NotNil(t, out.Left)
	assert.Equal(t, domain.RoomID("r1"), out.Left.RoomID)
	assert.Equal(t, []domain.EndpointID{b}, memberIDs(out.Left.Recipients))
	assert.False(t, out.Left.Deleted)

	assert.Equal(t, []domain.EndpointID{b}, memberIDs(o.MembersOf("r1")))
	assert.Equal(t, []domain.EndpointID{a}, memberIDs(o.MembersOf("r2")))
}

func TestAttemptJoin_SwitchingOutOfSoloRoomDeletesIt(t *testing.T) {
	o := app.NewOrchestrator()
	a := connect(o)
	o.AttemptJoin(a, "r1", "alice", false)

	out := o.AttemptJoin(a, "r2", "alice", false)
	require.NotNil(t, out.Left)
	assert.True(t, out.Left.Deleted)
	assert.Empty(t, out.Left.Recipients)

	_, ok := o.Rooms.Get("r1")
	assert.False(t, ok)
}

func TestHandleDisconnect_RemovesEndpointEverywhere(t *testing.T) {
	o := app.NewOrchestrator()
	a := connect(o)
	b := connect(o)
	o.AttemptJoin(a, "r1", "alice", false)
	o.AttemptJoin(b, "r1", "bob", false)

	change := o.HandleDisconnect(a)
	require.NotNil(t, change)
	assert.Equal(t, domain.RoomID("r1"), change.RoomID)
	assert.False(t, change.Deleted)
	assert.Equal(t, []domain.EndpointID{b}, memberIDs(change.Recipients))
	assert.Equal(t, []domain.EndpointID{b}, memberIDs(change.Members))

	_, ok := o.Registry.Lookup(a)
	assert.False(t, ok)
	assert.Equal(t, []domain.EndpointID{b}, memberIDs(o.MembersOf("r1")))
}

func TestHandleDisconnect_EmptyRoomIsDeleted(t *testing.T) {
	o := app.NewOrchestrator()
	a := connect(o)
	o.AttemptJoin(a, "r1", "alice", false)

	change := o.HandleDisconnect(a)
	require.NotNil(t, change)
	assert.True(t, change.Deleted)
	assert.Empty(t, change.Recipients)

	_, ok := o.Rooms.Get("r1")
	assert.False(t, ok)
}

func TestHandleDisconnect_PrivateRoomDiesWithCreator(t *testing.T) {
	o := app.NewOrchestrator()
	a := connect(o)
	b := connect(o)
	o.AttemptJoin(a, "r1", "alice", true)

	// Seed b as a standing member so the room is not empty when the
	// creator leaves.
	room, ok := o.Rooms.Get("r1")
	require.True(t, ok)
	o.Rooms.AddMember(room, b)
	o.Registry.SetProfile(b, "r1", "bob")

	change := o.HandleDisconnect(a)
	require.NotNil(t, change)
	assert.True(t, change.Deleted, "a private room cannot outlive its creator")
	assert.Equal(t, []domain.EndpointID{b}, memberIDs(change.Recipients))
	assert.Empty(t, change.Members, "deletion is announced with an empty member list")

	_, ok = o.Rooms.Get("r1")
	assert.False(t, ok)
}

func TestHandleDisconnect_PublicRoomSurvivesCreator(t *testing.T) {
	o := app.NewOrchestrator()
	a := connect(o)
	b := connect(o)
	o.AttemptJoin(a, "r1", "alice", false)
	o.AttemptJoin(b, "r1", "bob", false)

	change := o.HandleDisconnect(a)
	require.NotNil(t, change)
	assert.False(t, change.Deleted)

	room, ok := o.Rooms.Get("r1")
	require.True(t, ok)
	assert.Equal(t, []domain.EndpointID{b}, room.Members)
	assert.Equal(t, a, room.Creator, "creator of a public room is remembered even after leaving")
}

func TestHandleDisconnect_Idempotent(t *testing.T) {
	o := app.NewOrchestrator()
	a := connect(o)
	o.AttemptJoin(a, "r1", "alice", false)

	require.NotNil(t, o.HandleDisconnect(a))
	assert.Nil(t, o.HandleDisconnect(a))
}

func TestHandleDisconnect_NoRoomNoNotification(t *testing.T) {
	o := app.NewOrchestrator()
	a := connect(o)

	assert.Nil(t, o.HandleDisconnect(a))
	_, ok := o.Registry.Lookup(a)
	assert.False(t, ok)
}

func TestInvite_PublicRoomAnyKnownSender(t *testing.T) {
	o := app.NewOrchestrator()
	a := connect(o)
	o.AttemptJoin(a, "r1", "alice", false)

	out := o.Invite(a, "r1", domain.NewEndpointID())
	assert.Equal(t, app.InviteAllowed, out.Status)
	assert.Equal(t, domain.RoomID("r1"), out.RoomID)
	assert.Equal(t, "alice", out.From.DisplayName)
}

func TestInvite_PrivateRoomCreatorOnly(t *testing.T) {
	o := app.NewOrchestrator()
	a := connect(o)
	b := connect(o)
	o.AttemptJoin(a, "r1", "alice", true)

	out := o.Invite(b, "r1", domain.NewEndpointID())
	assert.Equal(t, app.InviteDenied, out.Status)
	assert.Equal(t, app.ReasonCreatorOnlyInvite, out.Reason)

	out = o.Invite(a, "r1", b)
	assert.Equal(t, app.InviteAllowed, out.Status)
	assert.True(t, out.IsPrivate)
}

func TestInvite_UnknownRoomIgnored(t *testing.T) {
	o := app.NewOrchestrator()
	a := connect(o)

	out := o.Invite(a, "nope", domain.NewEndpointID())
	assert.Equal(t, app.InviteIgnored, out.Status)
}

// An invitation only notifies the target; it does not add them to the
// room, so the private gate still turns them away when they try to
// join.
func TestJoin_InvitedEndpointStillRejected(t *testing.T) {
	o := app.NewOrchestrator()
	a := connect(o)
	b := connect(o)
	o.AttemptJoin(a, "r1", "alice", true)

	inv := o.Invite(a, "r1", b)
	require.Equal(t, app.InviteAllowed, inv.Status)

	out := o.AttemptJoin(b, "r1", "bob", false)
	assert.True(t, out.Rejected)
	assert.Equal(t, app.ReasonPrivateRoom, out.Reason)
}

func TestMembersOf_UnknownRoomIsEmpty(t *testing.T) {
	o := app.NewOrchestrator()
	assert.Empty(t, o.MembersOf("nope"))
}
