package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/airforshare/backend/internal/domain"
)

// listPublicRooms returns summaries of public rooms only; private
// rooms are never listed here.
func (a *API) listPublicRooms(c *gin.Context) {
	rooms := a.Orch.ListPublicRooms()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(rooms),
		"data":    rooms,
	})
}

// getRoom returns room details. Private rooms expose counts and
// timestamps but never their member list.
func (a *API) getRoom(c *gin.Context) {
	id := domain.RoomID(c.Param("roomId"))
	info, ok := a.Orch.GetRoom(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Room not found",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    info,
	})
}

// createRoom only mints a fresh room id; the room itself materializes
// when its first endpoint joins over the signaling socket.
func (a *API) createRoom(c *gin.Context) {
	var req struct {
		IsPrivate bool `json:"isPrivate"`
	}
	// Body is optional; defaults to a public room.
	_ = c.ShouldBindJSON(&req)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"roomId":    domain.NewRoomID(),
			"isPrivate": req.IsPrivate,
			"message":   "Room created successfully. Join it over the signaling socket.",
		},
	})
}

func (a *API) listEndpoints(c *gin.Context) {
	endpoints := a.Orch.ListConnectedEndpoints()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(endpoints),
		"data":    endpoints,
	})
}
