package api

import (
	"net/http"

	"github.com/apexhq/apex/internal/domain"
	"github.com/apexhq/apex/internal/service"
	"github.com/gin-gonic/gin"
)

func listRooms(rooms service.RoomService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := rooms.ListByProject(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		if list == nil {
			list = []*domain.Room{}
		}
		c.JSON(http.StatusOK, list)
	}
}

type createRoomRequest struct {
	Name   string `json:"name"`
	Floor  string `json:"floor"`
	Status string `json:"status"`
}

func createRoom(rooms service.RoomService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createRoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		r := &domain.Room{
			ProjectID: c.Param("id"),
			Name:      req.Name,
			Floor:     req.Floor,
			Status:    domain.RoomStatus(req.Status),
		}
		if err := rooms.Create(c.Request.Context(), r); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, r)
	}
}

type updateRoomRequest struct {
	Name   *string `json:"name"`
	Floor  *string `json:"floor"`
	Status *string `json:"status"`
}

func updateRoom(rooms service.RoomService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateRoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		r, err := rooms.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		if req.Name != nil {
			r.Name = *req.Name
		}
		if req.Floor != nil {
			r.Floor = *req.Floor
		}
		if req.Status != nil {
			r.Status = domain.RoomStatus(*req.Status)
		}
		if err := rooms.Update(c.Request.Context(), r); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func deleteRoom(rooms service.RoomService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := rooms.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
