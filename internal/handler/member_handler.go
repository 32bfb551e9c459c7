package handler

import (
	"net/http"
	"strconv"

	"github.com/Cecile-Hirschauer/adaboards-api/internal/model"
	"github.com/Cecile-Hirschauer/adaboards-api/internal/pkg"
	"github.com/Cecile-Hirschauer/adaboards-api/internal/service"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	svc *service.MembershipService
}

func NewMemberHandler(svc *service.MembershipService) *MemberHandler {
	return &MemberHandler{svc: svc}
}

type AddMemberReq struct {
	UserID uint64 `json:"user_id" binding:"required"`
	Role   string `json:"role"`
}

type UpdateMemberReq struct {
	Role string `json:"role" binding:"required"`
}

func (h *MemberHandler) List(c *gin.Context) {
	boardID, _ := strconv.ParseUint(c.Param("boardId"), 10, 64)

	list, err := h.svc.ListMembers(boardID, currentUserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *MemberHandler) Add(c *gin.Context) {
	boardID, _ := strconv.ParseUint(c.Param("boardId"), 10, 64)

	var req AddMemberReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, pkg.BadRequest("invalid params"))
		return
	}

	member, err := h.svc.AddMember(c.Request.Context(), boardID, currentUserID(c), req.UserID, model.Role(req.Role))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (h *MemberHandler) UpdateRole(c *gin.Context) {
	boardID, _ := strconv.ParseUint(c.Param("boardId"), 10, 64)
	targetID, _ := strconv.ParseUint(c.Param("userId"), 10, 64)

	var req UpdateMemberReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, pkg.BadRequest("invalid params"))
		return
	}

	member, err := h.svc.UpdateMemberRole(c.Request.Context(), boardID, currentUserID(c), targetID, model.Role(req.Role))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *MemberHandler) Remove(c *gin.Context) {
	boardID, _ := strconv.ParseUint(c.Param("boardId"), 10, 64)
	targetID, _ := strconv.ParseUint(c.Param("userId"), 10, 64)

	if err := h.svc.RemoveMember(c.Request.Context(), boardID, currentUserID(c), targetID); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
