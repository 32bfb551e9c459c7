package handler

import (
	"net/http"
	"strconv"

	"github.com/Cecile-Hirschauer/adaboards-api/internal/pkg"
	"github.com/Cecile-Hirschauer/adaboards-api/internal/service"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	svc *service.BoardService
}

func NewBoardHandler(svc *service.BoardService) *BoardHandler {
	return &BoardHandler{svc: svc}
}

type BoardReq struct {
	Name string `json:"name"`
}

func (h *BoardHandler) List(c *gin.Context) {
	list, err := h.svc.ListUserBoards(currentUserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *BoardHandler) Get(c *gin.Context) {
	boardID, _ := strconv.ParseUint(c.Param("boardId"), 10, 64)

	board, err := h.svc.GetBoard(boardID, currentUserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *BoardHandler) Create(c *gin.Context) {
	var req BoardReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, pkg.BadRequest("invalid params"))
		return
	}

	board, err := h.svc.CreateBoard(currentUserID(c), req.Name)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, board)
}

func (h *BoardHandler) Update(c *gin.Context) {
	boardID, _ := strconv.ParseUint(c.Param("boardId"), 10, 64)

	var req BoardReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, pkg.BadRequest("invalid params"))
		return
	}

	board, err := h.svc.UpdateBoard(boardID, currentUserID(c), req.Name)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *BoardHandler) Delete(c *gin.Context) {
	boardID, _ := strconv.ParseUint(c.Param("boardId"), 10, 64)

	if err := h.svc.DeleteBoard(boardID, currentUserID(c)); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
