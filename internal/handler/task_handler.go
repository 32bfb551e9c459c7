package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Cecile-Hirschauer/adaboards-api/internal/model"
	"github.com/Cecile-Hirschauer/adaboards-api/internal/pkg"
	"github.com/Cecile-Hirschauer/adaboards-api/internal/service"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

type CreateTaskReq struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	AssignedTo  *uint64 `json:"assigned_to"`
}

// optionalUint64 区分字段缺省和显式 null：
// PATCH 里 assigned_to 传 null 表示清空指派，不传表示不动
type optionalUint64 struct {
	Set   bool
	Value *uint64
}

func (o *optionalUint64) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var v uint64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

type UpdateTaskReq struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Status      *string        `json:"status"`
	AssignedTo  optionalUint64 `json:"assigned_to"`
}

func (h *TaskHandler) List(c *gin.Context) {
	boardID, _ := strconv.ParseUint(c.Param("boardId"), 10, 64)

	list, err := h.svc.ListBoardTasks(boardID, currentUserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *TaskHandler) Create(c *gin.Context) {
	boardID, _ := strconv.ParseUint(c.Param("boardId"), 10, 64)

	var req CreateTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, pkg.BadRequest("invalid params"))
		return
	}

	task, err := h.svc.CreateTask(boardID, currentUserID(c), service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      model.TaskStatus(req.Status),
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) Update(c *gin.Context) {
	boardID, _ := strconv.ParseUint(c.Param("boardId"), 10, 64)
	taskID, _ := strconv.ParseUint(c.Param("taskId"), 10, 64)

	var req UpdateTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, pkg.BadRequest("invalid params"))
		return
	}

	in := service.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		AssignedTo:    req.AssignedTo.Value,
		AssignedToSet: req.AssignedTo.Set,
	}
	if req.Status != nil {
		status := model.TaskStatus(*req.Status)
		in.Status = &status
	}

	task, err := h.svc.UpdateTask(boardID, taskID, currentUserID(c), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	boardID, _ := strconv.ParseUint(c.Param("boardId"), 10, 64)
	taskID, _ := strconv.ParseUint(c.Param("taskId"), 10, 64)

	if err := h.svc.DeleteTask(boardID, taskID, currentUserID(c)); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
