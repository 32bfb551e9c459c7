package service

import (
	"errors"
	"strings"

	"github.com/Cecile-Hirschauer/adaboards-api/internal/model"
	"github.com/Cecile-Hirschauer/adaboards-api/internal/pkg"
	"github.com/Cecile-Hirschauer/adaboards-api/internal/repository/mysql"

	"gorm.io/gorm"
)

type TaskService struct {
	tasks      *mysql.TaskRepository
	users      *mysql.UserRepository
	boards     *mysql.BoardRepository
	membership *MembershipService
}

func NewTaskService(db *gorm.DB, membership *MembershipService) *TaskService {
	return &TaskService{
		tasks:      &mysql.TaskRepository{DB: db},
		users:      &mysql.UserRepository{DB: db},
		boards:     &mysql.BoardRepository{DB: db},
		membership: membership,
	}
}

type CreateTaskInput struct {
	Title       string
	Description string
	Status      model.TaskStatus
	AssignedTo  *uint64
}

// UpdateTaskInput 部分更新：nil 表示没传。AssignedToSet 区分
// "没传 assigned_to" 和 "显式传 null 清空指派"
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *model.TaskStatus
	AssignedTo    *uint64
	AssignedToSet bool
}

// VerifyBoardAccess 返回调用者的成员关系，删除权限判断要用角色
func (s *TaskService) VerifyBoardAccess(boardID, userID uint64) (*model.Membership, error) {
	return s.membership.RequireMembership(boardID, userID)
}

func (s *TaskService) ListBoardTasks(boardID, userID uint64) ([]model.TaskView, error) {
	if _, err := s.VerifyBoardAccess(boardID, userID); err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByBoard(boardID)
	if err != nil {
		return nil, err
	}
	return s.buildViews(tasks)
}

func (s *TaskService) CreateTask(boardID, userID uint64, in CreateTaskInput) (*model.TaskView, error) {
	if _, err := s.VerifyBoardAccess(boardID, userID); err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, pkg.BadRequest("Task title is required")
	}
	if in.Status == "" {
		in.Status = model.StatusTodo
	}
	if !in.Status.Valid() {
		return nil, pkg.BadRequest("Invalid status")
	}
	if in.AssignedTo != nil {
		if err := s.membership.AssertUserIsBoardMember(boardID, *in.AssignedTo); err != nil {
			return nil, err
		}
	}

	task := &model.Task{
		BoardID:     boardID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		CreatedBy:   userID,
		AssignedTo:  in.AssignedTo,
	}
	if err := s.tasks.Create(task); err != nil {
		return nil, err
	}
	_ = s.boards.Touch(boardID)

	return s.buildView(task)
}

func (s *TaskService) UpdateTask(boardID, taskID, userID uint64, in UpdateTaskInput) (*model.TaskView, error) {
	if _, err := s.VerifyBoardAccess(boardID, userID); err != nil {
		return nil, err
	}

	task, err := s.tasks.FindInBoard(boardID, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.NotFound("Task not found")
	}
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, pkg.BadRequest("Task title is required")
		}
		fields["title"] = title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, pkg.BadRequest("Invalid status")
		}
		fields["status"] = *in.Status
	}
	if in.AssignedToSet {
		if in.AssignedTo != nil {
			// 换指派人要重新校验成员身份；显式 null 清空不校验
			if err = s.membership.AssertUserIsBoardMember(boardID, *in.AssignedTo); err != nil {
				return nil, err
			}
			fields["assigned_to"] = *in.AssignedTo
		} else {
			fields["assigned_to"] = nil
		}
	}

	if len(fields) > 0 {
		if err = s.tasks.Updates(task, fields); err != nil {
			return nil, err
		}
		_ = s.boards.Touch(boardID)
	}

	task, err = s.tasks.FindInBoard(boardID, taskID)
	if err != nil {
		return nil, err
	}
	return s.buildView(task)
}

// DeleteTask 创建者本人，或 OWNER/MAINTAINER，才能删任务
func (s *TaskService) DeleteTask(boardID, taskID, userID uint64) error {
	m, err := s.VerifyBoardAccess(boardID, userID)
	if err != nil {
		return err
	}

	task, err := s.tasks.FindInBoard(boardID, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkg.NotFound("Task not found")
	}
	if err != nil {
		return err
	}

	if task.CreatedBy != userID && !m.Role.CanManage() {
		return pkg.Forbidden("Only the task creator or a board manager can delete this task")
	}

	if err = s.tasks.Delete(taskID); err != nil {
		return err
	}
	_ = s.boards.Touch(boardID)
	return nil
}

func (s *TaskService) buildView(task *model.Task) (*model.TaskView, error) {
	views, err := s.buildViews([]model.Task{*task})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// buildViews 批量联用户信息组装任务视图
func (s *TaskService) buildViews(tasks []model.Task) ([]model.TaskView, error) {
	ids := make([]uint64, 0, len(tasks)*2)
	for _, t := range tasks {
		ids = append(ids, t.CreatedBy)
		if t.AssignedTo != nil {
			ids = append(ids, *t.AssignedTo)
		}
	}
	users, err := s.users.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	views := make([]model.TaskView, 0, len(tasks))
	for _, t := range tasks {
		view := model.TaskView{
			ID:          t.ID,
			BoardID:     t.BoardID,
			Title:       t.Title,
			Description: t.Description,
			Status:      t.Status,
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   t.UpdatedAt,
		}
		if u, ok := users[t.CreatedBy]; ok {
			view.CreatedBy = u.Public()
		}
		if t.AssignedTo != nil {
			if u, ok := users[*t.AssignedTo]; ok {
				p := u.Public()
				view.AssignedTo = &p
			}
		}
		views = append(views, view)
	}
	return views, nil
}
