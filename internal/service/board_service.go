package service

import (
	"errors"
	"strings"

	"github.com/Cecile-Hirschauer/adaboards-api/internal/model"
	"github.com/Cecile-Hirschauer/adaboards-api/internal/pkg"
	"github.com/Cecile-Hirschauer/adaboards-api/internal/repository/mysql"

	"gorm.io/gorm"
)

type BoardService struct {
	boards     *mysql.BoardRepository
	membership *MembershipService
}

func NewBoardService(db *gorm.DB, membership *MembershipService) *BoardService {
	return &BoardService{
		boards:     &mysql.BoardRepository{DB: db},
		membership: membership,
	}
}

// CreateBoard 建看板，创建者同事务成为 OWNER
func (s *BoardService) CreateBoard(actorID uint64, name string) (*model.BoardWithRole, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkg.BadRequest("Board name is required")
	}

	board := &model.Board{Name: name}
	if err := s.boards.CreateWithOwner(board, actorID); err != nil {
		return nil, err
	}
	return &model.BoardWithRole{
		ID:        board.ID,
		Name:      board.Name,
		Role:      model.RoleOwner,
		CreatedAt: board.CreatedAt,
		UpdatedAt: board.UpdatedAt,
	}, nil
}

func (s *BoardService) ListUserBoards(userID uint64) ([]model.BoardWithRole, error) {
	return s.boards.ListByUser(userID)
}

func (s *BoardService) GetBoard(boardID, userID uint64) (*model.BoardWithRole, error) {
	m, err := s.membership.RequireMembership(boardID, userID)
	if err != nil {
		return nil, err
	}
	board, err := s.boards.FindByID(boardID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.NotFound("Board not found")
	}
	if err != nil {
		return nil, err
	}
	return &model.BoardWithRole{
		ID:        board.ID,
		Name:      board.Name,
		Role:      m.Role,
		CreatedAt: board.CreatedAt,
		UpdatedAt: board.UpdatedAt,
	}, nil
}

func (s *BoardService) UpdateBoard(boardID, userID uint64, name string) (*model.BoardWithRole, error) {
	m, err := s.membership.RequireMembership(boardID, userID)
	if err != nil {
		return nil, err
	}
	if err = s.membership.RequireManagerRole(m); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkg.BadRequest("Board name is required")
	}

	board, err := s.boards.FindByID(boardID)
	if err != nil {
		return nil, err
	}
	if err = s.boards.UpdateName(board, name); err != nil {
		return nil, err
	}
	return &model.BoardWithRole{
		ID:        board.ID,
		Name:      board.Name,
		Role:      m.Role,
		CreatedAt: board.CreatedAt,
		UpdatedAt: board.UpdatedAt,
	}, nil
}

// DeleteBoard 只有 OWNER 能删；任务、成员随看板一起删
func (s *BoardService) DeleteBoard(boardID, userID uint64) error {
	m, err := s.membership.RequireMembership(boardID, userID)
	if err != nil {
		return err
	}
	if err = s.membership.RequireOwnerRole(m); err != nil {
		return err
	}
	return s.boards.DeleteCascade(boardID)
}
