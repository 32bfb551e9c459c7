package mysql

import (
	"github.com/Cecile-Hirschauer/adaboards-api/internal/model"

	"gorm.io/gorm"
)

type BoardRepository struct {
	DB *gorm.DB
}

// CreateWithOwner 建看板并在同一事务里给创建者写入 OWNER 成员，
// 不允许出现没有 OWNER 的看板
func (r *BoardRepository) CreateWithOwner(board *model.Board, ownerID uint64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(board).Error; err != nil {
			return err
		}
		return tx.Create(&model.Membership{
			BoardID: board.ID,
			UserID:  ownerID,
			Role:    model.RoleOwner,
		}).Error
	})
}

func (r *BoardRepository) FindByID(id uint64) (*model.Board, error) {
	var board model.Board
	err := r.DB.First(&board, id).Error
	return &board, err
}

// ListByUser 用户所在的全部看板，附带其角色，按看板更新时间倒序
func (r *BoardRepository) ListByUser(userID uint64) ([]model.BoardWithRole, error) {
	var list []model.BoardWithRole
	err := r.DB.Model(&model.Board{}).
		Select("boards.id, boards.name, memberships.role, boards.created_at, boards.updated_at").
		Joins("JOIN memberships ON memberships.board_id = boards.id").
		Where("memberships.user_id = ?", userID).
		Order("boards.updated_at desc").
		Scan(&list).Error
	return list, err
}

func (r *BoardRepository) UpdateName(board *model.Board, name string) error {
	return r.DB.Model(board).Update("name", name).Error
}

// DeleteCascade 显式级联：任务、成员、看板在一个事务里删掉
func (r *BoardRepository) DeleteCascade(id uint64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_id = ?", id).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", id).Delete(&model.Membership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Board{}, id).Error
	})
}

// Touch 任务变动时刷新看板 updated_at，保证列表排序跟着动
func (r *BoardRepository) Touch(id uint64) error {
	return r.DB.Model(&model.Board{}).
		Where("id = ?", id).
		Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}
