package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Cecile-Hirschauer/adaboards-api/internal/model"

	"gorm.io/gorm"
)

// ErrLastOwner 目标是该看板最后一个 OWNER，禁止改角色或移除
var ErrLastOwner = errors.New("last owner")

type MembershipRepository struct {
	DB *gorm.DB
}

func (r *MembershipRepository) Find(boardID, userID uint64) (*model.Membership, error) {
	var m model.Membership
	err := r.DB.Where("board_id = ? AND user_id = ?", boardID, userID).First(&m).Error
	return &m, err
}

func (r *MembershipRepository) CountOwners(boardID uint64) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Membership{}).
		Where("board_id = ? AND role = ?", boardID, model.RoleOwner).
		Count(&count).Error
	return count, err
}

// ListByBoard 成员列表联用户公开信息，按加入时间升序
func (r *MembershipRepository) ListByBoard(boardID uint64) ([]model.MemberView, error) {
	var rows []struct {
		UserID   uint64
		Name     string
		Email    string
		Role     model.Role
		JoinedAt time.Time
	}
	err := r.DB.Model(&model.Membership{}).
		Select("memberships.user_id, users.name, users.email, memberships.role, memberships.joined_at").
		Joins("JOIN users ON users.id = memberships.user_id").
		Where("memberships.board_id = ?", boardID).
		Order("memberships.joined_at asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	list := make([]model.MemberView, 0, len(rows))
	for _, row := range rows {
		list = append(list, model.MemberView{
			User:     model.UserPublic{ID: row.UserID, Name: row.Name, Email: row.Email},
			Role:     row.Role,
			JoinedAt: row.JoinedAt,
		})
	}
	return list, nil
}

// Add 创建成员并在同一事务写外发表；(board_id, user_id) 唯一索引
// 兜底并发竞态，冲突以 gorm.ErrDuplicatedKey 冒出
func (r *MembershipRepository) Add(ctx context.Context, m *model.Membership, outbox *model.MembershipOutbox) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return tx.Create(outbox).Error
	})
}

// UpdateRole 改角色。OWNER 计数与变更在同一个串行化事务里做，
// 防止两个并发降级把看板清空 OWNER
func (r *MembershipRepository) UpdateRole(ctx context.Context, boardID, targetUserID uint64, newRole model.Role, outbox *model.MembershipOutbox) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.Membership
		if err := tx.Where("board_id = ? AND user_id = ?", boardID, targetUserID).First(&m).Error; err != nil {
			return err
		}
		if m.Role == model.RoleOwner {
			var owners int64
			if err := tx.Model(&model.Membership{}).
				Where("board_id = ? AND role = ?", boardID, model.RoleOwner).
				Count(&owners).Error; err != nil {
				return err
			}
			if owners <= 1 {
				return ErrLastOwner
			}
		}
		if err := tx.Model(&m).Update("role", newRole).Error; err != nil {
			return err
		}
		return tx.Create(outbox).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

// Remove 移除成员，守护逻辑同 UpdateRole
func (r *MembershipRepository) Remove(ctx context.Context, boardID, targetUserID uint64, outbox *model.MembershipOutbox) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.Membership
		if err := tx.Where("board_id = ? AND user_id = ?", boardID, targetUserID).First(&m).Error; err != nil {
			return err
		}
		if m.Role == model.RoleOwner {
			var owners int64
			if err := tx.Model(&model.Membership{}).
				Where("board_id = ? AND role = ?", boardID, model.RoleOwner).
				Count(&owners).Error; err != nil {
				return err
			}
			if owners <= 1 {
				return ErrLastOwner
			}
		}
		if err := tx.Delete(&m).Error; err != nil {
			return err
		}
		return tx.Create(outbox).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

// MarkOutbox 更新外发表状态：1=sent 2=failed
func (r *MembershipRepository) MarkOutbox(id uint64, status int8) error {
	return r.DB.Model(&model.MembershipOutbox{}).
		Where("id = ?", id).
		Update("status", status).Error
}
