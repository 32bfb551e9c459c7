package mysql

import (
	"strings"

	"github.com/Cecile-Hirschauer/adaboards-api/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

// Search 大小写不敏感的子串匹配（email 或 name），排除指定用户，按 name 升序
func (r *UserRepository) Search(query string, excludeID uint64, limit int) ([]model.User, error) {
	var list []model.User
	pattern := "%" + strings.ToLower(query) + "%"
	err := r.DB.
		Where("(LOWER(email) LIKE ? OR LOWER(name) LIKE ?) AND id <> ?", pattern, pattern, excludeID).
		Order("name asc").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// FindByIDs 批量查用户，用于任务视图组装创建人/指派人
func (r *UserRepository) FindByIDs(ids []uint64) (map[uint64]model.User, error) {
	result := make(map[uint64]model.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var list []model.User
	if err := r.DB.Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	for _, u := range list {
		result[u.ID] = u
	}
	return result, nil
}
