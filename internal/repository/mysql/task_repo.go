package mysql

import (
	"github.com/Cecile-Hirschauer/adaboards-api/internal/model"

	"gorm.io/gorm"
)

type TaskRepository struct {
	DB *gorm.DB
}

func (r *TaskRepository) Create(task *model.Task) error {
	return r.DB.Create(task).Error
}

// FindInBoard 任务必须属于该看板，跨看板的 id 一律当不存在处理
func (r *TaskRepository) FindInBoard(boardID, taskID uint64) (*model.Task, error) {
	var task model.Task
	err := r.DB.Where("id = ? AND board_id = ?", taskID, boardID).First(&task).Error
	return &task, err
}

func (r *TaskRepository) ListByBoard(boardID uint64) ([]model.Task, error) {
	var list []model.Task
	err := r.DB.Where("board_id = ?", boardID).
		Order("created_at desc").
		Find(&list).Error
	return list, err
}

// Updates 部分更新，只动给到的字段
func (r *TaskRepository) Updates(task *model.Task, fields map[string]any) error {
	return r.DB.Model(task).Updates(fields).Error
}

func (r *TaskRepository) Delete(taskID uint64) error {
	return r.DB.Delete(&model.Task{}, taskID).Error
}
