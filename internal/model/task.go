package model

import "time"

type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Task struct {
	ID          uint64     `gorm:"primaryKey"`
	BoardID     uint64     `gorm:"not null;index"`
	Title       string     `gorm:"size:200;not null"`
	Description string     `gorm:"type:text"`
	Status      TaskStatus `gorm:"size:16;not null;default:'TODO'"`
	CreatedBy   uint64     `gorm:"not null;index"`
	AssignedTo  *uint64    `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskView 任务视图，创建人/指派人联用户公开信息
type TaskView struct {
	ID          uint64      `json:"id"`
	BoardID     uint64      `json:"board_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      TaskStatus  `json:"status"`
	CreatedBy   UserPublic  `json:"created_by"`
	AssignedTo  *UserPublic `json:"assigned_to"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
