package model

import "time"

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"size:64;not null"`
	Email     string `gorm:"uniqueIndex;size:128;not null"`
	Password  string `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserPublic 对外暴露的用户信息（不含密码哈希）
type UserPublic struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Public() UserPublic {
	return UserPublic{ID: u.ID, Name: u.Name, Email: u.Email}
}
