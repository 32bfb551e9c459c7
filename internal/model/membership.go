package model

import "time"

// Role 看板成员角色，封闭枚举，权限比较统一走 Level
type Role string

const (
	RoleOwner      Role = "OWNER"
	RoleMaintainer Role = "MAINTAINER"
	RoleMember     Role = "MEMBER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleMaintainer, RoleMember:
		return true
	}
	return false
}

// Level 权限等级：OWNER > MAINTAINER > MEMBER
func (r Role) Level() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleMaintainer:
		return 2
	case RoleMember:
		return 1
	}
	return 0
}

func (r Role) AtLeast(other Role) bool {
	return r.Level() >= other.Level()
}

// CanManage 管理操作（改看板、增删改成员）要求 OWNER 或 MAINTAINER
func (r Role) CanManage() bool {
	return r == RoleOwner || r == RoleMaintainer
}

type Membership struct {
	ID       uint64    `gorm:"primaryKey"`
	BoardID  uint64    `gorm:"not null;index;uniqueIndex:uk_board_user"`
	UserID   uint64    `gorm:"not null;index;uniqueIndex:uk_board_user"`
	Role     Role      `gorm:"size:16;not null;default:'MEMBER'"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}

func (Membership) TableName() string { return "memberships" }

// MemberView 成员视图，联了用户公开信息
type MemberView struct {
	User     UserPublic `json:"user"`
	Role     Role       `json:"role"`
	JoinedAt time.Time  `json:"joined_at"`
}
