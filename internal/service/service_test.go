package service

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/Cecile-Hirschauer/adaboards-api/internal/model"
	"github.com/Cecile-Hirschauer/adaboards-api/internal/pkg"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// newTestDB 每个测试一个独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Board{},
		&model.Membership{},
		&model.Task{},
		&model.MembershipOutbox{},
	))
	return db
}

func newMembership(db *gorm.DB) *MembershipService {
	return NewMembershipService(db, nil, pkg.SMTPConfig{})
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) *model.User {
	t.Helper()
	user := &model.User{Name: name, Email: email, Password: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedBoard 建看板并给 owner 写 OWNER 成员
func seedBoard(t *testing.T, db *gorm.DB, name string, ownerID uint64) *model.Board {
	t.Helper()
	board := &model.Board{Name: name}
	require.NoError(t, db.Create(board).Error)
	require.NoError(t, db.Create(&model.Membership{
		BoardID: board.ID,
		UserID:  ownerID,
		Role:    model.RoleOwner,
	}).Error)
	return board
}

func seedMember(t *testing.T, db *gorm.DB, boardID, userID uint64, role model.Role) {
	t.Helper()
	require.NoError(t, db.Create(&model.Membership{
		BoardID: boardID,
		UserID:  userID,
		Role:    role,
	}).Error)
}

func countOwners(t *testing.T, db *gorm.DB, boardID uint64) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&model.Membership{}).
		Where("board_id = ? AND role = ?", boardID, model.RoleOwner).
		Count(&count).Error)
	return count
}

func requireKind(t *testing.T, err error, kind pkg.ErrKind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, pkg.KindOf(err), "unexpected error kind for %q", err)
}
