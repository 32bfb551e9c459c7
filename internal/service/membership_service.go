package service

import (
	"context"
	"errors"
	"time"

	"github.com/Cecile-Hirschauer/adaboards-api/internal/model"
	"github.com/Cecile-Hirschauer/adaboards-api/internal/pkg"
	"github.com/Cecile-Hirschauer/adaboards-api/internal/repository/mysql"

	"gorm.io/gorm"
)

// MembershipService 看板访问控制的唯一入口：角色查询、管理权限校验、
// 最后一个 OWNER 的保护都在这里
type MembershipService struct {
	members  *mysql.MembershipRepository
	users    *mysql.UserRepository
	boards   *mysql.BoardRepository
	producer *pkg.KafkaProducer // 可为 nil，nil 时事件只落外发表
	smtp     pkg.SMTPConfig
}

func NewMembershipService(db *gorm.DB, producer *pkg.KafkaProducer, smtp pkg.SMTPConfig) *MembershipService {
	return &MembershipService{
		members:  &mysql.MembershipRepository{DB: db},
		users:    &mysql.UserRepository{DB: db},
		boards:   &mysql.BoardRepository{DB: db},
		producer: producer,
		smtp:     smtp,
	}
}

// RequireMembership 查调用者在看板上的成员关系。
// 无成员关系一律报"看板不存在"：不能向非成员确认看板存在
func (s *MembershipService) RequireMembership(boardID, userID uint64) (*model.Membership, error) {
	m, err := s.members.Find(boardID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.NotFound("Board not found")
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// RequireManagerRole 管理操作要求 OWNER 或 MAINTAINER
func (s *MembershipService) RequireManagerRole(m *model.Membership) error {
	if !m.Role.CanManage() {
		return pkg.Forbidden("Requires OWNER or MAINTAINER role")
	}
	return nil
}

// RequireOwnerRole 只用于删看板
func (s *MembershipService) RequireOwnerRole(m *model.Membership) error {
	if m.Role != model.RoleOwner {
		return pkg.Forbidden("Requires OWNER role")
	}
	return nil
}

// AssertUserIsBoardMember 校验任务指派候选人也在看板上
func (s *MembershipService) AssertUserIsBoardMember(boardID, userID uint64) error {
	_, err := s.members.Find(boardID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkg.BadRequest("Assigned user is not a member of this board")
	}
	return err
}

func (s *MembershipService) ListMembers(boardID, actorID uint64) ([]model.MemberView, error) {
	if _, err := s.RequireMembership(boardID, actorID); err != nil {
		return nil, err
	}
	return s.members.ListByBoard(boardID)
}

func (s *MembershipService) AddMember(ctx context.Context, boardID, actorID, targetUserID uint64, role model.Role) (*model.MemberView, error) {
	actor, err := s.RequireMembership(boardID, actorID)
	if err != nil {
		return nil, err
	}
	if err = s.RequireManagerRole(actor); err != nil {
		return nil, err
	}

	if role == "" {
		role = model.RoleMember
	}
	if !role.Valid() {
		return nil, pkg.BadRequest("Invalid role")
	}

	target, err := s.users.FindByID(targetUserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}

	if _, err = s.members.Find(boardID, targetUserID); err == nil {
		return nil, pkg.Conflict("User is already a member of this board")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	m := &model.Membership{BoardID: boardID, UserID: targetUserID, Role: role}
	outbox := s.buildOutbox("member_added", boardID, targetUserID, actorID, role)
	if err = s.members.Add(ctx, m, outbox); err != nil {
		// 并发加同一个人时，输家撞唯一索引
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkg.Conflict("User is already a member of this board")
		}
		return nil, err
	}

	s.publish(ctx, outbox)
	s.notifyInvite(actor.UserID, target, boardID, role)

	return &model.MemberView{User: target.Public(), Role: role, JoinedAt: m.JoinedAt}, nil
}

func (s *MembershipService) UpdateMemberRole(ctx context.Context, boardID, actorID, targetUserID uint64, newRole model.Role) (*model.MemberView, error) {
	actor, err := s.RequireMembership(boardID, actorID)
	if err != nil {
		return nil, err
	}
	if err = s.RequireManagerRole(actor); err != nil {
		return nil, err
	}
	if !newRole.Valid() {
		return nil, pkg.BadRequest("Invalid role")
	}

	if _, err = s.members.Find(boardID, targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("Member not found")
		}
		return nil, err
	}

	outbox := s.buildOutbox("role_changed", boardID, targetUserID, actorID, newRole)
	err = s.members.UpdateRole(ctx, boardID, targetUserID, newRole, outbox)
	switch {
	case errors.Is(err, mysql.ErrLastOwner):
		return nil, pkg.Forbidden("Cannot change the role of the last owner")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkg.NotFound("Member not found")
	case err != nil:
		return nil, err
	}

	s.publish(ctx, outbox)

	updated, err := s.members.Find(boardID, targetUserID)
	if err != nil {
		return nil, err
	}
	target, err := s.users.FindByID(targetUserID)
	if err != nil {
		return nil, err
	}
	return &model.MemberView{User: target.Public(), Role: updated.Role, JoinedAt: updated.JoinedAt}, nil
}

// RemoveMember 自移除也走这条路径：OWNER 退出要求看板还有别的 OWNER
func (s *MembershipService) RemoveMember(ctx context.Context, boardID, actorID, targetUserID uint64) error {
	actor, err := s.RequireMembership(boardID, actorID)
	if err != nil {
		return err
	}
	if err = s.RequireManagerRole(actor); err != nil {
		return err
	}

	target, err := s.members.Find(boardID, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.NotFound("Member not found")
		}
		return err
	}

	outbox := s.buildOutbox("member_removed", boardID, targetUserID, actorID, target.Role)
	err = s.members.Remove(ctx, boardID, targetUserID, outbox)
	switch {
	case errors.Is(err, mysql.ErrLastOwner):
		return pkg.Forbidden("Cannot remove the last owner")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkg.NotFound("Member not found")
	case err != nil:
		return err
	}

	s.publish(ctx, outbox)
	return nil
}

func (s *MembershipService) buildOutbox(eventType string, boardID, userID, actorID uint64, role model.Role) *model.MembershipOutbox {
	event := pkg.MembershipEvent{
		EventType: eventType,
		BoardID:   boardID,
		UserID:    userID,
		ActorID:   actorID,
		Role:      string(role),
	}
	payload, _ := event.Marshal()
	return &model.MembershipOutbox{
		EventType: eventType,
		BoardID:   boardID,
		UserID:    userID,
		Payload:   string(payload),
	}
}

// publish 事务提交后同步外发，失败不影响主流程，只改外发表状态
func (s *MembershipService) publish(ctx context.Context, outbox *model.MembershipOutbox) {
	if s.producer == nil {
		return
	}
	sendCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	key := pkg.MembershipEvent{BoardID: outbox.BoardID}.Key()
	if err := s.producer.Send(sendCtx, key, []byte(outbox.Payload)); err != nil {
		_ = s.members.MarkOutbox(outbox.ID, 2)
		return
	}
	_ = s.members.MarkOutbox(outbox.ID, 1)
}

// notifyInvite 邀请通知邮件，尽力而为
func (s *MembershipService) notifyInvite(inviterID uint64, target *model.User, boardID uint64, role model.Role) {
	if !s.smtp.Enabled() {
		return
	}
	inviter, err := s.users.FindByID(inviterID)
	if err != nil {
		return
	}
	board, err := s.boards.FindByID(boardID)
	if err != nil {
		return
	}
	html := pkg.InviteHTML(inviter.Name, board.Name, string(role))
	_ = pkg.SendEmail(s.smtp, target.Email, "看板邀请", html)
}
