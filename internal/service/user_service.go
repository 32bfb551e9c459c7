package service

import (
	"errors"
	"strings"

	"github.com/Cecile-Hirschauer/adaboards-api/internal/model"
	"github.com/Cecile-Hirschauer/adaboards-api/internal/pkg"
	"github.com/Cecile-Hirschauer/adaboards-api/internal/repository/mysql"
	redisrepo "github.com/Cecile-Hirschauer/adaboards-api/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	minPasswordLen     = 8
	searchMinQueryLen  = 2
	searchDefaultLimit = 10
	searchMaxLimit     = 50
)

type UserService struct {
	repo     *mysql.UserRepository
	sessions *redisrepo.SessionRepository // 可为 nil，nil 时退化为纯 JWT 校验
}

func NewUserService(db *gorm.DB, sessions *redisrepo.SessionRepository) *UserService {
	return &UserService{
		repo:     &mysql.UserRepository{DB: db},
		sessions: sessions,
	}
}

func (s *UserService) Register(name, email, password string) (*pkg.Pair, *model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" || password == "" {
		return nil, nil, pkg.BadRequest("name, email and password are required")
	}
	if len(password) < minPasswordLen {
		return nil, nil, pkg.BadRequest("Password must be at least 8 characters")
	}

	if _, err := s.repo.FindByEmail(email); err == nil {
		return nil, nil, pkg.Conflict("Email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := &model.User{Name: name, Email: email, Password: string(hash)}
	if err = s.repo.Create(user); err != nil {
		// 并发注册同邮箱，输家撞唯一索引
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, pkg.Conflict("Email already registered")
		}
		return nil, nil, err
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

func (s *UserService) Login(email, password string) (*pkg.Pair, *model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return nil, nil, pkg.Unauthorized("Invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil, pkg.Unauthorized("Invalid email or password")
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

func (s *UserService) Logout(userID uint64) error {
	if s.sessions == nil {
		return nil
	}
	return s.sessions.DeleteUserToken(userID)
}

func (s *UserService) Refresh(refreshToken string) (*pkg.Pair, error) {
	pair, err := pkg.Refresh(refreshToken)
	if err != nil {
		return nil, pkg.Unauthorized(err.Error())
	}
	claims, err := pkg.ParseAccess(pair.AccessToken)
	if err != nil {
		return nil, err
	}
	if s.sessions != nil {
		if err = s.sessions.AddUserToken(claims.UserID, pair.AccessToken); err != nil {
			return nil, err
		}
	}
	return pair, nil
}

// SearchUsers 太短的查询直接返回空，不打数据库
func (s *UserService) SearchUsers(query string, excludeID uint64, limit int) ([]model.UserPublic, error) {
	query = strings.TrimSpace(query)
	if len(query) < searchMinQueryLen {
		return []model.UserPublic{}, nil
	}
	if limit <= 0 {
		limit = searchDefaultLimit
	}
	if limit > searchMaxLimit {
		limit = searchMaxLimit
	}

	users, err := s.repo.Search(query, excludeID, limit)
	if err != nil {
		return nil, err
	}
	list := make([]model.UserPublic, 0, len(users))
	for _, u := range users {
		list = append(list, u.Public())
	}
	return list, nil
}

// issuePair 签发 token 并写入单会话存储
func (s *UserService) issuePair(userID uint64) (*pkg.Pair, error) {
	pair, err := pkg.GeneratePair(userID)
	if err != nil {
		return nil, err
	}
	if s.sessions != nil {
		if err = s.sessions.AddUserToken(userID, pair.AccessToken); err != nil {
			return nil, err
		}
	}
	return pair, nil
}
