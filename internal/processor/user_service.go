package processor

import (
	"context"
	"strings"

	"intern-match-go/internal/types"
)

// UserService 用户管理
type UserService struct {
	comp Components
	set  Settings
}

// Create 创建用户，用户名和邮箱不区分大小写唯一
func (s *UserService) Create(ctx context.Context, req *types.CreateUserRequest) (*types.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	id, err := newID()
	if err != nil {
		return nil, err
	}
	user := &types.User{
		ID:        id,
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.TrimSpace(req.Email),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		CreatedAt: s.set.Now().UTC(),
	}
	if err := s.comp.Repository.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get 按 ID 返回用户
func (s *UserService) Get(ctx context.Context, id string) (*types.User, error) {
	return s.comp.Repository.GetUser(ctx, id)
}

// GetByUsername 按用户名返回用户
func (s *UserService) GetByUsername(ctx context.Context, username string) (*types.User, error) {
	return s.comp.Repository.GetUserByUsername(ctx, username)
}
