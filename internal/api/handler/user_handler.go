package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"intern-match-go/internal/processor"
	"intern-match-go/internal/types"
)

// UserHandler 用户接口
type UserHandler struct {
	users *processor.UserService
}

// NewUserHandler 创建用户接口处理器
func NewUserHandler(users *processor.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Create POST /api/users
func (h *UserHandler) Create(ctx context.Context, c *app.RequestContext) {
	var req types.CreateUserRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	user, err := h.users.Create(ctx, &req)
	if err != nil {
		respondError(ctx, c, err, "Failed to create user")
		return
	}
	c.JSON(consts.StatusCreated, user)
}

// Get GET /api/users/:id
func (h *UserHandler) Get(ctx context.Context, c *app.RequestContext) {
	user, err := h.users.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(ctx, c, err, "Failed to fetch user")
		return
	}
	c.JSON(consts.StatusOK, user)
}
