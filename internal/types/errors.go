package types

import (
	"errors"
	"fmt"
)

// 边界层使用的基础错误，handler 通过 errors.Is 映射为 HTTP 状态码
var (
	ErrNotFound      = errors.New("记录不存在")
	ErrInvalidStatus = errors.New("无效的投递状态")
	ErrInvalidUpload = errors.New("无效的上传文件")
	ErrInvalidInput  = errors.New("请求参数不合法")
	ErrConflict      = errors.New("记录已存在")
)

// OpError 带有操作名和实体信息的错误
type OpError struct {
	Op      string
	Entity  string
	ID      string
	BaseErr error
}

func (e *OpError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s (操作:%s, %s:%s)", e.BaseErr, e.Op, e.Entity, e.ID)
	}
	return fmt.Sprintf("%s (操作:%s, %s)", e.BaseErr, e.Op, e.Entity)
}

func (e *OpError) Unwrap() error {
	return e.BaseErr
}

// NewNotFoundError 构造一个指向具体实体的 ErrNotFound
func NewNotFoundError(op, entity, id string) error {
	return &OpError{Op: op, Entity: entity, ID: id, BaseErr: ErrNotFound}
}

// NewConflictError 构造一个唯一约束冲突错误
func NewConflictError(op, entity, id string) error {
	return &OpError{Op: op, Entity: entity, ID: id, BaseErr: ErrConflict}
}
