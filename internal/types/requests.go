package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("app_status", func(fl validator.FieldLevel) bool {
			return ApplicationStatus(fl.Field().String()).Valid()
		})
	})
	return validate
}

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,min=2,max=64"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName,omitempty" validate:"max=64"`
	LastName  string `json:"lastName,omitempty" validate:"max=64"`
}

// Validate 校验请求字段
func (r *CreateUserRequest) Validate() error {
	return wrapValidation(getValidator().Struct(r))
}

// CreateApplicationRequest 创建投递请求，Status 为空时默认为 pending
type CreateApplicationRequest struct {
	UserID       string            `json:"userId" validate:"required"`
	InternshipID string            `json:"internshipId" validate:"required"`
	ResumeID     string            `json:"resumeId" validate:"required"`
	Status       ApplicationStatus `json:"status,omitempty" validate:"omitempty,app_status"`
	CoverLetter  string            `json:"coverLetter,omitempty" validate:"max=10000"`
}

// Validate 校验请求字段
func (r *CreateApplicationRequest) Validate() error {
	return wrapValidation(getValidator().Struct(r))
}

// UpdateStatusRequest 更新投递状态请求
type UpdateStatusRequest struct {
	Status ApplicationStatus `json:"status" validate:"required,app_status"`
}

// Validate 校验请求字段，未知状态返回 ErrInvalidStatus
func (r *UpdateStatusRequest) Validate() error {
	if err := getValidator().Struct(r); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, r.Status)
	}
	return nil
}

// wrapValidation 把 validator 的错误整理为一行可读信息并包装 ErrInvalidInput
func wrapValidation(err error) error {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(fields, ", "))
}
