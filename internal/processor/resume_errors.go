package processor

import (
	"errors"
	"fmt"

	"intern-match-go/internal/types"
)

// 上传流程各阶段的基础错误
var (
	ErrStorageNotInit   = errors.New("storage is not initialized")
	ErrDuplicateUpload  = fmt.Errorf("%w: 该文件已上传过", types.ErrConflict)
	ErrStoreFileFailed  = errors.New("保存原始文件失败")
	ErrExtractFailed    = errors.New("提取简历文本失败")
	ErrSaveResumeFailed = errors.New("保存简历失败")
)

// ResumeProcessError 包含上传阶段和简历 ID 的错误
type ResumeProcessError struct {
	ResumeID string
	Op       string
	BaseErr  error
	Detail   string
}

func (e *ResumeProcessError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, 简历:%s): %s", e.BaseErr, e.Op, e.ResumeID, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, 简历:%s)", e.BaseErr, e.Op, e.ResumeID)
}

func (e *ResumeProcessError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *ResumeProcessError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// 错误构造函数

func newValidationError(detail string) error {
	return &ResumeProcessError{Op: "validate", BaseErr: types.ErrInvalidUpload, Detail: detail}
}

func newDuplicateError(resumeID, md5Hex string) error {
	return &ResumeProcessError{ResumeID: resumeID, Op: "dedup", BaseErr: ErrDuplicateUpload, Detail: md5Hex}
}

func newStoreFileError(resumeID string, err error) error {
	return &ResumeProcessError{ResumeID: resumeID, Op: "store", BaseErr: ErrStoreFileFailed, Detail: err.Error()}
}

// 提取失败说明上传的文件本身有问题，同时归为 ErrInvalidUpload
func newExtractError(resumeID string, err error) error {
	return &ResumeProcessError{
		ResumeID: resumeID,
		Op:       "extract",
		BaseErr:  fmt.Errorf("%w: %w", types.ErrInvalidUpload, ErrExtractFailed),
		Detail:   err.Error(),
	}
}

func newSaveError(resumeID string, err error) error {
	return &ResumeProcessError{ResumeID: resumeID, Op: "save", BaseErr: fmt.Errorf("%w: %w", ErrSaveResumeFailed, err)}
}
