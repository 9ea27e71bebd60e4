package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// 确保LocalFileStorage实现了ObjectStorage接口
var _ ObjectStorage = (*LocalFileStorage)(nil)

// LocalFileStorage 未配置MinIO时把原始文件写到本地目录，对象键与MinIO一致
type LocalFileStorage struct {
	root string
}

// NewLocalFileStorage 创建本地文件存储，目录不存在时自动创建
func NewLocalFileStorage(root string) (*LocalFileStorage, error) {
	if root == "" {
		return nil, fmt.Errorf("本地存储目录不能为空")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("创建本地存储目录失败: %w", err)
	}
	return &LocalFileStorage{root: root}, nil
}

// resolve 对象键转成 root 下的路径，拒绝越出 root 的键
func (l *LocalFileStorage) resolve(objectKey string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(objectKey))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("非法的对象键: %s", objectKey)
	}
	return filepath.Join(l.root, clean), nil
}

// UploadResumeFile 保存原始简历
func (l *LocalFileStorage) UploadResumeFile(ctx context.Context, resumeID, fileExt string, reader io.Reader, fileSize int64) (string, error) {
	objectKey := ResumeObjectKey(resumeID, fileExt)
	path, err := l.resolve(objectKey)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("创建目录失败: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("创建文件失败: %w", err)
	}
	if _, err := io.Copy(f, reader); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("写入文件失败: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("关闭文件失败: %w", err)
	}
	return objectKey, nil
}

// GetResumeFile 读取原始简历
func (l *LocalFileStorage) GetResumeFile(ctx context.Context, objectKey string) ([]byte, error) {
	path, err := l.resolve(objectKey)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// DeleteFile 删除文件，不存在时不报错
func (l *LocalFileStorage) DeleteFile(ctx context.Context, objectKey string) error {
	path, err := l.resolve(objectKey)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("删除文件失败: %w", err)
	}
	return nil
}
