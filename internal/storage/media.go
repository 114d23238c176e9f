// Package storage 帖子图片的本地存储
package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotImage 上传内容不是图片
var ErrNotImage = errors.New("uploaded file is not an image")

// Media 媒体文件存储
type Media interface {
	// Save 保存图片，返回相对路径（如 posts/<uuid>.gif）
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Remove(ctx context.Context, rel string) error
}

// LocalMedia 存储在本地目录 root 下
type LocalMedia struct {
	root string
}

func NewLocalMedia(root string) *LocalMedia { return &LocalMedia{root: root} }

// Root 媒体根目录（用于静态文件路由）
func (m *LocalMedia) Root() string { return m.root }

const uploadDir = "posts"

func (m *LocalMedia) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if !strings.HasPrefix(http.DetectContentType(head), "image/") {
		return "", ErrNotImage
	}

	dir := filepath.Join(m.root, uploadDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(filename))
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	if _, err := io.Copy(f, br); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write media file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path.Join(uploadDir, name), nil
}

func (m *LocalMedia) Remove(_ context.Context, rel string) error {
	if rel == "" {
		return nil
	}
	err := os.Remove(filepath.Join(m.root, filepath.FromSlash(rel)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
