package storage

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

var ErrInvalidKey = errors.New("invalid storage key")

// ImageStore は画像のバイト列を保存して公開URLを返すだけの窓口
type ImageStore interface {
	Save(ctx context.Context, key string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

// LocalImageStore はMEDIA_ROOT配下に保存し、MEDIA_URL+keyを返す
type LocalImageStore struct {
	fs      afero.Fs
	baseURL string
}

// root配下に閉じたファイルシステムで作る
func NewLocalImageStore(root string, baseURL string) *LocalImageStore {
	return NewImageStoreOnFs(afero.NewBasePathFs(afero.NewOsFs(), root), baseURL)
}

// テストではMemMapFsを渡す
func NewImageStoreOnFs(fs afero.Fs, baseURL string) *LocalImageStore {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalImageStore{fs: fs, baseURL: baseURL}
}

func (s *LocalImageStore) Save(ctx context.Context, key string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	if err := s.fs.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return "", err
	}
	if err := afero.WriteFile(s.fs, clean, data, 0o644); err != nil {
		return "", err
	}
	return s.baseURL + clean, nil
}

// 自分のURLでなければ何もしない。既に無いファイルもエラーにしない
func (s *LocalImageStore) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !strings.HasPrefix(url, s.baseURL) {
		return nil
	}
	clean, err := cleanKey(strings.TrimPrefix(url, s.baseURL))
	if err != nil {
		return err
	}
	if err := s.fs.Remove(clean); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// ../ などでルート外に出るキーは拒否
func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return "", ErrInvalidKey
	}
	clean := path.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidKey
	}
	return clean, nil
}
