package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// FileStorage интерфейс для работы с файловым хранилищем загруженных фото
type FileStorage interface {
	Save(ctx context.Context, file *multipart.FileHeader, subPath, storedName string) (relPath string, fileSize int64, err error)
	Delete(ctx context.Context, relPath string) error
	Rename(ctx context.Context, oldRelPath, newRelPath string) error
	Exists(relPath string) bool
	FullPath(relPath string) string
	BaseURL() string
	BaseDir() string
}

// LocalFileStorage реализация для локальной файловой системы
type LocalFileStorage struct {
	baseDir string // Базовый каталог для хранения (например: "./uploads")
	baseURL string // Базовый URL для доступа к файлам (например: "/uploads")
}

func NewLocalFileStorage(baseDir, baseURL string) (*LocalFileStorage, error) {
	// Создаем директорию, если она не существует
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalFileStorage{
		baseDir: baseDir,
		baseURL: baseURL,
	}, nil
}

// Save сохраняет файл под заранее вычисленным именем storedName.
func (s *LocalFileStorage) Save(ctx context.Context, file *multipart.FileHeader, subPath, storedName string) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	filePath := filepath.Join(s.baseDir, subPath, storedName)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create directories: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", 0, fmt.Errorf("failed to open source file: %w", err)
	}
	defer src.Close()

	// Создаем целевой файл
	dst, err := os.Create(filePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	done := make(chan struct{})
	var size int64
	var copyErr error

	go func() {
		size, copyErr = io.Copy(dst, src)
		close(done)
	}()

	select {
	case <-done:
		if copyErr != nil {
			_ = os.Remove(filePath)
			return "", 0, fmt.Errorf("failed to copy file: %w", copyErr)
		}
	case <-ctx.Done():
		_ = os.Remove(filePath)
		return "", 0, ctx.Err()
	}

	return filepath.Join(subPath, storedName), size, nil
}

// Delete удаляет файл из хранилища
func (s *LocalFileStorage) Delete(ctx context.Context, relPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return os.Remove(filepath.Join(s.baseDir, relPath))
}

// Rename переименовывает файл внутри хранилища
func (s *LocalFileStorage) Rename(ctx context.Context, oldRelPath, newRelPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	newFull := filepath.Join(s.baseDir, newRelPath)
	if err := os.MkdirAll(filepath.Dir(newFull), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	return os.Rename(filepath.Join(s.baseDir, oldRelPath), newFull)
}

// Exists проверяет наличие файла в хранилище
func (s *LocalFileStorage) Exists(relPath string) bool {
	_, err := os.Stat(filepath.Join(s.baseDir, relPath))
	return err == nil
}

// FullPath возвращает полный путь к файлу на диске
func (s *LocalFileStorage) FullPath(relPath string) string {
	return filepath.Join(s.baseDir, relPath)
}

// BaseURL возвращает базовый URL для доступа к файлам
func (s *LocalFileStorage) BaseURL() string {
	return s.baseURL
}

func (s *LocalFileStorage) BaseDir() string {
	return s.baseDir
}
