package services

import (
	"fmt"
	"os"
	"path/filepath"
)

// StorageService keeps original resume files on disk so recruiters
// can open the document a candidate actually sent.
type StorageService interface {
	SaveResume(candidateName, originalFilename string, content []byte) (string, error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

func (s *storageService) SaveResume(candidateName, originalFilename string, content []byte) (string, error) {
	if err := s.EnsureUploadDir(); err != nil {
		return "", err
	}

	filename := SafeFilename(candidateName, originalFilename)
	filePath := filepath.Join(s.uploadPath, filename)

	if err := os.WriteFile(filePath, content, 0644); err != nil {
		return "", fmt.Errorf("failed to save resume file: %w", err)
	}
	return filePath, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filename)
}

func (s *storageService) DeleteFile(filename string) error {
	filePath := s.GetFilePath(filename)
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
