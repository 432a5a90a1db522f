package services

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"sync"
)

// MockStorage is an in-memory StorageInterface implementation for testing
type MockStorage struct {
	uploadedFiles map[string][]byte // map of key to file content
	mu            sync.RWMutex
}

// NewMockStorage creates a new mock storage service
func NewMockStorage() *MockStorage {
	return &MockStorage{
		uploadedFiles: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global storage instance for testing
func (m *MockStorage) SetAsMockForTesting() {
	SetStorageService(m)
}

// UploadFile simulates uploading a file
func (m *MockStorage) UploadFile(fileHeader *multipart.FileHeader, prefix string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content := make([]byte, fileHeader.Size)
	if _, err := file.Read(content); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := fmt.Sprintf("%s/mock_%s", prefix, filepath.Base(fileHeader.Filename))

	m.mu.Lock()
	m.uploadedFiles[key] = content
	m.mu.Unlock()

	return key, nil
}

// GetPresignedURL simulates generating a presigned URL
func (m *MockStorage) GetPresignedURL(key string) (string, error) {
	if key == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.uploadedFiles[key]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("file not found in mock storage: %s", key)
	}

	return fmt.Sprintf("https://test-bucket.s3.eu-west-3.amazonaws.com/%s?mock=true", key), nil
}

// DeleteFile simulates deleting a file
func (m *MockStorage) DeleteFile(key string) error {
	if key == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.uploadedFiles, key)
	m.mu.Unlock()

	return nil
}

// AddFile seeds a file into mock storage without going through an upload
func (m *MockStorage) AddFile(key string) {
	m.mu.Lock()
	m.uploadedFiles[key] = []byte("mock content")
	m.mu.Unlock()
}

// FileExists checks if a file exists in mock storage
func (m *MockStorage) FileExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.uploadedFiles[key]
	return exists
}

// Clear removes all files from mock storage
func (m *MockStorage) Clear() {
	m.mu.Lock()
	m.uploadedFiles = make(map[string][]byte)
	m.mu.Unlock()
}
