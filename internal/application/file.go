package application

import (
	"context"
	"errors"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"github.com/atelier-studio/atelier-go/internal/domain/file"
	"github.com/atelier-studio/atelier-go/internal/repository"
	"github.com/atelier-studio/atelier-go/internal/storage"
	"gorm.io/gorm"
)

type FileService struct {
	Repos *repository.Repos
}

func NewFileService(repos *repository.Repos) *FileService {
	return &FileService{
		Repos: repos,
	}
}

// UploadFile streams the multipart part into object storage under a
// generated key and records the file row pointing at it.
func (s *FileService) UploadFile(ctx context.Context, uploaderID uint, header *multipart.FileHeader) (*file.File, error) {
	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	objectName := storage.ObjectKey(header.Filename)
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := storage.UploadObject(ctx, objectName, contentType, src, header.Size); err != nil {
		return nil, err
	}

	f := file.File{
		Name:       header.Filename,
		Format:     strings.TrimPrefix(path.Ext(header.Filename), "."),
		MinIOPath:  objectName,
		UploaderID: uploaderID,
	}
	if err := s.Repos.File.CreateFile(&f); err != nil {
		// Row failed; drop the orphan object.
		_ = storage.DeleteObject(ctx, objectName)
		return nil, err
	}
	return &f, nil
}

// ResolveURL returns a presigned download link for a stored file.
func (s *FileService) ResolveURL(ctx context.Context, id uint) (string, error) {
	f, err := s.Repos.File.GetFileByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrFileNotFound
		}
		return "", err
	}
	return storage.PresignedURL(ctx, f.MinIOPath, 15*time.Minute)
}

func (s *FileService) RemoveFile(ctx context.Context, id uint) error {
	f, err := s.Repos.File.GetFileByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFileNotFound
		}
		return err
	}
	if err := s.Repos.File.DeleteFile(id); err != nil {
		return err
	}
	return storage.DeleteObject(ctx, f.MinIOPath)
}
