// Package document holds the client file vault and custom forms.
package document

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/outvoice/backend/internal/application/event"
	"github.com/outvoice/backend/internal/domain/document"
	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/outvoice/backend/internal/infrastructure/logger"
	"github.com/outvoice/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// DefaultLinkTTL is how long a direct download link stays valid
const DefaultLinkTTL = 15 * time.Minute

// FileService stores client files and their metadata
type FileService struct {
	fileRepo   document.FileRepository
	clientRepo partner.ClientRepository
	storage    storage.ObjectStorage
	events     *event.Dispatcher
	linkTTL    time.Duration
	newID      func() string
	now        func() time.Time
}

// NewFileService creates a new FileService
func NewFileService(
	fileRepo document.FileRepository,
	clientRepo partner.ClientRepository,
	objectStorage storage.ObjectStorage,
) *FileService {
	return &FileService{
		fileRepo:   fileRepo,
		clientRepo: clientRepo,
		storage:    objectStorage,
		linkTTL:    DefaultLinkTTL,
		newID:      func() string { return shared.NewID("file") },
		now:        time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *FileService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = event.NewDispatcher(publisher)
}

// SetLinkTTL overrides the lifetime of direct download links
func (s *FileService) SetLinkTTL(ttl time.Duration) {
	if ttl > 0 {
		s.linkTTL = ttl
	}
}

// Upload stores the bytes and registers the file for a client.
// A KYC-tagged upload moves the client's KYC review to Submitted.
func (s *FileService) Upload(ctx context.Context, req UploadFileRequest) (*FileResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CLIENT", "Client not found: "+req.ClientID)
		}
		return nil, err
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(req.Data)
	}
	file, err := document.NewManagedFile(
		s.newID(), req.FileName, contentType, int64(len(req.Data)),
		client.ID, document.FileTag(req.Tag), valueobject.DateOf(s.now()),
	)
	if err != nil {
		return nil, err
	}

	if err := s.storage.Put(ctx, file.StorageKey, req.Data, contentType); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}
	if err := s.fileRepo.Save(ctx, file); err != nil {
		if delErr := s.storage.Delete(ctx, file.StorageKey); delErr != nil {
			logger.L(ctx).Warn("Failed to remove orphaned upload", zap.String("key", file.StorageKey), zap.Error(delErr))
		}
		return nil, err
	}
	logger.L(ctx).Info("File uploaded",
		zap.String("file_id", file.ID),
		zap.String("client_id", client.ID),
		zap.String("tag", string(file.Tag)),
		zap.Int64("size", file.Size))

	if file.Tag == document.FileTagKYC {
		client.SubmitKycDocuments()
		if err := s.clientRepo.Save(ctx, client); err != nil {
			return nil, err
		}
		s.events.Flush(ctx, client)
	}

	resp := ToFileResponse(file)
	return &resp, nil
}

// List returns files in upload order, optionally for one client
func (s *FileService) List(ctx context.Context, clientID string) ([]FileResponse, error) {
	var (
		files []*document.ManagedFile
		err   error
	)
	if clientID == "" {
		files, err = s.fileRepo.FindAll(ctx)
	} else {
		files, err = s.fileRepo.FindByClient(ctx, clientID)
	}
	if err != nil {
		return nil, err
	}
	return ToFileResponses(files), nil
}

// GetByID returns file metadata
func (s *FileService) GetByID(ctx context.Context, id string) (*FileResponse, error) {
	file, err := s.fileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToFileResponse(file)
	return &resp, nil
}

// Download returns the stored bytes of a file
func (s *FileService) Download(ctx context.Context, id string) (*FileContent, error) {
	file, err := s.fileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	obj, err := s.storage.Get(ctx, file.StorageKey)
	if err != nil {
		return nil, err
	}
	contentType := obj.ContentType
	if contentType == "" {
		contentType = file.Type
	}
	return &FileContent{Name: file.Name, ContentType: contentType, Data: obj.Data}, nil
}

// DownloadLink returns a presigned URL when the storage backend supports it
func (s *FileService) DownloadLink(ctx context.Context, id string) (*DownloadLinkResponse, error) {
	file, err := s.fileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	gen, ok := s.storage.(storage.DownloadURLGenerator)
	if !ok {
		return nil, shared.NewDomainError("DOWNLOAD_LINK_UNAVAILABLE", "Direct download links are not available for this storage backend")
	}
	url, expiresAt, err := gen.GenerateDownloadURL(ctx, file.StorageKey, s.linkTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate download link: %w", err)
	}
	return &DownloadLinkResponse{URL: url, ExpiresAt: expiresAt}, nil
}
