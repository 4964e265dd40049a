package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/mapper"
	"github.com/carebase/admin-api/internal/repository"
	"github.com/carebase/admin-api/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UploadInput is one file received from the upload form
type UploadInput struct {
	ClientID    uuid.UUID
	Filename    string
	ContentType string
	Body        io.Reader
}

type DocumentService struct {
	documentRepo *repository.DocumentRepository
	clientRepo   *repository.ClientRepository
	storage      storage.Storage
	activity     *ActivityService
	logger       *zap.Logger
	now          func() time.Time
}

func NewDocumentService(
	documentRepo *repository.DocumentRepository,
	clientRepo *repository.ClientRepository,
	store storage.Storage,
	activity *ActivityService,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		clientRepo:   clientRepo,
		storage:      store,
		activity:     activity,
		logger:       logger,
		now:          time.Now,
	}
}

// Upload stores the file under "<unix-millis>_<filename>" and records it
// against the client.
func (s *DocumentService) Upload(ctx context.Context, in UploadInput) (*domain.DocumentDTO, error) {
	userCtx, err := authorize(ctx, domain.EntityDocuments, domain.ActionCreate)
	if err != nil {
		return nil, err
	}
	if in.ClientID == uuid.Nil {
		return nil, fmt.Errorf("%w: clientId is required", ErrInvalidInput)
	}
	filename := cleanFilename(in.Filename)
	if filename == "" {
		return nil, fmt.Errorf("%w: file is required", ErrInvalidInput)
	}

	client, err := s.clientRepo.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, lookupError("client", err)
	}

	key := fmt.Sprintf("%d_%s", s.now().UnixMilli(), filename)
	obj, err := s.storage.Put(ctx, key, in.ContentType, in.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	doc := &domain.Document{
		ClientID:    client.ID,
		Client:      client,
		UploadedBy:  &userCtx.UserID,
		Filename:    filename,
		FileURL:     obj.URL,
		StorageKey:  obj.Key,
		ContentType: in.ContentType,
		Size:        obj.Size,
	}
	if err := s.documentRepo.Create(ctx, doc); err != nil {
		if delErr := s.storage.Delete(ctx, obj.Key); delErr != nil {
			s.logger.Warn("failed to remove orphaned upload", zap.String("key", obj.Key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	s.activity.Record(ctx, domain.ActionDocumentUploaded, doc.ID,
		fmt.Sprintf("Document '%s' was uploaded for client '%s'", doc.Filename, client.Name),
		map[string]interface{}{"clientId": client.ID.String(), "size": doc.Size})

	dto := mapper.ToDocumentDTO(doc)
	return &dto, nil
}

func (s *DocumentService) List(ctx context.Context, filters domain.DocumentFilters) ([]domain.DocumentDTO, error) {
	if _, err := authorize(ctx, domain.EntityDocuments, domain.ActionRead); err != nil {
		return nil, err
	}

	docs, err := s.documentRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	dtos := make([]domain.DocumentDTO, len(docs))
	for i := range docs {
		dtos[i] = mapper.ToDocumentDTO(&docs[i])
	}
	return dtos, nil
}

func (s *DocumentService) GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentDTO, error) {
	if _, err := authorize(ctx, domain.EntityDocuments, domain.ActionRead); err != nil {
		return nil, err
	}

	doc, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("document", err)
	}
	dto := mapper.ToDocumentDTO(doc)
	return &dto, nil
}

// Delete removes the row, then the stored object. A failed object delete is
// logged and leaves an orphan rather than failing the request.
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := authorize(ctx, domain.EntityDocuments, domain.ActionDelete); err != nil {
		return err
	}

	doc, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		return lookupError("document", err)
	}
	if err := s.documentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if err := s.storage.Delete(ctx, doc.StorageKey); err != nil {
		s.logger.Warn("failed to delete stored file",
			zap.String("document_id", id.String()),
			zap.String("key", doc.StorageKey),
			zap.Error(err))
	}

	s.activity.Record(ctx, domain.ActionDocumentDeleted, id, fmt.Sprintf("Document '%s' was deleted", doc.Filename), nil)
	return nil
}

// cleanFilename keeps only the base name so it can be used inside an object key
func cleanFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
