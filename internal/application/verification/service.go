package verification

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/unibuy/unibuy-api/internal/domain"
	"github.com/unibuy/unibuy-api/internal/pkg/id"
	"github.com/unibuy/unibuy-api/internal/pkg/validate"
)

type Service interface {
	// Submit uploads a proof-of-enrollment document and queues it for review.
	Submit(ctx context.Context, userID string, req domain.SubmitDocumentRequest) (*domain.StudentDocument, error)
	// Status returns the latest submission for a user.
	Status(ctx context.Context, userID string) (*domain.StudentDocument, error)
	// Review approves or rejects a pending document. Approval marks the
	// account student-verified; rejection removes the stored object.
	Review(ctx context.Context, documentID, reviewerID string, approve bool) (*domain.StudentDocument, error)
	// File streams the stored document so a reviewer can inspect it.
	File(ctx context.Context, documentID string) (io.ReadCloser, string, error)
}

type documentStore interface {
	Put(ctx context.Context, d *domain.StudentDocument) error
	Get(ctx context.Context, documentID string) (*domain.StudentDocument, error)
	GetLatestByUser(ctx context.Context, userID string) (*domain.StudentDocument, error)
	Update(ctx context.Context, documentID string, updates map[string]interface{}) error
}

type userStore interface {
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type objectStore interface {
	UploadBase64(ctx context.Context, key, b64Data, contentType string) (int64, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	documentRepo documentStore
	userRepo     userStore
	objects      objectStore
}

type ServiceDeps struct {
	DocumentRepo documentStore
	UserRepo     userStore
	ObjectStore  objectStore
}

func NewService(deps ServiceDeps) Service {
	return &service{
		documentRepo: deps.DocumentRepo,
		userRepo:     deps.UserRepo,
		objects:      deps.ObjectStore,
	}
}

func (s *service) Submit(ctx context.Context, userID string, req domain.SubmitDocumentRequest) (*domain.StudentDocument, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, err
	}
	docID := id.New()
	key := fmt.Sprintf("student-docs/%s/%s", userID, docID)
	size, err := s.objects.UploadBase64(ctx, key, req.Data, req.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}
	now := time.Now().UTC()
	d := &domain.StudentDocument{
		DocumentID:  docID,
		UserID:      userID,
		Object:      key,
		ContentType: req.ContentType,
		Size:        size,
		Status:      domain.DocumentPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.documentRepo.Put(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) Status(ctx context.Context, userID string) (*domain.StudentDocument, error) {
	return s.documentRepo.GetLatestByUser(ctx, userID)
}

func (s *service) Review(ctx context.Context, documentID, reviewerID string, approve bool) (*domain.StudentDocument, error) {
	d, err := s.documentRepo.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if d.Status != domain.DocumentPending {
		return nil, fmt.Errorf("document already reviewed: %w", domain.ErrConflict)
	}
	status := domain.DocumentRejected
	if approve {
		status = domain.DocumentApproved
	}
	if err := s.documentRepo.Update(ctx, documentID, map[string]interface{}{
		"status":      status,
		"reviewed_by": reviewerID,
	}); err != nil {
		return nil, err
	}
	if approve {
		if err := s.userRepo.Update(ctx, d.UserID, map[string]interface{}{"is_student_verified": true}); err != nil {
			return nil, err
		}
	} else {
		// A rejected file has no further use; don't keep it around.
		if err := s.objects.Delete(ctx, d.Object); err != nil {
			slog.Warn("could not delete rejected document object", "key", d.Object, "err", err)
		}
	}
	d.Status = status
	d.ReviewedBy = &reviewerID
	return d, nil
}

func (s *service) File(ctx context.Context, documentID string) (io.ReadCloser, string, error) {
	d, err := s.documentRepo.Get(ctx, documentID)
	if err != nil {
		return nil, "", err
	}
	rc, err := s.objects.Download(ctx, d.Object)
	if err != nil {
		return nil, "", fmt.Errorf("download document: %w", err)
	}
	return rc, d.ContentType, nil
}
