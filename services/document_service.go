package services

import (
	"context"
	"iter"
	"strconv"
	"strings"

	"github.com/mangrove-registry/models"
	"github.com/mangrove-registry/repositories"
	"gorm.io/gorm"
)

// DocumentService registers uploaded files against projects. File bytes
// live in the blob store; only the opaque handle is kept here.
type DocumentService struct {
	db        *gorm.DB
	projects  *repositories.ProjectRepository
	documents *repositories.DocumentRepository
	audit     *AuditService
	now       Clock
}

// NewDocumentService creates a new document service instance
func NewDocumentService(db *gorm.DB, audit *AuditService, now Clock) *DocumentService {
	return &DocumentService{
		db:        db,
		projects:  repositories.NewProjectRepository(db),
		documents: repositories.NewDocumentRepository(db),
		audit:     audit,
		now:       now,
	}
}

// Upload records a document for a project and appends an upload entry to
// the project's action log in the same transaction.
func (s *DocumentService) Upload(ctx context.Context, actor Actor, projectID string, docType models.DocType, blobHandle string) (models.ProjectDocument, error) {
	if !docType.Valid() {
		return models.ProjectDocument{}, &ValidationError{Field: "docType", Message: "must be one of land_paper, ngo_paper, ngo_experience, other"}
	}
	blobHandle = strings.TrimSpace(blobHandle)
	if blobHandle == "" {
		return models.ProjectDocument{}, &ValidationError{Field: "file", Message: "is required"}
	}

	var doc models.ProjectDocument
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.projects.WithTx(tx).Exists(ctx, projectID)
		if err != nil {
			return err
		}
		if !exists {
			return gorm.ErrRecordNotFound
		}

		doc = models.ProjectDocument{
			ProjectID:  projectID,
			DocType:    docType,
			File:       blobHandle,
			UploadedAt: s.now(),
		}
		if err := s.documents.WithTx(tx).Create(ctx, &doc); err != nil {
			return err
		}

		_, err = s.audit.recordTx(ctx, tx, projectID, actor, models.ActionUploadDocument, docType.Label())
		return err
	})
	if err != nil {
		return models.ProjectDocument{}, translate("upload document", "project", projectID, err)
	}
	return doc, nil
}

// Get retrieves one document of a project
func (s *DocumentService) Get(ctx context.Context, projectID string, documentID uint) (models.ProjectDocument, error) {
	doc, err := s.documents.FindByID(ctx, projectID, documentID)
	if err != nil {
		return models.ProjectDocument{}, translate("get document", "document", strconv.FormatUint(uint64(documentID), 10), err)
	}
	return doc, nil
}

// List streams a project's documents in upload order. An unknown project
// yields a single NotFoundError.
func (s *DocumentService) List(ctx context.Context, projectID string) iter.Seq2[models.ProjectDocument, error] {
	return func(yield func(models.ProjectDocument, error) bool) {
		if err := requireProject(ctx, s.projects, "list documents", projectID); err != nil {
			yield(models.ProjectDocument{}, err)
			return
		}
		for doc, err := range s.documents.IterateByProjectID(ctx, projectID) {
			if err != nil {
				yield(doc, translate("list documents", "project", projectID, err))
				return
			}
			if !yield(doc, nil) {
				return
			}
		}
	}
}

// Count returns how many documents a project has
func (s *DocumentService) Count(ctx context.Context, projectID string) (int64, error) {
	if err := requireProject(ctx, s.projects, "count documents", projectID); err != nil {
		return 0, err
	}
	count, err := s.documents.CountByProjectID(ctx, projectID)
	if err != nil {
		return 0, translate("count documents", "project", projectID, err)
	}
	return count, nil
}
