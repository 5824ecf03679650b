package repositories

import (
	"context"
	"iter"

	"github.com/mangrove-registry/models"
	"gorm.io/gorm"
)

// DocumentRepository handles database operations for project documents
type DocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository instance
func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *DocumentRepository) WithTx(tx *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: tx}
}

// Create inserts a new document record
func (r *DocumentRepository) Create(ctx context.Context, doc *models.ProjectDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// FindByID retrieves a document that belongs to the given project
func (r *DocumentRepository) FindByID(ctx context.Context, projectID string, id uint) (models.ProjectDocument, error) {
	var doc models.ProjectDocument
	result := r.db.WithContext(ctx).First(&doc, "id = ? AND project_id = ?", id, projectID)
	return doc, result.Error
}

// CountByProjectID counts the documents attached to a project
func (r *DocumentRepository) CountByProjectID(ctx context.Context, projectID string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.ProjectDocument{}).Where("project_id = ?", projectID).Count(&count)
	return count, result.Error
}

// IterateByProjectID streams a project's documents in upload order
func (r *DocumentRepository) IterateByProjectID(ctx context.Context, projectID string) iter.Seq2[models.ProjectDocument, error] {
	return scanEach[models.ProjectDocument](func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.ProjectDocument{}).
			Where("project_id = ?", projectID).
			Order("uploaded_at ASC").Order("id ASC")
	})
}

// FileHandlesByProjectID returns the blob handles of a project's documents
func (r *DocumentRepository) FileHandlesByProjectID(ctx context.Context, projectID string) ([]string, error) {
	var handles []string
	result := r.db.WithContext(ctx).Model(&models.ProjectDocument{}).
		Where("project_id = ?", projectID).
		Order("id").
		Pluck("file", &handles)
	return handles, result.Error
}

// FindAll retrieves every document, used by the data copy tool
func (r *DocumentRepository) FindAll(ctx context.Context) ([]models.ProjectDocument, error) {
	var docs []models.ProjectDocument
	result := r.db.WithContext(ctx).Order("id").Find(&docs)
	return docs, result.Error
}
