package v1

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mangrove-registry/dto"
	"github.com/mangrove-registry/lib/blobstore"
	"github.com/mangrove-registry/models"
	"github.com/mangrove-registry/services"
	"go.uber.org/zap"
)

// DocumentController handles supporting document uploads and downloads
type DocumentController struct {
	projects       *ProjectController
	documents      *services.DocumentService
	blobs          blobstore.Store
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewDocumentController creates a new document controller
func NewDocumentController(projects *ProjectController, documents *services.DocumentService, blobs blobstore.Store, maxUploadBytes int64, logger *zap.Logger) *DocumentController {
	return &DocumentController{
		projects:       projects,
		documents:      documents,
		blobs:          blobs,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// ListDocuments returns a project's documents in upload order
func (d *DocumentController) ListDocuments(c *gin.Context) {
	if _, ok := d.projects.loadProject(c, canView); !ok {
		return
	}

	response := dto.DocumentListResponse{Documents: make([]dto.DocumentResponse, 0)}
	for doc, err := range d.documents.List(c.Request.Context(), c.Param("id")) {
		if err != nil {
			respondError(c, d.logger, err)
			return
		}
		response.Documents = append(response.Documents, dto.NewDocumentResponse(doc))
	}
	response.Count = int64(len(response.Documents))

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   response,
	})
}

// UploadDocument stores the file and registers it against the project. The
// stored file is removed again if registration fails.
func (d *DocumentController) UploadDocument(c *gin.Context) {
	if _, ok := d.projects.loadProject(c, canManage); !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, d.maxUploadBytes)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"status":  "error",
				"message": "File exceeds the upload limit",
			})
			return
		}
		respondError(c, d.logger, &services.ValidationError{Field: "file", Message: "is required"})
		return
	}

	docType := models.DocType(c.PostForm("doc_type"))
	if !docType.Valid() {
		respondError(c, d.logger, &services.ValidationError{Field: "docType", Message: "must be one of land_paper, ngo_paper, ngo_experience, other"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, d.logger, err)
		return
	}
	defer file.Close()

	handle, err := d.blobs.Put(c.Request.Context(), fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		respondError(c, d.logger, err)
		return
	}

	doc, err := d.documents.Upload(c.Request.Context(), currentActor(c), c.Param("id"), docType, handle)
	if err != nil {
		if delErr := d.blobs.Delete(c.Request.Context(), handle); delErr != nil {
			d.logger.Warn("failed to remove unregistered upload", zap.String("file", handle), zap.Error(delErr))
		}
		respondError(c, d.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   "success",
		"document": dto.NewDocumentResponse(doc),
	})
}

// DownloadDocument streams a stored document back to the client
func (d *DocumentController) DownloadDocument(c *gin.Context) {
	if _, ok := d.projects.loadProject(c, canView); !ok {
		return
	}

	docID, err := strconv.ParseUint(c.Param("docId"), 10, 64)
	if err != nil {
		respondError(c, d.logger, &services.NotFoundError{Entity: "document", ID: c.Param("docId")})
		return
	}

	doc, err := d.documents.Get(c.Request.Context(), c.Param("id"), uint(docID))
	if err != nil {
		respondError(c, d.logger, err)
		return
	}

	reader, err := d.blobs.Open(c.Request.Context(), doc.File)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			respondError(c, d.logger, &services.NotFoundError{Entity: "file", ID: c.Param("docId")})
			return
		}
		respondError(c, d.logger, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": blobstore.Filename(doc.File)}))
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		d.logger.Warn("document download interrupted", zap.String("file", doc.File), zap.Error(err))
	}
}
