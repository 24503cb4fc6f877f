// =============================================================================
// Receipt Field Extractor - HTTP Surface
// =============================================================================
//
// Routes:
//   GET  /health          liveness probe
//   POST /api/v1/extract  multipart "files" -> normalized table as JSON
//   POST /api/v1/export   multipart "files" -> .xlsx attachment
//
// Every request runs its own batch: uploads are stored in a private temporary
// directory, extracted in upload order, and removed when the request ends.
//
// =============================================================================

package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/receipt-field-extractor/internal/config"
	"github.com/ginjaninja78/receipt-field-extractor/internal/extractor"
	"github.com/ginjaninja78/receipt-field-extractor/internal/table"
	"github.com/ginjaninja78/receipt-field-extractor/internal/types"
	"github.com/ginjaninja78/receipt-field-extractor/internal/xlsxwriter"
	"github.com/ginjaninja78/receipt-field-extractor/pkg/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler serves extraction requests.
type Handler struct {
	cfg    *config.MainConfig
	source extractor.TextSource
	logger extractor.Logger
}

// NewHandler creates a new Handler instance
func NewHandler(cfg *config.MainConfig, source extractor.TextSource, logger extractor.Logger) *Handler {
	return &Handler{
		cfg:    cfg,
		source: source,
		logger: logger,
	}
}

// New builds the gin router.
func New(cfg *config.MainConfig, source extractor.TextSource, logger extractor.Logger) *gin.Engine {
	h := NewHandler(cfg, source, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = 32 << 20

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Receipt Field Extractor",
		})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/extract", h.Extract)
		api.POST("/export", h.Export)
	}

	return router
}

// Extract handles the POST /api/v1/extract endpoint
func (h *Handler) Extract(c *gin.Context) {
	t, batch, ok := h.runBatch(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, newExtractResponse(t, batch.Failures))
}

// Export handles the POST /api/v1/export endpoint
func (h *Handler) Export(c *gin.Context) {
	t, _, ok := h.runBatch(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	opts := xlsxwriter.DefaultOptions()
	opts.SheetName = h.cfg.SheetName
	if err := xlsxwriter.Encode(&buf, t, opts); err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to build spreadsheet", err)
		return
	}

	name := utils.GenerateOutputFileName(h.cfg.OutputFormat, time.Now(), nil)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// runBatch stores the uploads, extracts them and normalizes the result. When
// it returns false the response has already been written.
func (h *Handler) runBatch(c *gin.Context) (table.Table, *types.Batch, bool) {
	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files = form.File["files"]
	}
	if len(files) == 0 {
		h.sendError(c, http.StatusBadRequest, "At least one file is required", nil)
		return table.Table{}, nil, false
	}

	dir, err := os.MkdirTemp("", "receipt-upload-*")
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to store uploads", err)
		return table.Table{}, nil, false
	}
	defer os.RemoveAll(dir)

	paths, err := saveUploads(c, dir, files)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to store uploads", err)
		return table.Table{}, nil, false
	}

	batch, err := h.extract(c.Request.Context(), paths)
	switch {
	case errors.Is(err, extractor.ErrNoRecords):
		c.JSON(http.StatusUnprocessableEntity, newExtractResponse(table.Table{}, batch.Failures))
		return table.Table{}, nil, false
	case err != nil:
		h.sendError(c, http.StatusInternalServerError, "Extraction failed", err)
		return table.Table{}, nil, false
	}

	return table.Normalize(batch.Records), batch, true
}

func (h *Handler) extract(ctx context.Context, paths []string) (*types.Batch, error) {
	e := extractor.New(h.source, h.cfg.Markers, extractor.WithLogger(h.logger))
	return e.Run(ctx, paths)
}

// saveUploads writes each upload into its own numbered subdirectory so that
// duplicate file names keep their base name as document identifier.
func saveUploads(c *gin.Context, dir string, files []*multipart.FileHeader) ([]string, error) {
	paths := make([]string, 0, len(files))
	for i, file := range files {
		slot := filepath.Join(dir, fmt.Sprintf("%04d", i))
		if err := os.Mkdir(slot, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create upload slot: %w", err)
		}
		path := filepath.Join(slot, filepath.Base(file.Filename))
		if err := c.SaveUploadedFile(file, path); err != nil {
			return nil, fmt.Errorf("failed to save %s: %w", file.Filename, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (h *Handler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		h.logger.Error(message, "error", err)
	}

	c.JSON(statusCode, ErrorResponse{
		Error:   "EXTRACTION_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}
