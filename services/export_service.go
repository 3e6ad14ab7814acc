package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/kendall-kelly/whatsapp-order-bot/export"
	"github.com/kendall-kelly/whatsapp-order-bot/utils"
	log "github.com/sirupsen/logrus"
)

// ErrExportNotFound is returned when a saved export does not exist
var ErrExportNotFound = errors.New("export not found")

// ExportResult describes a saved export file
type ExportResult struct {
	Filename   string        `json:"filename"`
	Format     export.Format `json:"format"`
	OrderCount int           `json:"order_count"`
	Size       int           `json:"size"`
	URL        string        `json:"url"`
	ArchiveKey string        `json:"archive_key,omitempty"`
	ArchiveURL string        `json:"archive_url,omitempty"`
}

// ExportService renders the order table and stores it on disk and, optionally, in S3
type ExportService struct {
	store   OrderStore
	dir     string
	archive S3Interface
	now     func() time.Time
}

// NewExportService creates an export service. archive may be nil.
func NewExportService(store OrderStore, dir string, archive S3Interface) *ExportService {
	return &ExportService{store: store, dir: dir, archive: archive, now: time.Now}
}

// Render returns every order encoded in format along with the number of rows
func (s *ExportService) Render(format export.Format) ([]byte, int, error) {
	orders, err := s.store.ListAll()
	if err != nil {
		return nil, 0, err
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, orders); err != nil {
		return nil, 0, fmt.Errorf("failed to render %s export: %w", format, err)
	}
	return buf.Bytes(), len(orders), nil
}

// Create renders an export, saves it in the export directory and archives it
// when an S3 bucket is configured. A failed archive upload is logged and the
// local file is still returned.
func (s *ExportService) Create(ctx context.Context, format export.Format) (*ExportResult, error) {
	content, count, err := s.Render(format)
	if err != nil {
		return nil, err
	}

	filename := format.FileName(s.now())
	if _, err := utils.SaveExportFile(s.dir, filename, content); err != nil {
		return nil, err
	}

	result := &ExportResult{
		Filename:   filename,
		Format:     format,
		OrderCount: count,
		Size:       len(content),
		URL:        utils.GetExportURL(filename),
	}

	if s.archive == nil {
		return result, nil
	}

	key, err := s.archive.UploadFile(ctx, filename, content, format.ContentType())
	if err != nil {
		log.WithError(err).WithField("filename", filename).Warn("Failed to archive export")
		return result, nil
	}
	result.ArchiveKey = key

	if url, err := s.archive.GetPresignedURL(key); err != nil {
		log.WithError(err).WithField("key", key).Warn("Failed to presign archived export")
	} else {
		result.ArchiveURL = url
	}

	return result, nil
}

// Delete removes a saved export and, when archiving is configured, its S3
// copy. A failed archive delete is logged and the local delete still counts.
func (s *ExportService) Delete(ctx context.Context, filename string) error {
	if err := utils.DeleteExportFile(s.dir, filename); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrExportNotFound
		}
		return err
	}

	if s.archive == nil {
		return nil
	}

	key := ArchivePrefix + filename
	if err := s.archive.DeleteFile(ctx, key); err != nil {
		log.WithError(err).WithField("key", key).Warn("Failed to delete archived export")
	}
	return nil
}
