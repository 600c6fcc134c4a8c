package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/modelify-app/modelify-backend/internal/projects/domain"
	"github.com/modelify-app/modelify-backend/internal/projects/repository"
)

// BlobStore is the slice of the object store the intake needs.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
}

// UploadedFile is one file taken off the multipart request, fully buffered.
type UploadedFile struct {
	Filename     string
	DeclaredMime string
	Data         []byte
}

// RejectedFile reports a file that was skipped during intake and why.
type RejectedFile struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

var allowedMimes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
	"application/zip": true,
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeFilename strips every character outside [A-Za-z0-9._-].
func SanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "")
}

// Intake validates and persists uploaded files against a project. Each file
// stands alone: one bad or failing file is skipped with a reason and never
// aborts its siblings or the surrounding request.
type Intake struct {
	files       *repository.FileRepository
	blob        BlobStore
	maxFiles    int
	maxFileSize int64
}

func NewIntake(files *repository.FileRepository, blob BlobStore, maxFiles int, maxFileSize int64) *Intake {
	if maxFiles <= 0 {
		maxFiles = 5
	}
	if maxFileSize <= 0 {
		maxFileSize = 10 * 1024 * 1024
	}
	return &Intake{files: files, blob: blob, maxFiles: maxFiles, maxFileSize: maxFileSize}
}

// Ingest processes the uploads sequentially and returns the accepted rows
// plus the per-file skip reasons. Files beyond the per-project cap are
// truncated silently.
func (in *Intake) Ingest(ctx context.Context, projectID string, uploads []UploadedFile) ([]domain.ProjectFile, []RejectedFile) {
	if len(uploads) > in.maxFiles {
		uploads = uploads[:in.maxFiles]
	}

	accepted := make([]domain.ProjectFile, 0, len(uploads))
	rejected := make([]RejectedFile, 0)

	for _, up := range uploads {
		record, reason := in.ingestOne(ctx, projectID, up)
		if reason != "" {
			rejected = append(rejected, RejectedFile{Filename: up.Filename, Reason: reason})
			continue
		}
		accepted = append(accepted, *record)
	}

	return accepted, rejected
}

func (in *Intake) ingestOne(ctx context.Context, projectID string, up UploadedFile) (*domain.ProjectFile, string) {
	if int64(len(up.Data)) > in.maxFileSize {
		return nil, fmt.Sprintf("file exceeds maximum size of %d bytes", in.maxFileSize)
	}

	resolved := resolveMime(up.Data, up.DeclaredMime)
	if !allowedMimes[resolved] {
		return nil, fmt.Sprintf("file type %s not allowed", resolved)
	}

	safeName := SanitizeFilename(up.Filename)
	if safeName == "" {
		safeName = "file"
	}
	key := fmt.Sprintf("%s/%d_%s", projectID, time.Now().UnixNano(), safeName)

	if err := in.blob.Upload(ctx, key, up.Data, resolved); err != nil {
		log.Printf("intake: upload %s for project %s: %v", safeName, projectID, err)
		return nil, "upload failed"
	}

	record := &domain.ProjectFile{
		ProjectID: projectID,
		FileURL:   in.blob.PublicURL(key),
		FileType:  domain.FileTypeForMime(resolved),
	}
	if err := in.files.Create(ctx, record); err != nil {
		log.Printf("intake: record %s for project %s: %v", safeName, projectID, err)
		return nil, "could not record file"
	}

	return record, ""
}

// resolveMime sniffs the actual content bytes; the caller-declared type is
// only trusted when sniffing is inconclusive.
func resolveMime(data []byte, declared string) string {
	detected := mimetype.Detect(data).String()
	if detected == "" || detected == "application/octet-stream" {
		return declared
	}
	return detected
}
