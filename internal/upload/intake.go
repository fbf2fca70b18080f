package upload

import (
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bidmarket/config"
	"bidmarket/internal/apperrors"
)

const pdfContentType = "application/pdf"

// Intake accepts a single PDF upload, validates it, and stages it to a
// temporary location for the deliverable service to consume.
type Intake struct {
	tempDir  string
	maxBytes int64
}

func NewIntake(cfg config.UploadConfig) (*Intake, error) {
	if err := os.MkdirAll(cfg.TempDir, 0o755); err != nil {
		return nil, err
	}
	return &Intake{tempDir: cfg.TempDir, maxBytes: cfg.MaxBytes}, nil
}

// Stage validates the "file" form field and writes it to the staging dir.
// Returns the staged path; callers own cleanup via Discard.
func (i *Intake) Stage(c *gin.Context) (string, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return "", apperrors.E(apperrors.ErrValidation, "No file uploaded")
	}

	if file.Header.Get("Content-Type") != pdfContentType {
		return "", apperrors.E(apperrors.ErrValidation, "Only PDF files are allowed")
	}

	if file.Size > i.maxBytes {
		return "", apperrors.E(apperrors.ErrValidation, "File size exceeds 10MB limit")
	}

	staged := filepath.Join(i.tempDir, uuid.NewString()+".pdf")
	if err := c.SaveUploadedFile(file, staged); err != nil {
		return "", err
	}
	return staged, nil
}

// Discard removes a staged file. Already-moved or already-removed files are
// not an error: every rejection path calls this unconditionally.
func Discard(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}
