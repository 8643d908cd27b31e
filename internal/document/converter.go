package document

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"go.uber.org/zap"
)

// Converter extracts plain text from uploaded documents (PDF, DOCX, plain
// text). Extraction is best-effort: callers treat an error as "no text" and
// surface a warning instead of terminating the session.
type Converter struct {
	logger *zap.Logger
}

func NewConverter(logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{logger: logger}
}

// Convert returns the plain text of the document. Plain-text files are
// passed through; everything else goes through docconv based on the file
// extension.
func (c *Converter) Convert(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".txt" {
		return strings.TrimSpace(string(data)), nil
	}

	mimeType := docconv.MimeTypeByExtension(filename)

	c.logger.Debug("converting document",
		zap.String("filename", filename),
		zap.String("mime_type", mimeType),
		zap.Int("size_bytes", len(data)),
	)

	res, err := docconv.Convert(bytes.NewReader(data), mimeType, true)
	if err != nil {
		return "", fmt.Errorf("convert %s: %w", filename, err)
	}

	return strings.TrimSpace(res.Body), nil
}
