package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/infrastructure/logger"
	"github.com/secangkircinta/scug/internal/ports"
)

// sniffLen is the number of leading bytes mimetype inspects
const sniffLen = 3072

// sniffedFile is an upload whose leading bytes were inspected. Body replays
// the inspected bytes followed by the rest of the stream.
type sniffedFile struct {
	ContentType string
	Extension   string
	Body        io.Reader
}

// sniff rejects empty or oversized files and detects the real content type
func sniff(file ports.UploadFile, maxBytes int64) (*sniffedFile, error) {
	if file.Body == nil || file.Size == 0 {
		return nil, entities.NewValidationError("file", "is empty")
	}
	if maxBytes > 0 && file.Size > maxBytes {
		return nil, entities.NewValidationError("file", fmt.Sprintf("exceeds the maximum size of %d bytes", maxBytes))
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file.Body, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, entities.NewStoreError("read upload", err)
	}
	if n == 0 {
		return nil, entities.NewValidationError("file", "is empty")
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	return &sniffedFile{
		ContentType: strings.SplitN(detected.String(), ";", 2)[0],
		Extension:   detected.Extension(),
		Body:        io.MultiReader(bytes.NewReader(head), file.Body),
	}, nil
}

// sniffImage accepts only files that both claim and prove to be images
func sniffImage(file ports.UploadFile, maxBytes int64) (*sniffedFile, error) {
	if !entities.IsImage(file.ContentType) {
		return nil, entities.NewValidationError("file", fmt.Sprintf("content type %q is not an image", file.ContentType))
	}

	sniffed, err := sniff(file, maxBytes)
	if err != nil {
		return nil, err
	}
	if !entities.IsImage(sniffed.ContentType) {
		return nil, entities.NewValidationError("file", fmt.Sprintf("content is %s, not an image", sniffed.ContentType))
	}
	return sniffed, nil
}

// objectName builds a collision-free object path below prefix
func objectName(prefix string, projectID uuid.UUID, extension string, parts ...string) string {
	elems := append([]string{prefix, projectID.String()}, parts...)
	elems = append(elems, uuid.NewString()+strings.ToLower(extension))
	return path.Join(elems...)
}

// discardObject deletes an object whose record was never written or is gone.
// A failure leaves an orphan for the sweeper.
func discardObject(ctx context.Context, storage ports.ObjectStorage, log *logger.Logger, objectPath string) {
	if err := storage.Delete(ctx, objectPath); err != nil {
		log.WithError(err).Errorw("Object cleanup failed, left for orphan sweep", "object_path", objectPath)
	}
}
