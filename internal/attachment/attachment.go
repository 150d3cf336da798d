// Package attachment acquires validated binary attachments, either from an
// uploaded file or from a capture device.
package attachment

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/lankaspa/portal/internal/model"
	apperrors "github.com/lankaspa/portal/pkg/errors"
)

// Limits are the per-kind size ceilings.
type Limits struct {
	MaxImageBytes    int64
	MaxDocumentBytes int64
}

// DefaultLimits: 2 MB for profile images, 10 MB for documents.
var DefaultLimits = Limits{
	MaxImageBytes:    2 << 20,
	MaxDocumentBytes: 10 << 20,
}

var imageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// allowedTypes per attachment kind. Documents additionally accept PDFs.
func allowedTypes(kind model.AttachmentKind) []string {
	switch kind {
	case model.KindProfileImage:
		return imageTypes
	default:
		return append([]string{"application/pdf"}, imageTypes...)
	}
}

// Acceptor validates incoming files against size ceilings and per-kind MIME
// allow-lists.
type Acceptor struct {
	limits Limits
}

func NewAcceptor(limits Limits) *Acceptor {
	if limits.MaxImageBytes == 0 {
		limits.MaxImageBytes = DefaultLimits.MaxImageBytes
	}
	if limits.MaxDocumentBytes == 0 {
		limits.MaxDocumentBytes = DefaultLimits.MaxDocumentBytes
	}
	return &Acceptor{limits: limits}
}

// Limit returns the size ceiling for a kind.
func (a *Acceptor) Limit(kind model.AttachmentKind) int64 {
	if kind == model.KindProfileImage {
		return a.limits.MaxImageBytes
	}
	return a.limits.MaxDocumentBytes
}

// Accept validates data and wraps it as an Attachment. The MIME type is
// sniffed from content, never trusted from the filename. Image kinds get a
// data-URL preview.
func (a *Acceptor) Accept(kind model.AttachmentKind, filename string, data []byte) (*model.Attachment, error) {
	limit := a.Limit(kind)
	if int64(len(data)) > limit {
		return nil, apperrors.AttachmentRejected(
			fmt.Sprintf("file too large: maximum is %d MB", limit>>20))
	}
	if len(data) == 0 {
		return nil, apperrors.AttachmentRejected("file is empty")
	}

	detected := mimetype.Detect(data).String()
	if !typeAllowed(detected, allowedTypes(kind)) {
		return nil, apperrors.AttachmentRejected("invalid file type")
	}

	token, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate attachment token: %w", err)
	}

	att := &model.Attachment{
		Token:     token,
		Kind:      kind,
		Filename:  filename,
		MimeType:  detected,
		SizeBytes: int64(len(data)),
		Data:      data,
	}
	if strings.HasPrefix(detected, "image/") {
		att.Preview = dataURL(detected, data)
	}
	return att, nil
}

func typeAllowed(detected string, allowed []string) bool {
	// mimetype may append parameters, e.g. "text/plain; charset=utf-8".
	if i := strings.IndexByte(detected, ';'); i >= 0 {
		detected = strings.TrimSpace(detected[:i])
	}
	for _, t := range allowed {
		if detected == t {
			return true
		}
	}
	return false
}

func dataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
