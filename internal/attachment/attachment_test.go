package attachment

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lankaspa/portal/internal/model"
	apperrors "github.com/lankaspa/portal/pkg/errors"
)

// pngBytes returns a payload that sniffs as image/png.
func pngBytes(size int) []byte {
	magic := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	if size < len(magic) {
		size = len(magic)
	}
	return append(magic, bytes.Repeat([]byte{0}, size-len(magic))...)
}

func pdfBytes() []byte {
	return []byte("%PDF-1.4\n%test document\n")
}

func TestAcceptValidImage(t *testing.T) {
	a := NewAcceptor(DefaultLimits)

	att, err := a.Accept(model.KindProfileImage, "photo.png", pngBytes(1024))
	require.NoError(t, err)

	assert.NotEmpty(t, att.Token)
	assert.Equal(t, model.KindProfileImage, att.Kind)
	assert.Equal(t, "image/png", att.MimeType)
	assert.Equal(t, int64(1024), att.SizeBytes)
	assert.True(t, strings.HasPrefix(att.Preview, "data:image/png;base64,"))
}

func TestAcceptRejectsOversizeImage(t *testing.T) {
	a := NewAcceptor(DefaultLimits)

	// 3 MB against the 2 MB profile image ceiling.
	_, err := a.Accept(model.KindProfileImage, "photo.png", pngBytes(3<<20))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrAttachmentRejected, appErr.Code)
	assert.Contains(t, appErr.Message, "file too large")
}

func TestAcceptSniffsContentNotFilename(t *testing.T) {
	a := NewAcceptor(DefaultLimits)

	// An executable renamed to .png must still be rejected.
	_, err := a.Accept(model.KindProfileImage, "totally-a.png", []byte("MZ\x90\x00 not an image"))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "invalid file type", appErr.Message)
}

func TestAcceptRejectsEmptyFile(t *testing.T) {
	a := NewAcceptor(DefaultLimits)
	_, err := a.Accept(model.KindIdentityDocument, "empty.pdf", nil)
	assert.Error(t, err)
}

func TestDocumentsAcceptPDF(t *testing.T) {
	a := NewAcceptor(DefaultLimits)

	att, err := a.Accept(model.KindIdentityDocument, "nic.pdf", pdfBytes())
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", att.MimeType)
	assert.Empty(t, att.Preview)
}

func TestProfileImageRejectsPDF(t *testing.T) {
	a := NewAcceptor(DefaultLimits)
	_, err := a.Accept(model.KindProfileImage, "photo.pdf", pdfBytes())
	assert.Error(t, err)
}

func TestDocumentCeilingIsLarger(t *testing.T) {
	a := NewAcceptor(DefaultLimits)

	// 3 MB is over the image ceiling but fine for documents.
	att, err := a.Accept(model.KindMedicalCertificate, "cert.png", pngBytes(3<<20))
	require.NoError(t, err)
	assert.Equal(t, int64(3<<20), att.SizeBytes)
}

func TestRejectedFileLeavesSlotUntouched(t *testing.T) {
	a := NewAcceptor(DefaultLimits)
	var set model.AttachmentSet

	accepted, err := a.Accept(model.KindProfileImage, "first.png", pngBytes(1024))
	require.NoError(t, err)
	require.NoError(t, set.Set(accepted))

	_, err = a.Accept(model.KindProfileImage, "huge.png", pngBytes(3<<20))
	require.Error(t, err)

	// The earlier accepted file is still in place.
	got := set.Get(model.KindProfileImage)
	require.NotNil(t, got)
	assert.Equal(t, "first.png", got.Filename)
}

func TestReplacementIsWholesale(t *testing.T) {
	a := NewAcceptor(DefaultLimits)
	var set model.AttachmentSet

	first, err := a.Accept(model.KindProfileImage, "first.png", pngBytes(1024))
	require.NoError(t, err)
	require.NoError(t, set.Set(first))

	second, err := a.Accept(model.KindProfileImage, "second.png", pngBytes(2048))
	require.NoError(t, err)
	require.NoError(t, set.Set(second))

	got := set.Get(model.KindProfileImage)
	require.NotNil(t, got)
	assert.Equal(t, "second.png", got.Filename)
	assert.Equal(t, int64(2048), got.SizeBytes)
}
