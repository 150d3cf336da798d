package model

import "fmt"

type AttachmentKind string

const (
	KindIdentityDocument    AttachmentKind = "identity_document"
	KindMedicalCertificate  AttachmentKind = "medical_certificate"
	KindFacilityCertificate AttachmentKind = "facility_certificate"
	KindProfileImage        AttachmentKind = "profile_image"
	KindOther               AttachmentKind = "other"
)

// Attachment is one accepted file, held in memory until submission.
// Preview is a data URL and is only populated for image kinds.
type Attachment struct {
	Token     string         `json:"token"`
	Kind      AttachmentKind `json:"kind"`
	Filename  string         `json:"filename"`
	MimeType  string         `json:"mime_type"`
	SizeBytes int64          `json:"size_bytes"`
	Data      []byte         `json:"-"`
	Preview   string         `json:"preview,omitempty"`
}

// AttachmentSet is the closed set of attachment slots the registration flow
// knows about. A slot is nil until a valid file has been accepted for it;
// accepting a second file replaces the first wholesale.
type AttachmentSet struct {
	IdentityDocument   *Attachment `json:"identity_document,omitempty"`
	MedicalCertificate *Attachment `json:"medical_certificate,omitempty"`
	ProfileImage       *Attachment `json:"profile_image,omitempty"`
}

// Set stores att in the slot for its kind, replacing any previous file.
func (s *AttachmentSet) Set(att *Attachment) error {
	switch att.Kind {
	case KindIdentityDocument:
		s.IdentityDocument = att
	case KindMedicalCertificate:
		s.MedicalCertificate = att
	case KindProfileImage:
		s.ProfileImage = att
	default:
		return fmt.Errorf("no attachment slot for kind %q", att.Kind)
	}
	return nil
}

// Get returns the attachment in the slot for kind, or nil.
func (s *AttachmentSet) Get(kind AttachmentKind) *Attachment {
	switch kind {
	case KindIdentityDocument:
		return s.IdentityDocument
	case KindMedicalCertificate:
		return s.MedicalCertificate
	case KindProfileImage:
		return s.ProfileImage
	}
	return nil
}

// Clear empties the slot for kind.
func (s *AttachmentSet) Clear(kind AttachmentKind) {
	switch kind {
	case KindIdentityDocument:
		s.IdentityDocument = nil
	case KindMedicalCertificate:
		s.MedicalCertificate = nil
	case KindProfileImage:
		s.ProfileImage = nil
	}
}

// Missing returns the kinds from required that have no accepted file yet.
func (s *AttachmentSet) Missing(required []AttachmentKind) []AttachmentKind {
	var missing []AttachmentKind
	for _, kind := range required {
		if s.Get(kind) == nil {
			missing = append(missing, kind)
		}
	}
	return missing
}
