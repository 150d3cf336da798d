package model

import (
	"fmt"
	"time"
)

// Field names used by the therapist registration wizard. The field set is
// closed: setting an unknown name is an error, not a silent insert.
const (
	FieldFullName        = "full_name"
	FieldNIC             = "nic"
	FieldDateOfBirth     = "date_of_birth"
	FieldGender          = "gender"
	FieldPhone           = "phone"
	FieldEmail           = "email"
	FieldAddress         = "address"
	FieldCity            = "city"
	FieldSpaID           = "spa_id"
	FieldExperienceYears = "experience_years"
)

// RegistrationFields holds every wizard field as an optional string value.
// Dates use the 2006-01-02 layout.
type RegistrationFields struct {
	FullName        string `json:"full_name,omitempty"`
	NIC             string `json:"nic,omitempty"`
	DateOfBirth     string `json:"date_of_birth,omitempty"`
	Gender          string `json:"gender,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Email           string `json:"email,omitempty"`
	Address         string `json:"address,omitempty"`
	City            string `json:"city,omitempty"`
	SpaID           string `json:"spa_id,omitempty"`
	ExperienceYears string `json:"experience_years,omitempty"`
}

// Set assigns value to the named field.
func (f *RegistrationFields) Set(name, value string) error {
	switch name {
	case FieldFullName:
		f.FullName = value
	case FieldNIC:
		f.NIC = value
	case FieldDateOfBirth:
		f.DateOfBirth = value
	case FieldGender:
		f.Gender = value
	case FieldPhone:
		f.Phone = value
	case FieldEmail:
		f.Email = value
	case FieldAddress:
		f.Address = value
	case FieldCity:
		f.City = value
	case FieldSpaID:
		f.SpaID = value
	case FieldExperienceYears:
		f.ExperienceYears = value
	default:
		return fmt.Errorf("unknown wizard field %q", name)
	}
	return nil
}

// Get returns the named field's value. The second result is false for
// unknown names.
func (f *RegistrationFields) Get(name string) (string, bool) {
	switch name {
	case FieldFullName:
		return f.FullName, true
	case FieldNIC:
		return f.NIC, true
	case FieldDateOfBirth:
		return f.DateOfBirth, true
	case FieldGender:
		return f.Gender, true
	case FieldPhone:
		return f.Phone, true
	case FieldEmail:
		return f.Email, true
	case FieldAddress:
		return f.Address, true
	case FieldCity:
		return f.City, true
	case FieldSpaID:
		return f.SpaID, true
	case FieldExperienceYears:
		return f.ExperienceYears, true
	}
	return "", false
}

// WizardSession is the ephemeral state of one registration wizard. It has no
// server-side identity at the association until submission succeeds.
type WizardSession struct {
	ID          string             `json:"id"`
	CurrentStep int                `json:"current_step"`
	Fields      RegistrationFields `json:"fields"`
	Attachments AttachmentSet      `json:"attachments"`
	Errors      map[string]string  `json:"errors"`
	Submitting  bool               `json:"-"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// NewWizardSession opens a fresh session on step 1.
func NewWizardSession(id string) *WizardSession {
	now := time.Now()
	return &WizardSession{
		ID:          id,
		CurrentStep: 1,
		Errors:      map[string]string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// SetField assigns a field value and clears that field's error immediately,
// whether or not the new value would itself validate. The error only comes
// back through an explicit validation pass.
func (s *WizardSession) SetField(name, value string) error {
	if err := s.Fields.Set(name, value); err != nil {
		return err
	}
	delete(s.Errors, name)
	s.UpdatedAt = time.Now()
	return nil
}

// ClearErrors drops all currently displayed errors.
func (s *WizardSession) ClearErrors() {
	s.Errors = map[string]string{}
}

// Reset returns the session to its initial state, dropping fields,
// attachments and errors.
func (s *WizardSession) Reset() {
	s.CurrentStep = 1
	s.Fields = RegistrationFields{}
	s.Attachments = AttachmentSet{}
	s.Errors = map[string]string{}
	s.Submitting = false
	s.UpdatedAt = time.Now()
}
