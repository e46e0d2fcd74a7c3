package domain

import (
	"errors"
	"regexp"
	"strings"
)

// MaxUploadBytes is the largest image the service accepts.
const MaxUploadBytes = 10 << 20 // 10 MiB

// MinPasswordLen is the account password policy enforced client-side.
const MinPasswordLen = 6

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail reports whether s looks like local@domain.tld. It is a
// plausibility check, not full RFC compliance.
func ValidateEmail(s string) bool {
	return emailRe.MatchString(s)
}

// Credential form field names, used as FieldErrors keys.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldConfirm  = "confirm"
)

// CredentialForm is the raw input of a login or register form.
type CredentialForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// FieldErrors maps a form field name to its validation message.
type FieldErrors map[string]string

// ValidateCredentials checks a credential form and returns one message per
// failing field. Every rule is checked independently so the user sees all
// problems at once. An empty result means the form passed.
func ValidateCredentials(f CredentialForm, isLogin bool) FieldErrors {
	errs := FieldErrors{}

	if !isLogin && strings.TrimSpace(f.Name) == "" {
		errs[FieldName] = "Please enter your full name"
	}
	if !ValidateEmail(f.Email) {
		errs[FieldEmail] = "Please enter a valid email address"
	}
	if len(f.Password) < MinPasswordLen {
		errs[FieldPassword] = "Password must be at least 6 characters"
	}
	if !isLogin && f.Password != f.ConfirmPassword {
		errs[FieldConfirm] = "Passwords do not match"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// File rejection reasons.
var (
	ErrNotImage     = errors.New("file is not an image (JPG, PNG or GIF expected)")
	ErrFileTooLarge = errors.New("image exceeds the 10 MB limit")
)

// ValidateFile checks a selected file's declared MIME type and byte size
// against what the analysis endpoint accepts.
func ValidateFile(mimeType string, size int64) error {
	if !strings.HasPrefix(mimeType, "image/") {
		return ErrNotImage
	}
	if size > MaxUploadBytes {
		return ErrFileTooLarge
	}
	return nil
}
