package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/handlekeeper/internal/common"
	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	// bcrypt ignores everything past 72 bytes.
	maxSecretLength  = 72
	maxTitleLength   = 200
	maxContentLength = 64 * 1024
)

var handlePattern = regexp.MustCompile(`^[^\s/\p{Cc}\p{Cf}]+$`)

// handleRules are shared by registration and by the lookups that must
// never reach storage with a handle no account can have.
var handleRules = []validation.Rule{
	validation.Required,
	validation.By(validUTF8),
	validation.RuneLength(1, common.MaxHandleLength),
	validation.Match(handlePattern).Error("must not contain spaces, slashes or control characters"),
}

// possibleHandle reports whether handle could belong to a registered account.
func possibleHandle(handle string) bool {
	return validation.Validate(handle, handleRules...) == nil
}

// RegisterInput is the body of POST /register.
type RegisterInput struct {
	Handle string `json:"handle"`
	Secret string `json:"secret"`
}

func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Handle, handleRules...),
		validation.Field(&in.Secret,
			validation.Required,
			validation.By(validUTF8),
			validation.Length(common.MinSecretLength, maxSecretLength),
			validation.By(letterAndDigit),
		),
	)
}

// LoginInput is the body of POST /login. Only presence is checked so that
// login never reveals the registration rules.
type LoginInput struct {
	Handle string `json:"handle"`
	Secret string `json:"secret"`
}

func (in LoginInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Handle, validation.Required),
		validation.Field(&in.Secret, validation.Required),
	)
}

// ProjectInput is the body of POST /createproject.
type ProjectInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (in ProjectInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.By(singleLine), validation.RuneLength(1, maxTitleLength)),
		validation.Field(&in.Content, validation.By(validUTF8), validation.By(noNUL), validation.Length(0, maxContentLength)),
	)
}

func letterAndDigit(value interface{}) error {
	s, _ := value.(string)
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		return errors.New("must contain at least one letter and one digit")
	}
	return nil
}

// validUTF8 rejects byte sequences the text columns cannot store.
func validUTF8(value interface{}) error {
	s, _ := value.(string)
	if !utf8.ValidString(s) {
		return errors.New("must be valid UTF-8")
	}
	return nil
}

func noNUL(value interface{}) error {
	s, _ := value.(string)
	if strings.ContainsRune(s, 0) {
		return errors.New("must not contain NUL characters")
	}
	return nil
}

func singleLine(value interface{}) error {
	s, _ := value.(string)
	if err := validUTF8(s); err != nil {
		return err
	}
	if strings.IndexFunc(s, unicode.IsControl) >= 0 {
		return errors.New("must not contain control characters")
	}
	return nil
}

// validationError tags err so the transport layer answers 400 with its text.
func validationError(err error) error {
	return fmt.Errorf("%w: %v", common.ErrorValidation, err)
}
