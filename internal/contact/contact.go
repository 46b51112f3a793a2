// Package contact validates the landing page contact form. Submission is
// simulated: a valid message is logged and acknowledged, nothing is sent.
package contact

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"

	appLog "eventflow/internal/log"
)

type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldSubject Field = "subject"
	FieldMessage Field = "message"
)

// Fields lists the form fields in display order.
var Fields = []Field{FieldName, FieldEmail, FieldSubject, FieldMessage}

// Input is the transient form payload.
type Input struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Value returns the raw value of field f.
func (in Input) Value(f Field) string {
	switch f {
	case FieldName:
		return in.Name
	case FieldEmail:
		return in.Email
	case FieldSubject:
		return in.Subject
	case FieldMessage:
		return in.Message
	}
	return ""
}

// FieldErrors maps a failing field to its localized message.
type FieldErrors map[Field]string

// messageKey identifies a catalog entry.
type messageKey string

const (
	msgNameRequired    messageKey = "name.required"
	msgNameShort       messageKey = "name.min"
	msgEmailRequired   messageKey = "email.required"
	msgEmailInvalid    messageKey = "email.invalid"
	msgSubjectRequired messageKey = "subject.required"
	msgMessageRequired messageKey = "message.required"
	msgMessageShort    messageKey = "message.min"
	msgAcknowledged    messageKey = "submit.ok"
)

// Rule is one check in a field's ordered list; the first failure wins.
type Rule struct {
	Check func(value string) bool
	Key   messageKey
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func required(v string) bool { return v != "" }

func minRunes(n int) func(string) bool {
	return func(v string) bool { return utf8.RuneCountInString(v) >= n }
}

// Rules is the declarative validation table.
var Rules = map[Field][]Rule{
	FieldName: {
		{Check: required, Key: msgNameRequired},
		{Check: minRunes(2), Key: msgNameShort},
	},
	FieldEmail: {
		{Check: required, Key: msgEmailRequired},
		{Check: emailPattern.MatchString, Key: msgEmailInvalid},
	},
	FieldSubject: {
		{Check: required, Key: msgSubjectRequired},
	},
	FieldMessage: {
		{Check: required, Key: msgMessageRequired},
		{Check: minRunes(10), Key: msgMessageShort},
	},
}

// Validate runs every field through its rules. Values are trimmed first.
func Validate(in Input, lang language.Tag) FieldErrors {
	errs := FieldErrors{}
	cat := catalogFor(lang)
	for _, f := range Fields {
		v := strings.TrimSpace(in.Value(f))
		for _, rule := range Rules[f] {
			if !rule.Check(v) {
				errs[f] = cat[rule.Key]
				break
			}
		}
	}
	return errs
}

// Result is the outcome of a submission attempt.
type Result struct {
	OK      bool        `json:"ok"`
	Input   Input       `json:"input"`
	Errors  FieldErrors `json:"errors,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Submit validates in; on success it logs the message, acknowledges it and
// returns a cleared form. On failure the values are kept for correction.
func Submit(in Input, lang language.Tag) Result {
	errs := Validate(in, lang)
	if len(errs) > 0 {
		return Result{Input: in, Errors: errs}
	}

	appLog.Info("contact form submitted",
		"name", strings.TrimSpace(in.Name),
		"email", strings.TrimSpace(in.Email),
		"subject", strings.TrimSpace(in.Subject),
		"message_len", utf8.RuneCountInString(strings.TrimSpace(in.Message)),
	)
	return Result{
		OK:      true,
		Input:   Input{},
		Message: catalogFor(lang)[msgAcknowledged],
	}
}
