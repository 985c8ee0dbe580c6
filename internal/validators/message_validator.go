package validators

import (
	"strings"
	"unicode/utf8"

	"marketChat/internal/enums"
	"marketChat/internal/errs"
)

const MessageContentMaxLen = 5000

// ValidateMessageContent rejects empty or oversized content before any
// mutation happens.
func ValidateMessageContent(content string) []error {
	var errors []error
	if strings.TrimSpace(content) == "" {
		errors = append(errors, errs.ErrEmptyMessageContent)
		return errors
	}
	if utf8.RuneCountInString(content) > MessageContentMaxLen {
		errors = append(errors, errs.ErrMessageContentTooLong)
	}
	return errors
}

func ValidateDeleteScope(scope string) []error {
	switch scope {
	case enums.DELETE_SCOPE_SENDER, enums.DELETE_SCOPE_RECEIVER, enums.DELETE_SCOPE_BOTH:
		return nil
	default:
		return []error{errs.ErrInvalidDeleteScope}
	}
}
