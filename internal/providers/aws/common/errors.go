package common

import (
	"errors"

	"github.com/aws/smithy-go"
)

// APIErrorCode returns the service error code carried by err (for example
// "UnauthorizedOperation" or "AccessDeniedException"), or "" when err did not
// come from an AWS API response.
func APIErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// IsAccessDenied reports whether err is an authorization failure. Callers use
// it to tell missing permissions apart from missing resources in logs.
func IsAccessDenied(err error) bool {
	switch APIErrorCode(err) {
	case "AccessDenied", "AccessDeniedException", "UnauthorizedOperation", "UnauthorizedAccess":
		return true
	}
	return false
}
