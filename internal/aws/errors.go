/*
Copyright © 2026 CROP Contributors
SPDX-License-Identifier: Apache-2.0
*/
package aws

import (
	"errors"

	"github.com/aws/smithy-go"
)

// IsAccessDenied reports whether an error is an AWS access-denied
// response. The updater uses this to distinguish a missing portfolio
// grant, which it can fix by enrolling itself, from transient
// failures, which it surfaces for the next scheduled run.
func IsAccessDenied(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "AccessDeniedException"
	}
	return false
}
