/*
Copyright © 2026 CROP Contributors
SPDX-License-Identifier: Apache-2.0
*/
package updater

import (
	"fmt"
	"strings"
)

// ProvisionedProductID derives the Service Catalog provisioned product
// id from the enclosing stack's name.
//
// Service Catalog names launched stacks "SC-<account>-<id>", where
// <id> may itself contain hyphens (for example
// "SC-123456789012-pp-abcdefghijklm"). The derivation drops the first
// two hyphen-delimited segments and rejoins the rest. This naming
// scheme is imposed by Service Catalog and consumed here as a
// contract; if it changes, only this function changes.
func ProvisionedProductID(stackName string) (string, error) {
	segments := strings.Split(stackName, "-")
	if len(segments) < 3 {
		return "", fmt.Errorf("stack name %q does not follow the SC-<account>-<id> naming scheme", stackName)
	}
	return strings.Join(segments[2:], "-"), nil
}
