/*
Copyright © 2026 CROP Contributors
SPDX-License-Identifier: Apache-2.0
*/
package main

import "github.com/trek10inc/crop/cmd"

func main() {
	cmd.Execute()
}
