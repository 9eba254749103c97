// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/adoptopenjdk/splitpkgscan/cmd/splitpkgscan"

func main() {
	cmd.Execute()
}
