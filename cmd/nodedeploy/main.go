/*
Copyright © 2025 Dataflux Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import "github.com/dataflux/nodedeploy/pkg/cli"

func main() {
	cli.Execute()
}
