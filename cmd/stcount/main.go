// Copyright (C) The Stcount Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package main

import (
	"github.com/spatialab/stcount"
)

func main() {
	stcount.Main()
}
