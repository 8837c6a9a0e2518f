// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command lendcheck is a linter that checks the borrow discipline of
// code.hybscloud.com/lend users.
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"code.hybscloud.com/lend/lendcheck"
)

func main() {
	singlechecker.Main(lendcheck.Analyzer)
}
