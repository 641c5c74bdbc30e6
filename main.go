// main.go
//
// Entry point of the polymorph-sim CLI; commands live in cmd/.

package main

import (
	"github.com/polymorph-sim/polymorph-sim/cmd"
)

func main() {
	cmd.Execute()
}
