package main

import (
	"github.com/trailfeathers/trailfeathers/cli/cmd"
)

func main() {
	cmd.Execute()
}
