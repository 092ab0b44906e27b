package main

import (
	"github.com/brk3/habiterm/cmd"
)

func main() {
	cmd.Execute()
}
