package main

import (
	"github.com/visapath/visapath-cli/cmd"
)

func main() {
	cmd.Execute()
}
