package main

import (
	"os"

	"github.com/brickster241/caf/porcelain"
)

func main() {
	os.Exit(porcelain.Execute())
}
