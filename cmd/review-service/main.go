package main

import (
	"os"

	"github.com/rumblereviews/rumble/reviewservice"
)

func main() {
	if err := reviewservice.Run(); err != nil {
		os.Exit(1)
	}
}
