package main

import (
	"os"

	"github.com/project-sunbird/sunbird-deploy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
