package main

import (
	"log"
	"os"

	internalcli "github.com/leodido/swgen/internal/cli"
	"github.com/spf13/afero"
)

func main() {
	log.SetFlags(0)
	c, err := internalcli.NewRootC(afero.NewOsFs())
	if err != nil {
		log.Fatalf("Error creating command: %v", err)
	}
	if err := c.Execute(); err != nil {
		os.Exit(1)
	}
}
