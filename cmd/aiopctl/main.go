package main

import (
	"log"

	"github.com/GriffinCanCode/AIOP/backend/internal/cli"
)

func main() {
	rootCmd := cli.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("error: %v\n", err)
	}
}
