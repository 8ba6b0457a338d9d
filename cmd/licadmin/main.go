package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/posguard/licadmin/internal/cli"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	// A missing .env is the normal case outside development.
	_ = godotenv.Load()

	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
