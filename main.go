package main

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"pybackup/src/cli"
	"pybackup/src/profile"
)

func main() {
	// Optional environment defaults (PYBACKUP_*) from the config dir.
	_ = godotenv.Load(filepath.Join(profile.DefaultDir(), "config.env"))

	os.Exit(cli.Execute())
}
