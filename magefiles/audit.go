//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Audit runs detect on data/wordpacks.txt and data/relations.txt (or the
// WORDPACKS and RELATIONS environment variables) and writes the marked pack
// and a YAML report under output/.
func Audit() error {
	mg.Deps(Build, Init)

	wordpacks := envOr("WORDPACKS", filepath.Join("data", "wordpacks.txt"))
	relations := envOr("RELATIONS", filepath.Join("data", "relations.txt"))

	bin := filepath.Join(binDir, binName)
	err := sh.RunV(bin, "detect",
		"-w", wordpacks,
		"-r", relations,
		"-o", filepath.Join("output", "wordpacks-marked.txt"),
		"--report", filepath.Join("output", "report.yaml"),
	)
	if err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
