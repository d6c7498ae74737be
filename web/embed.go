package web

import (
	"embed"
	"io/fs"
)

// SeedFile is the name of the default menu definition inside Seed().
const SeedFile = "menus.yaml"

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed seed/*.yaml
var seedFS embed.FS

// Templates returns the navigation HTML templates. Paths keep the
// "templates/" prefix the renderer globs for.
func Templates() fs.FS {
	return templateFS
}

// Seed returns the embedded default menu definitions with the "seed" prefix
// stripped.
func Seed() (fs.FS, error) {
	return fs.Sub(seedFS, "seed")
}
