//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Opens the window host with the scene in ./assets.
func (Run) Window() error {
	fmt.Println("Run solaris...")
	return solaris("--backend", "window")
}

// Draws the scene in the current terminal. Logging is kept to errors so it
// does not scribble over the screen.
func (Run) Terminal() error {
	fmt.Println("Run solaris in the terminal...")
	_, err := executeCmd("go", withArgs("run", ".", "--backend", "terminal"), withEnv("SOLARIS_LOGLEVEL=error"), withStream())
	return err
}

// Imports an ephemeris file into the catalog, as name=path.
func (Run) Import(catalog, entry string) error {
	return solaris("--catalog", catalog, "--import", entry)
}

func solaris(args ...string) error {
	_, err := executeCmd("go", withArgs(append([]string{"run", "."}, args...)...), withStream())
	return err
}
