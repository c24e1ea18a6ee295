package main

import (
	"io"
	"os"
	"time"

	"github.com/eckman-tech/md2pdf-server/internal/config"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, and process environment access.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Lookup  config.LookupFunc
	Environ func() []string
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Lookup:  os.LookupEnv,
		Environ: os.Environ,
	}
}
