// Package pkg holds project metadata shared by the command-line interface.
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of vac, embedded at build time.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It also names the configuration and cache
	// directories.
	Name = "vac"
	// Description is a one-line summary used in help output.
	Description = "Symbolic vector calculator"
)

// AuthorInfo is an author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the authors of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
