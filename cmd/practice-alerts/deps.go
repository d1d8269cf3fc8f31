package main

import (
	"github.com/cristianoliveira/practice-alerts/internal/session"
	"github.com/cristianoliveira/practice-alerts/internal/version"
)

// sessionFactory builds a session from options. Tests swap in sources.
type sessionFactory func(opts session.Options) *session.Session

// deps are the dependencies shared by every command.
type deps struct {
	newSession sessionFactory
	version    func() string
}

func defaultDeps() deps {
	return deps{
		newSession: session.New,
		version:    version.String,
	}
}
