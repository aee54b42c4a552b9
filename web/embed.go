// Package web carries the dashboard's templates and static assets inside
// the binary, so deployments are a single file plus the database.
package web

import "embed"

// TemplatesFS holds the month view, participants and reports templates.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and any other assets under web/static.
//
//go:embed static/*
var StaticFS embed.FS
