// Package dashboard provides the embedded web UI assets for craftboard.
//
// This package uses Go's embed directive to include the status page template
// at compile time. This enables single-binary deployment without external
// asset files.
package dashboard

import "embed"

// Assets is an embedded filesystem containing the status page.
//
// The filesystem structure is:
//
//	assets/
//	  index.html    - html/template for the page, with inline CSS and JavaScript
//
//go:embed assets/*
var Assets embed.FS
