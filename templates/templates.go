// Package templates embeds the HTML views so the binary runs from any directory.
package templates

import "embed"

// FS holds layout.html and every page template
//
//go:embed *.html
var FS embed.FS
