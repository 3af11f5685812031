// Package templates embeds the HTML mail templates so the mail worker runs without a template directory.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
