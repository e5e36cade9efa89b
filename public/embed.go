// Package public bundles the static assets served without a tenant context,
// currently just the placeholder logo.
package public

import (
	"embed"
)

//go:embed *
var files embed.FS

// EFS returns the embedded asset filesystem
func EFS() embed.FS {
	return files
}
