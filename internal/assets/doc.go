// Package assets reads the build inputs: the HTML template and the script
// bundles it references.
//
// # Loaders
//
//	Loader (interface)
//	    │
//	    ├── FilesystemLoader  - reads from a project directory on disk
//	    └── FSLoader          - reads from any fs.FS (embed.FS, fstest.MapFS)
//
// Paths are always relative to the loader root and use forward slashes, the
// way they appear in a manifest ("node_modules/@mojs/core/dist/mo.umd.js").
//
// # Security
//
// Paths are validated before use. FilesystemLoader additionally resolves
// symlinks and verifies the final path stays within its root, so a manifest
// cannot pull files from outside the project.
package assets
