// Package pipeline implements the template substitution stage of a build.
//
// A build turns a development HTML shell, whose <script> elements point at
// bundles inside node_modules, into a publishable document. Each of those
// elements is a marker: an exact substring that is replaced either by an
// inline <script> holding the bundle source or by a <script src> pointing at
// a CDN copy.
//
// Markers are located in the original template before anything is spliced,
// so a payload that happens to contain another marker's text is never
// rewritten. Only the first occurrence of each marker is replaced, and a
// marker that cannot be found is an error rather than a silent no-op.
//
// Reading inputs and writing outputs are handled by the root inlinebuild
// package; this package is pure string work.
package pipeline
