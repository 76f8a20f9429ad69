// Package inlinebuild packages a single-page web app into one HTML file.
//
// # Quick Start
//
// Build from the current directory with the default asset table:
//
//	b, err := inlinebuild.NewBuilder()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := b.Build(ctx, inlinebuild.Input{Mode: inlinebuild.ModeDist})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.HTMLPath, res.CompressedPath)
//
// # Modes
//
// ModeDist embeds every bundle into the page as an inline <script> and
// writes a compressed sibling (index.html.gz by default) suitable for
// serving from a device with no filesystem. ModeDocs replaces every bundle
// with a <script src> pointing at its CDN copy and writes no compressed file.
//
// # Build Pipeline
//
//  1. Read the template and every bundle listed in the asset table
//  2. Locate each asset's marker in the template (missing marker = error)
//  3. Substitute inline or CDN scripts depending on the mode
//  4. Compress in memory (dist mode only)
//  5. Write index.html, the compressed file, then any mirrors
//
// Steps 1-4 never touch the output directory, so a failed build leaves the
// previous output in place.
//
// # Configuration
//
// Use functional options to customize the builder:
//
//	b, err := inlinebuild.NewBuilder(
//	    inlinebuild.WithRoot("/path/to/project"),
//	    inlinebuild.WithCompression(inlinebuild.CompressionBrotli, 11),
//	    inlinebuild.WithMirrors("esp32/src/assets/index.html.gz"),
//	)
//
// Assets are plain data:
//
//	inlinebuild.Asset{
//	    Name:   "core",
//	    Path:   "node_modules/@mojs/core/dist/mo.umd.js",
//	    CDN:    "https://cdn.jsdelivr.net/npm/@mojs/core",
//	    Marker: `<script id="allape_dev_id_core" src="node_modules/@mojs/core/dist/mo.umd.js"></script>`,
//	}
//
// # Watching
//
// Builder.Watch rebuilds whenever the template or a bundle changes on disk.
package inlinebuild
