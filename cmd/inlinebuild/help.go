package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: inlinebuild [command] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build      Render index.html into dist/ or docs/ (default)")
	fmt.Fprintln(w, "  watch      Rebuild whenever an input changes")
	fmt.Fprintln(w, "  doctor     Check inputs, markers and output paths without writing")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'inlinebuild help <command>' for details on a specific command.")
}

// printBuildFlags prints the flags shared by build, watch and doctor.
func printBuildFlags(w io.Writer) {
	fmt.Fprintln(w, "Project:")
	fmt.Fprintln(w, "  -r, --root <dir>          Project directory (default: current directory)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "                            (default: inlinebuild.yaml in the project, if present)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "      --docs                Reference bundles from the CDN; write to docs/")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: dist or docs)")
	fmt.Fprintln(w, "      --compression <s>     Compressed artifact: gzip, deflate, br, zstd, none")
	fmt.Fprintln(w, "                            (default: gzip; dist mode only)")
	fmt.Fprintln(w, "      --level <n>           Compression level (0 = format default)")
	fmt.Fprintln(w, "      --no-mirror           Skip copying the compressed artifact to mirrors")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  INLINEBUILD_CONFIG, INLINEBUILD_ROOT, INLINEBUILD_OUTPUT_DIR,")
	fmt.Fprintln(w, "  INLINEBUILD_COMPRESSION, INLINEBUILD_DOCS")
	fmt.Fprintln(w, "  Precedence: flags > environment > config file > defaults")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: inlinebuild build [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Replace each bundle marker in the template with the inlined bundle (dist)")
	fmt.Fprintln(w, "or a CDN script tag (docs). Dist builds also write a compressed copy and")
	fmt.Fprintln(w, "copy it to every mirror whose extension matches the format. Nothing is")
	fmt.Fprintln(w, "written if reading, rendering or compression fails.")
	fmt.Fprintln(w)
	printBuildFlags(w)
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: inlinebuild watch [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build once, then rebuild whenever the template or a bundle changes.")
	fmt.Fprintln(w, "Stop with Ctrl+C.")
	fmt.Fprintln(w)
	printBuildFlags(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: inlinebuild doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that every input exists and every marker occurs once in the")
	fmt.Fprintln(w, "template, show where a build would write, and flag stale compressed")
	fmt.Fprintln(w, "output. Never writes files.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --json                Print results as JSON")
	fmt.Fprintln(w, "      --print-config        Print the merged configuration as YAML")
	fmt.Fprintln(w)
	printBuildFlags(w)
}

// printCommandUsage prints usage for a build-style command.
func printCommandUsage(w io.Writer, name string) {
	switch name {
	case "watch":
		printWatchUsage(w)
	case "doctor":
		printDoctorUsage(w)
	default:
		printBuildUsage(w)
	}
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	if !isCommand(args[0]) {
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return
	}

	switch args[0] {
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: inlinebuild version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: inlinebuild help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printCommandUsage(env.Stdout, args[0])
	}
}
