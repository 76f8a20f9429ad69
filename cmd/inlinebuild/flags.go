package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	root    string
	quiet   bool
	verbose bool
}

// outputFlags holds flags controlling where and how results are written.
type outputFlags struct {
	dir         string
	docs        bool
	compression string
	level       int
	levelSet    bool
	noMirror    bool
}

// buildFlags holds all flags for the build and watch commands.
type buildFlags struct {
	common commonFlags
	output outputFlags
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	buildFlags
	json        bool
	printConfig bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&f.root, "root", "r", "", "project directory (default: current directory)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.dir, "output", "o", "", "output directory (default: dist, or docs with --docs)")
	fs.BoolVar(&f.docs, "docs", false, "reference bundles from the CDN instead of inlining them")
	fs.StringVar(&f.compression, "compression", "", "compressed artifact format: gzip, deflate, br, zstd, none")
	fs.IntVar(&f.level, "level", 0, "compression level (0 = format default)")
	fs.BoolVar(&f.noMirror, "no-mirror", false, "do not copy the compressed artifact to mirrors")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, stderr io.Writer, usage func()) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = usage
	return fs
}

// parseBuildFlags parses build or watch flags and returns positional args.
func parseBuildFlags(name string, args []string, env *Environment) (*buildFlags, []string, error) {
	f := &buildFlags{}
	fs := newFlagSet(name, env.Stderr, func() { printCommandUsage(env.Stderr, name) })

	addCommonFlags(fs, &f.common)
	addOutputFlags(fs, &f.output)

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	f.output.levelSet = fs.Changed("level")

	return f, fs.Args(), nil
}

// parseDoctorFlags parses doctor flags and returns positional args.
func parseDoctorFlags(args []string, env *Environment) (*doctorFlags, []string, error) {
	f := &doctorFlags{}
	fs := newFlagSet("doctor", env.Stderr, func() { printDoctorUsage(env.Stderr) })

	addCommonFlags(fs, &f.common)
	addOutputFlags(fs, &f.output)
	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	fs.BoolVar(&f.printConfig, "print-config", false, "print the merged configuration as YAML and exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	f.output.levelSet = fs.Changed("level")

	return f, fs.Args(), nil
}
