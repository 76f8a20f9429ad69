package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches to a command and returns the process exit code.
// The command defaults to build when omitted or when args start with a flag.
func runMain(args []string, env *Environment) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := splitCommand(args)

	var err error
	switch cmd {
	case "build":
		err = runBuild(ctx, rest, env)
	case "watch":
		err = runWatch(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "inlinebuild %s\n", Version)
	case "help":
		runHelp(rest, env)
	default:
		printUsage(env.Stderr)
		fmt.Fprintln(env.Stderr)
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}

	return reportError(env.Stderr, err)
}

// splitCommand separates the command name from its arguments.
func splitCommand(args []string) (string, []string) {
	if len(args) < 2 {
		return "build", nil
	}
	first := args[1]
	if len(first) > 0 && first[0] == '-' {
		if first == "-h" || first == "--help" {
			return "help", nil
		}
		return "build", args[1:]
	}
	return first, args[2:]
}

// isCommand reports whether name is a known command.
func isCommand(name string) bool {
	switch name {
	case "build", "watch", "doctor", "version", "help":
		return true
	}
	return false
}

// usageError marks flag parsing failures as usage errors.
// Help requests pass through unchanged.
func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
}

// reportError prints err on w and returns its exit code.
func reportError(w io.Writer, err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	fmt.Fprintf(w, "error: %v\n", err)
	return exitCodeFor(err)
}
