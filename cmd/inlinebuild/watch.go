package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/allape/inlinebuild"
)

// runWatch builds, then rebuilds on every input change until ctx is canceled.
// Failed rebuilds are reported and the watch continues.
func runWatch(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseBuildFlags("watch", args, env)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: %v", ErrUnexpectedArgs, positional)
	}

	s, err := loadSettings(flags, env)
	if err != nil {
		return err
	}
	b, err := newBuilder(s, env)
	if err != nil {
		return err
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Watching %d files in %s (Ctrl+C to stop)\n", len(b.Inputs()), b.Root())
	}

	in := inlinebuild.Input{Mode: s.mode, OutputDir: s.outputDir}
	return b.Watch(ctx, in, func(res *inlinebuild.Result, err error) {
		if err != nil {
			s.logger.Debug("build failed", zap.Error(err))
			fmt.Fprintf(env.Stderr, "FAILED: %v\n", withHint(err, b))
			return
		}
		printResult(env.Stdout, res, b.Root(), flags.common.quiet, flags.common.verbose)
	})
}
