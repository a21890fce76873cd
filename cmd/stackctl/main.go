// Command stackctl lays out stack scenes without a display.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	e := envFromContext(ctx)
	e.Log = newLogger(cmd.Bool("debug"))
	e.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("runtime", runtime.Version()))
	return ctx, nil
}

func after(ctx context.Context, cmd *cli.Command) error {
	e := envFromContext(ctx)
	if e.Log == nil {
		return nil
	}
	e.Log.Debug("Program ended", zap.Duration("elapsed", e.uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	_ = e.Log.Sync()
	return nil
}

var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	e := envFromContext(ctx)
	if e.Log != nil {
		e.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(contextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            "stackctl",
		Usage:           "lays out stack view scenes headlessly",
		HideHelpCommand: true,
		Before:          before,
		After:           after,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log layout passes and animations"},
		},
		Commands: []*cli.Command{
			{
				Name:      "solve",
				Usage:     "Prints the frames of the arranged views after every step",
				ArgsUsage: "SCENE",
				Action:    runSolve,
			},
			{
				Name:      "constraints",
				Usage:     "Prints frames and the synthesized constraints after every step",
				ArgsUsage: "SCENE",
				Action:    runConstraints,
			},
			{
				Name:      "trace",
				Usage:     "Records every step of a scene into a compressed trace file",
				ArgsUsage: "SCENE OUT",
				Action:    runTrace,
			},
			{
				Name:      "inspect",
				Usage:     "Prints a trace file",
				ArgsUsage: "TRACE",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "view", Usage: "only show the view named `NAME`"},
				},
				Action: runInspect,
			},
		},
	}

	var err error
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}
