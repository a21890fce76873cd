package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"honnef.co/go/stackview/scene"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func loadScene(ctx context.Context, cmd *cli.Command) (*scene.Runner, error) {
	e := envFromContext(ctx)
	path := cmd.Args().First()
	if path == "" {
		return nil, errors.New("missing SCENE argument")
	}
	sc, err := scene.LoadFile(path)
	if err != nil {
		return nil, err
	}
	e.Log.Debug("Loaded scene", zap.String("file", path), zap.Int("children", len(sc.Stack.Children)), zap.Int("steps", len(sc.Steps)))
	return sc.Build(e.Log), nil
}

func printSnapshot(w io.Writer, s scene.Snapshot) {
	if s.Step < 0 {
		fmt.Fprintf(w, "%s:\n", s.Action)
	} else {
		fmt.Fprintf(w, "step %d: %s\n", s.Step, s.Action)
	}
	fmt.Fprintf(w, "  stack %v\n", s.Stack)
	for _, v := range s.Views {
		hidden := ""
		if v.Hidden {
			hidden = " (hidden)"
		}
		fmt.Fprintf(w, "  %-12s %v%s\n", v.Name, v.Rect, hidden)
	}
	for _, c := range s.Constraints {
		fmt.Fprintf(w, "    %s\n", c)
	}
	for _, c := range s.Broken {
		fmt.Fprintf(w, "  broken: %s\n", c)
	}
}

func runSolve(ctx context.Context, cmd *cli.Command) error {
	return solve(ctx, cmd, false)
}

func runConstraints(ctx context.Context, cmd *cli.Command) error {
	return solve(ctx, cmd, true)
}

func solve(ctx context.Context, cmd *cli.Command, withConstraints bool) error {
	r, err := loadScene(ctx, cmd)
	if err != nil {
		return err
	}
	return r.Run(withConstraints, func(s scene.Snapshot) error {
		printSnapshot(os.Stdout, s)
		return nil
	})
}

func runTrace(ctx context.Context, cmd *cli.Command) (err error) {
	e := envFromContext(ctx)
	if cmd.Args().Len() != 2 {
		return errors.New("usage: trace SCENE OUT")
	}
	r, err := loadScene(ctx, cmd)
	if err != nil {
		return err
	}

	out := cmd.Args().Get(1)
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("unable to create trace file '%s': %w", out, err)
	}
	defer func() {
		if er := f.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close trace file '%s': %w", out, er))
		}
	}()

	tw := scene.NewTraceWriter(f)
	if err := r.Run(true, tw.Write); err != nil {
		return multierr.Append(err, tw.Close())
	}
	if err := tw.Close(); err != nil {
		return err
	}
	e.Log.Info("Wrote trace", zap.String("file", out), zap.Int("snapshots", tw.Len()))
	return nil
}

func runInspect(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return errors.New("missing TRACE argument")
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	filter := strings.ToLower(cmd.String("view"))
	return scene.ReadTrace(f, func(s scene.Snapshot) error {
		if filter != "" {
			views := s.Views[:0]
			for _, v := range s.Views {
				if strings.ToLower(v.Name) == filter {
					views = append(views, v)
				}
			}
			s.Views = views
		}
		printSnapshot(os.Stdout, s)
		return nil
	})
}
