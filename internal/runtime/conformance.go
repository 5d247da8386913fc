package runtime

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// FixtureResult is one fixture script's outcome: Err is nil on a clean
// top-level completion (including any Promise reactions it scheduled),
// non-nil on a parse/compile/runtime failure.
type FixtureResult struct {
	Path string
	Err  error
}

// RunFixtures discovers every *.js file under dir and evaluates each
// concurrently, each in its own freshly-built Context — "multiple
// instances may coexist in one process" taken literally, rather than
// reusing one heap across fixtures and risking one fixture's leftover
// global state leaking into the next. newOpts is called once per
// fixture so callers can vary heap size per fixture if a conformance
// suite needs it; pass a func returning a fixed Options value for the
// common case.
//
// Results are returned in discovery order regardless of completion
// order. The first fixture to fail cancels the errgroup's context,
// which RunFixtures itself doesn't currently check mid-fixture (a
// single Eval call isn't preemptible), but does prevent any
// not-yet-started fixture from being scheduled.
func RunFixtures(ctx context.Context, dir string, newOpts func() Options) ([]FixtureResult, error) {
	paths, err := discoverFixtures(dir)
	if err != nil {
		return nil, err
	}

	results := make([]FixtureResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = FixtureResult{Path: path, Err: err}
				return err
			}
			src, err := os.ReadFile(path)
			if err != nil {
				results[i] = FixtureResult{Path: path, Err: err}
				return err
			}
			rt, err := New(newOpts())
			if err != nil {
				results[i] = FixtureResult{Path: path, Err: err}
				return err
			}
			_, err = rt.Eval(string(src), path)
			results[i] = FixtureResult{Path: path, Err: err}
			return err
		})
	}
	firstErr := g.Wait()
	return results, firstErr
}

func discoverFixtures(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".js" {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
