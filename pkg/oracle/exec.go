package oracle

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/operator-framework/pkgsolve/pkg/cnf"
)

// ExecOracle runs an external SAT solver as a subprocess, feeding it
// DIMACS CNF on stdin and parsing its response from stdout per the
// protocol in the external-interfaces contract: a line starting with
// "SAT" followed by signed literals terminated by " 0" means
// satisfiable; anything else means unsatisfiable.
type ExecOracle struct {
	Path string
	Args []string
}

// NewExec returns an Oracle that shells out to the solver binary at
// path.
func NewExec(path string, args ...string) *ExecOracle {
	return &ExecOracle{Path: path, Args: args}
}

// Solve implements Oracle. The subprocess is waited on and its
// stdout drained concurrently, via errgroup, so a solver that starts
// writing its response before exiting can't deadlock on a full pipe
// buffer; ctx cancellation propagates to both and kills the process.
func (e *ExecOracle) Solve(ctx context.Context, f *cnf.Formula) (Assignment, bool, error) {
	cmd := exec.CommandContext(ctx, e.Path, e.Args...)

	var in bytes.Buffer
	if err := f.WriteDIMACS(&in); err != nil {
		return Assignment{}, false, errors.Wrap(err, "encoding DIMACS input")
	}
	cmd.Stdin = &in

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Assignment{}, false, errors.Wrap(err, "opening oracle stdout")
	}
	if err := cmd.Start(); err != nil {
		return Assignment{}, false, errors.Wrap(err, "starting oracle subprocess")
	}

	var out bytes.Buffer
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := out.ReadFrom(stdout)
		return err
	})
	g.Go(func() error {
		return cmd.Wait()
	})
	if err := g.Wait(); err != nil {
		if gctx.Err() != nil {
			return Assignment{}, false, errors.Wrap(gctx.Err(), "oracle subprocess cancelled")
		}
		return Assignment{}, false, errors.Wrap(err, "running oracle subprocess")
	}

	return parseDIMACSResponse(out.String())
}

// parseDIMACSResponse implements the response half of the protocol:
// a "SAT" line followed by signed literals terminated by a literal
// 0, or any other content is treated as unsatisfiable.
func parseDIMACSResponse(output string) (Assignment, bool, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	if !scanner.Scan() {
		return Assignment{}, false, nil
	}
	first := strings.TrimSpace(scanner.Text())
	if !strings.HasPrefix(first, "SAT") {
		return Assignment{}, false, nil
	}

	var tokens []string
	tokens = append(tokens, strings.Fields(strings.TrimPrefix(first, "SAT"))...)
	for scanner.Scan() {
		tokens = append(tokens, strings.Fields(scanner.Text())...)
	}

	values := make(map[int]bool)
	for _, tok := range tokens {
		lit, err := strconv.Atoi(tok)
		if err != nil {
			return Assignment{}, false, errors.Wrapf(err, "parsing literal %q", tok)
		}
		if lit == 0 {
			break
		}
		if lit > 0 {
			values[lit] = true
		} else {
			values[-lit] = false
		}
	}
	return Assignment{Values: values}, true, nil
}
