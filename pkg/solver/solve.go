package solver

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/operator-framework/pkgsolve/pkg/catalog"
	"github.com/operator-framework/pkgsolve/pkg/cnf"
	"github.com/operator-framework/pkgsolve/pkg/command"
	"github.com/operator-framework/pkgsolve/pkg/oracle"
)

// Solve builds the CNF formula for req against c, then either
// enumerates with the Optimizer loop (component G) or takes the
// oracle's first feasible solution (component H), depending on
// opts and c's size. It is the single entry point cmd/pkgsolve calls.
func Solve(ctx context.Context, c *catalog.Catalog, req *catalog.Request, o oracle.Oracle, opts Options, log *logrus.Logger) (command.Result, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	f, err := cnf.Encode(c, req)
	if err != nil {
		return command.Result{}, err
	}
	log.WithFields(logrus.Fields{
		"vars":    f.NumVars,
		"clauses": len(f.Clauses),
	}).Debug("encoded CNF formula")

	if !opts.shouldOptimize(c.Len()) {
		log.WithField("catalog_size", c.Len()).Info("catalog exceeds optimize threshold, using single-pass mode")
		return solveOnce(ctx, c, req, f, o, log)
	}

	return optimize(ctx, c, req, f, o, log)
}

// solveOnce implements the large-catalog mode (component H): a
// single Oracle call, handed straight to the Command Builder, with no
// blocking-clause enumeration.
func solveOnce(ctx context.Context, c *catalog.Catalog, req *catalog.Request, f *cnf.Formula, o oracle.Oracle, log *logrus.Logger) (command.Result, error) {
	assignment, sat, err := o.Solve(ctx, f)
	if err != nil {
		return command.Result{}, err
	}
	if !sat {
		return command.Result{}, ErrUnsatisfiable
	}
	return command.Build(c, req.Initial, assignment, log)
}
