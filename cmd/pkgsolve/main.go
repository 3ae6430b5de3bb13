// Command pkgsolve computes a minimum-cost sequence of package
// install/uninstall commands that transforms an initial installed
// state into one satisfying a list of install/uninstall constraints,
// given a catalog.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/operator-framework/pkgsolve/pkg/catalog"
	"github.com/operator-framework/pkgsolve/pkg/document"
	"github.com/operator-framework/pkgsolve/pkg/metrics"
	"github.com/operator-framework/pkgsolve/pkg/oracle"
	"github.com/operator-framework/pkgsolve/pkg/solver"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		catalogPath       string
		initialPath       string
		constraintsPath   string
		oracleSpec        string
		optimizeThreshold int
		alwaysOptimize    bool
		metricsAddr       string
		debug             bool
	)

	cmd := &cobra.Command{
		Use:   "pkgsolve",
		Short: "pkgsolve",
		Long:  `Computes a minimum-cost install/uninstall plan from a package catalog and a set of constraints.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New()
			if debug {
				logger.SetLevel(log.DebugLevel)
			}

			if metricsAddr != "" {
				reg := prometheus.NewRegistry()
				metrics.Register(reg)
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
				go func() {
					if err := http.ListenAndServe(metricsAddr, mux); err != nil {
						logger.WithError(err).Error("metrics server failed")
					}
				}()
			}

			o, err := resolveOracle(oracleSpec)
			if err != nil {
				return err
			}

			return run(cmd.Context(), runConfig{
				catalogPath:     catalogPath,
				initialPath:     initialPath,
				constraintsPath: constraintsPath,
				oracle:          o,
				opts: solver.Options{
					OptimizeThreshold: optimizeThreshold,
					AlwaysOptimize:    alwaysOptimize,
				},
				logger: logger,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&catalogPath, "catalog", "", "path to the catalog document (required)")
	flags.StringVar(&initialPath, "initial", "", "path to the initial-state document (required)")
	flags.StringVar(&constraintsPath, "constraints", "", "path to the constraints document (required)")
	flags.StringVar(&oracleSpec, "oracle", "gini", `SAT oracle: "gini" (in-process) or "exec:<path>" (DIMACS subprocess)`)
	flags.IntVar(&optimizeThreshold, "optimize-threshold", solver.DefaultOptimizeThreshold, "catalog size above which the first feasible solution is returned without enumeration")
	flags.BoolVar(&alwaysOptimize, "always-optimize", false, "always run the full blocking-clause optimizer, regardless of catalog size")
	flags.StringVar(&metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on; empty disables")
	flags.BoolVar(&debug, "debug", false, "use debug log level")

	for _, name := range []string{"catalog", "initial", "constraints"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			log.Panic(err.Error())
		}
	}

	return cmd
}

type runConfig struct {
	catalogPath, initialPath, constraintsPath string
	oracle                                    oracle.Oracle
	opts                                      solver.Options
	logger                                    *log.Logger
}

func run(ctx context.Context, cfg runConfig) error {
	rawPackages, err := document.ReadCatalog(cfg.catalogPath)
	if err != nil {
		return err
	}
	initialRaw, err := document.ReadStrings(cfg.initialPath)
	if err != nil {
		return err
	}
	constraintsRaw, err := document.ReadStrings(cfg.constraintsPath)
	if err != nil {
		return err
	}

	c := catalog.Build(rawPackages, cfg.logger)
	req, err := catalog.NewRequest(c, initialRaw, constraintsRaw, cfg.logger)
	if err != nil {
		return err
	}

	result, err := solver.Solve(ctx, c, req, cfg.oracle, cfg.opts, cfg.logger)
	if err != nil {
		if errors.Is(err, solver.ErrUnsatisfiable) {
			cfg.logger.Warn("no solution satisfies the given constraints")
			if werr := document.WriteCommands(os.Stdout, nil); werr != nil {
				return werr
			}
			return err
		}
		return err
	}

	cfg.logger.WithField("cost", result.Cost).Info("solved")
	return document.WriteCommands(os.Stdout, result.Commands)
}

// resolveOracle constructs the Oracle named by spec: "gini" for the
// in-process adapter, or "exec:<path> [args...]" for a subprocess
// speaking the DIMACS protocol.
func resolveOracle(spec string) (oracle.Oracle, error) {
	if spec == "gini" || spec == "" {
		return oracle.NewGini(), nil
	}
	if rest, ok := strings.CutPrefix(spec, "exec:"); ok {
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return nil, fmt.Errorf("--oracle=exec: requires a binary path")
		}
		return oracle.NewExec(fields[0], fields[1:]...), nil
	}
	return nil, fmt.Errorf("unrecognized --oracle value %q", spec)
}
