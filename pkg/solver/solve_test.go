package solver

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/operator-framework/pkgsolve/pkg/catalog"
	"github.com/operator-framework/pkgsolve/pkg/oracle"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

// scenario mirrors one row of the end-to-end scenario table: a
// catalog, an initial state, and user constraints, with the expected
// commands and cost of the optimal solution.
type scenario struct {
	name         string
	raws         []catalog.RawPackage
	initial      []string
	constraints  []string
	wantCommands []string
	wantCost     int
}

func scenarios() []scenario {
	return []scenario{
		{
			name:         "install leaf package",
			raws:         []catalog.RawPackage{{Name: "A", Version: "1", Size: 10}},
			constraints:  []string{"+A=1"},
			wantCommands: []string{"+A=1"},
			wantCost:     10,
		},
		{
			name:         "uninstall installed package",
			raws:         []catalog.RawPackage{{Name: "A", Version: "1", Size: 10}},
			initial:      []string{"A=1"},
			constraints:  []string{"-A=1"},
			wantCommands: []string{"-A=1"},
			wantCost:     1_000_000,
		},
		{
			name: "install pulls in dependency",
			raws: []catalog.RawPackage{
				{Name: "A", Version: "1", Size: 5, Depends: [][]string{{"B"}}},
				{Name: "B", Version: "1", Size: 3},
			},
			constraints:  []string{"+A=1"},
			wantCommands: []string{"+B=1", "+A=1"},
			wantCost:     8,
		},
		{
			name: "optimizer picks the cheaper of two suppliers",
			raws: []catalog.RawPackage{
				{Name: "A", Version: "1", Size: 5, Depends: [][]string{{"B", "C"}}},
				{Name: "B", Version: "1", Size: 100},
				{Name: "C", Version: "1", Size: 2},
			},
			constraints:  []string{"+A=1"},
			wantCommands: []string{"+C=1", "+A=1"},
			wantCost:     7,
		},
		{
			name: "unversioned install picks the cheapest variant",
			raws: []catalog.RawPackage{
				{Name: "A", Version: "1", Size: 10},
				{Name: "A", Version: "2", Size: 5},
			},
			constraints:  []string{"+A"},
			wantCommands: []string{"+A=2"},
			wantCost:     5,
		},
		{
			name: "conflict forces an uninstall",
			raws: []catalog.RawPackage{
				{Name: "A", Version: "1", Size: 10, Conflicts: []string{"C"}},
				{Name: "B", Version: "1", Size: 20},
				{Name: "C", Version: "1", Size: 30},
			},
			initial:      []string{"A=1", "B=1"},
			constraints:  []string{"+C=1"},
			wantCommands: []string{"-A=1", "+C=1"},
			wantCost:     1_000_030,
		},
	}
}

func TestSolveEndToEndWithGini(t *testing.T) {
	for _, tt := range scenarios() {
		t.Run(tt.name, func(t *testing.T) {
			c := catalog.Build(tt.raws, testLogger())
			req, err := catalog.NewRequest(c, tt.initial, tt.constraints, testLogger())
			require.NoError(t, err)

			result, err := Solve(context.Background(), c, req, oracle.NewGini(), Options{}, testLogger())
			require.NoError(t, err)
			assert.Equal(t, tt.wantCommands, result.Commands)
			assert.Equal(t, tt.wantCost, result.Cost)
		})
	}
}

func TestSolveNoCandidatesForInstallReference(t *testing.T) {
	c := catalog.Build([]catalog.RawPackage{{Name: "A", Version: "1", Size: 10}}, testLogger())
	req, err := catalog.NewRequest(c, nil, []string{"+nonexistent"}, testLogger())
	require.NoError(t, err)

	_, err = Solve(context.Background(), c, req, oracle.NewGini(), Options{}, testLogger())
	assert.Error(t, err)
}

func TestSolveUnsatisfiable(t *testing.T) {
	// A and B must both be installed, but they conflict with each
	// other and no other package can satisfy either install
	// constraint.
	c := catalog.Build([]catalog.RawPackage{
		{Name: "A", Version: "1", Size: 10, Conflicts: []string{"B"}},
		{Name: "B", Version: "1", Size: 10, Conflicts: []string{"A"}},
	}, testLogger())
	req, err := catalog.NewRequest(c, nil, []string{"+A=1", "+B=1"}, testLogger())
	require.NoError(t, err)

	_, err = Solve(context.Background(), c, req, oracle.NewGini(), Options{}, testLogger())
	assert.ErrorIs(t, err, ErrUnsatisfiable)
}

func TestSolveLargeCatalogSkipsOptimizer(t *testing.T) {
	raws := []catalog.RawPackage{
		{Name: "A", Version: "1", Size: 10, Depends: [][]string{{"B", "C"}}},
		{Name: "B", Version: "1", Size: 100},
		{Name: "C", Version: "1", Size: 2},
	}
	c := catalog.Build(raws, testLogger())
	req, err := catalog.NewRequest(c, nil, []string{"+A=1"}, testLogger())
	require.NoError(t, err)

	result, err := Solve(context.Background(), c, req, oracle.NewGini(), Options{OptimizeThreshold: 1}, testLogger())
	require.NoError(t, err)
	// Single-pass mode takes whatever the oracle returns first;
	// it need not be the cheapest, but it must be feasible.
	assert.NotEmpty(t, result.Commands)
}
