package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testTarget struct {
	workers int
	verbose bool
}

func TestApply(t *testing.T) {
	target := &testTarget{}
	err := Apply(target,
		New(func(tt *testTarget) error {
			tt.workers = 4
			return nil
		}),
		NoError(func(tt *testTarget) {
			tt.verbose = true
		}),
	)
	require.NoError(t, err)
	require.Equal(t, 4, target.workers)
	require.True(t, target.verbose)
}

func TestApplyStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	target := &testTarget{}

	err := Apply(target,
		New(func(tt *testTarget) error { return boom }),
		NoError(func(tt *testTarget) { tt.workers = 99 }),
	)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, target.workers, "options after a failure must not apply")
}
