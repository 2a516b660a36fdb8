package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/riskibarqy/cricket-slots/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

type fakeMigrator struct {
	steps    int
	target   uint
	forced   int
	upErr    error
	version  uint
	dirty    bool
	verErr   error
	upCalled bool
}

func (f *fakeMigrator) Up() error                    { f.upCalled = true; return f.upErr }
func (f *fakeMigrator) Steps(n int) error            { f.steps = n; return nil }
func (f *fakeMigrator) Migrate(v uint) error         { f.target = v; return nil }
func (f *fakeMigrator) Force(v int) error            { f.forced = v; return nil }
func (f *fakeMigrator) Version() (uint, bool, error) { return f.version, f.dirty, f.verErr }

func TestCommands(t *testing.T) {
	t.Parallel()

	logger := logging.NewNop()
	var out bytes.Buffer

	m := &fakeMigrator{upErr: migrate.ErrNoChange}
	require.NoError(t, cmdUp(m, nil, &out, logger))
	require.True(t, m.upCalled)

	require.NoError(t, cmdDown(m, []string{"2"}, &out, logger))
	require.Equal(t, -2, m.steps)

	require.NoError(t, cmdGoto(m, []string{"1771776400"}, &out, logger))
	require.Equal(t, uint(1771776400), m.target)

	require.NoError(t, cmdForce(m, []string{"1771776400"}, &out, logger))
	require.Equal(t, 1771776400, m.forced)

	require.Error(t, cmdForce(m, nil, &out, logger))
	require.Error(t, cmdGoto(m, []string{"latest"}, &out, logger))
}

func TestCmdUp_PropagatesFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("dirty database version 3")
	err := cmdUp(&fakeMigrator{upErr: boom}, nil, &bytes.Buffer{}, logging.NewNop())
	require.ErrorIs(t, err, boom)
}

func TestCmdVersion(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, cmdVersion(&fakeMigrator{verErr: migrate.ErrNilVersion}, nil, &out, logging.NewNop()))
	require.Equal(t, "version: none\ndirty: false\n", out.String())

	out.Reset()
	require.NoError(t, cmdVersion(&fakeMigrator{version: 1771776400, dirty: true}, nil, &out, logging.NewNop()))
	require.Equal(t, "version: 1771776400\ndirty: true\n", out.String())
}

func TestParseSteps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args    []string
		want    int
		wantErr bool
	}{
		{args: nil, want: 1},
		{args: []string{" 3 "}, want: 3},
		{args: []string{"0"}, wantErr: true},
		{args: []string{"all"}, wantErr: true},
	}
	for _, tc := range tests {
		got, err := parseSteps(tc.args)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Fatalf("parseSteps(%v) got=%d err=%v want=%d wantErr=%v", tc.args, got, err, tc.want, tc.wantErr)
		}
	}
}

func TestResolveMigrationsDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir.sql")
	require.NoError(t, os.WriteFile(file, []byte("--"), 0o600))

	got, err := resolveMigrationsDir([]string{"", file, filepath.Join(dir, "missing"), dir})
	require.NoError(t, err)
	require.Equal(t, dir, got)

	_, err = resolveMigrationsDir([]string{filepath.Join(dir, "missing")})
	require.Error(t, err)
}

func TestRun_UnknownCommandIsUsage(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, run(nil, &bytes.Buffer{}, logging.NewNop()), errUsage)
	require.ErrorIs(t, run([]string{"seed"}, &bytes.Buffer{}, logging.NewNop()), errUsage)
}
