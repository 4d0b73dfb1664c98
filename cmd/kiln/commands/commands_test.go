package commands_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/cmd/kiln/commands"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/build"
	"go.trai.ch/kiln/internal/core/domain"
)

type mockApp struct {
	runFunc func(ctx context.Context, entry string, opts app.RunOptions) error
	cleaned bool
}

func (m *mockApp) Run(ctx context.Context, entry string, opts app.RunOptions) error {
	if m.runFunc != nil {
		return m.runFunc(ctx, entry, opts)
	}
	return nil
}

func (m *mockApp) Tasks(w io.Writer) error {
	_, err := io.WriteString(w, "default  Build every asset\n")
	return err
}

func (m *mockApp) Clean(_ context.Context) error {
	m.cleaned = true
	return nil
}

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(a)
	buf := new(bytes.Buffer)
	cli.SetArgs(args)
	cli.SetOutput(buf, buf)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_RootRunsDefault(t *testing.T) {
	var entry string
	var opts app.RunOptions
	mock := &mockApp{runFunc: func(_ context.Context, e string, o app.RunOptions) error {
		entry, opts = e, o
		return nil
	}}

	_, err := execute(t, mock)
	require.NoError(t, err)
	assert.Equal(t, domain.EntryDefault, entry)
	assert.Equal(t, domain.ConfigFileName, opts.ConfigPath)
	assert.Equal(t, "auto", opts.LogFormat)
}

func TestCommands_Entries(t *testing.T) {
	for _, e := range domain.Entries() {
		t.Run(e.Name, func(t *testing.T) {
			var entry string
			mock := &mockApp{runFunc: func(_ context.Context, name string, _ app.RunOptions) error {
				entry = name
				return nil
			}}

			_, err := execute(t, mock, e.Name)
			require.NoError(t, err)
			assert.Equal(t, e.Name, entry)
		})
	}
}

func TestCommands_Flags(t *testing.T) {
	var opts app.RunOptions
	mock := &mockApp{runFunc: func(_ context.Context, _ string, o app.RunOptions) error {
		opts = o
		return nil
	}}

	_, err := execute(t, mock, "build", "--config", "site.yaml", "--log-format", "json")
	require.NoError(t, err)
	assert.Equal(t, "site.yaml", opts.ConfigPath)
	assert.Equal(t, "json", opts.LogFormat)
}

func TestCommands_RunError(t *testing.T) {
	mock := &mockApp{runFunc: func(_ context.Context, _ string, _ app.RunOptions) error {
		return errors.New("simulated error")
	}}

	_, err := execute(t, mock, "css")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulated error")
}

func TestCommands_RejectsArgs(t *testing.T) {
	mock := &mockApp{runFunc: func(_ context.Context, _ string, _ app.RunOptions) error {
		panic("should not be called")
	}}

	_, err := execute(t, mock, "build", "extra")
	require.Error(t, err)
}

func TestCommands_Tasks(t *testing.T) {
	out, err := execute(t, &mockApp{}, "tasks")
	require.NoError(t, err)
	assert.Equal(t, "default  Build every asset\n", out)
}

func TestCommands_Clean(t *testing.T) {
	mock := &mockApp{}
	_, err := execute(t, mock, "clean")
	require.NoError(t, err)
	assert.True(t, mock.cleaned)
}

func TestCommands_Version(t *testing.T) {
	expected := fmt.Sprintf("kiln version %s (commit: %s, date: %s)\n", build.Version, build.Commit, build.Date)

	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Equal(t, expected, out)

	out, err = execute(t, &mockApp{}, "--version")
	require.NoError(t, err)
	assert.Equal(t, expected, out)
}
