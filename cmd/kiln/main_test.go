package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func provide(t *testing.T, loader *mocks.MockConfigLoader, log *mocks.MockLogger) ComponentProvider {
	t.Helper()
	ctrl := gomock.NewController(t)
	application := app.New(
		loader,
		log,
		mocks.NewMockBuildInfoStore(ctrl),
		mocks.NewMockHasher(ctrl),
		mocks.NewMockFileSource(ctrl),
		mocks.NewMockFileSink(ctrl),
		mocks.NewMockMetrics(ctrl),
		mocks.NewMockWatcher(ctrl),
	).WithRoot(t.TempDir()).WithOutput(new(bytes.Buffer), new(bytes.Buffer))

	return func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: log}, func() {}, nil
	}
}

func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	stdout := new(bytes.Buffer)

	exitCode := run(context.Background(), []string{"version"}, stdout, new(bytes.Buffer),
		provide(t, mocks.NewMockConfigLoader(ctrl), mocks.NewMockLogger(ctrl)))

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "kiln version")
}

func TestRun_ProviderError(t *testing.T) {
	stderr := new(bytes.Buffer)
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("graph failed")
	}

	exitCode := run(context.Background(), []string{"build"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Equal(t, "Error: graph failed\n", stderr.String())
}

func TestRun_CommandErrorIsLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)

	loader.EXPECT().Load(gomock.Any()).Return(domain.Config{}, domain.ErrConfigParseFailed)
	log.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorContains(t, err, "failed to load configuration")
	})

	exitCode := run(context.Background(), []string{"build"}, new(bytes.Buffer), new(bytes.Buffer), provide(t, loader, log))
	assert.Equal(t, 1, exitCode)
}

func TestRun_BuildFailureIsNotLoggedTwice(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)
	source := mocks.NewMockFileSource(ctrl)
	metrics := mocks.NewMockMetrics(ctrl)

	loader.EXPECT().Load(gomock.Any()).Return(domain.DefaultConfig(), nil)
	source.EXPECT().Read(gomock.Any(), gomock.Any()).Return(nil, domain.ErrSourceReadFailed)
	metrics.EXPECT().ObserveTask(domain.TaskHTMLCopy, gomock.Any(), gomock.Any())

	application := app.New(
		loader,
		log,
		mocks.NewMockBuildInfoStore(ctrl),
		mocks.NewMockHasher(ctrl),
		source,
		mocks.NewMockFileSink(ctrl),
		metrics,
		mocks.NewMockWatcher(ctrl),
	).WithRoot(t.TempDir()).WithOutput(new(bytes.Buffer), new(bytes.Buffer))
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: log}, func() {}, nil
	}

	// The renderer already reported the failed task, so nothing is logged.
	exitCode := run(context.Background(), []string{"html"}, new(bytes.Buffer), new(bytes.Buffer), provider)
	assert.Equal(t, 1, exitCode)
}
