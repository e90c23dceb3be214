package pipeline

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"logrelay/internal/boundaries/out/mocks"
	"logrelay/internal/domain"
	"logrelay/internal/testutils"
	"logrelay/internal/usecase/provision"
	"logrelay/internal/usecase/relay"
	"logrelay/internal/usecase/workload"
)

type fixture struct {
	service *Service
	runtime *mocks.MockContainerRuntime
	backend *mocks.MockLogBackend
	sink    *mocks.MockLineSink
}

func newFixture(t *testing.T) *fixture {
	runtime := mocks.NewMockContainerRuntime(t)
	backend := mocks.NewMockLogBackend(t)
	sink := mocks.NewMockLineSink(t)
	sink.EXPECT().Echo(mock.Anything, mock.Anything).Return(nil).Maybe()

	service := NewService(
		provision.NewService(backend),
		workload.NewManager(runtime, workload.Config{}),
		relay.NewService(backend, sink, nil, relay.Config{MaxAttempts: 2}),
	)
	return &fixture{service: service, runtime: runtime, backend: backend, sink: sink}
}

func (f *fixture) expectProvisioned() {
	f.backend.EXPECT().CreateLogGroup(mock.Anything, "g").Return(domain.ProvisionCreated, nil).Once()
	f.backend.EXPECT().CreateLogStream(mock.Anything, "g", "s").Return(domain.ProvisionCreated, nil).Once()
}

func (f *fixture) expectStarted() {
	f.runtime.EXPECT().ImageExists(mock.Anything, "alpine").Return(true, nil).Once()
	f.runtime.EXPECT().CreateContainer(mock.Anything, mock.Anything).Return(&domain.Workload{ID: "abc123", Image: "alpine"}, nil).Once()
	f.runtime.EXPECT().StartContainer(mock.Anything, "abc123").Return(nil).Once()
}

func (f *fixture) expectTeardown() {
	f.runtime.EXPECT().StopContainer(mock.Anything, "abc123").Return(nil).Once()
	f.runtime.EXPECT().RemoveContainer(mock.Anything, "abc123", true).Return(nil).Once()
}

var request = domain.RunRequest{
	Workload:    domain.WorkloadSpec{Image: "alpine", Command: "echo hi"},
	Destination: domain.LogDestination{Group: "g", Stream: "s"},
}

func singleMessage(msg string) any {
	return mock.MatchedBy(func(records []domain.LogRecord) bool {
		return len(records) == 1 && records[0].Message == msg
	})
}

func TestService_Run_EndToEnd(t *testing.T) {
	ctx := testutils.TestContext(t)
	f := newFixture(t)
	src := testutils.NewSliceSource("hi")

	f.expectProvisioned()
	f.expectStarted()
	f.runtime.EXPECT().OpenOutput(mock.Anything, "abc123").Return(src, nil).Once()
	f.backend.EXPECT().PutLogEvents(mock.Anything, request.Destination, singleMessage("hi")).Return(nil).Once()
	f.expectTeardown()

	summary, err := f.service.Run(ctx, request)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Lines)
	assert.Equal(t, 1, summary.Forwarded)
	assert.Equal(t, 0, summary.Failed)
	assert.False(t, summary.Cancelled)
	assert.Equal(t, 1, src.Closed())
}

func TestService_Run_SourceErrorStillTearsDownOnce(t *testing.T) {
	ctx := testutils.TestContext(t)
	f := newFixture(t)
	src := testutils.NewFailingSource(io.ErrUnexpectedEOF, "a", "b")

	f.expectProvisioned()
	f.expectStarted()
	f.runtime.EXPECT().OpenOutput(mock.Anything, "abc123").Return(src, nil).Once()
	f.backend.EXPECT().PutLogEvents(mock.Anything, request.Destination, mock.Anything).Return(nil).Twice()
	f.expectTeardown()

	summary, err := f.service.Run(ctx, request)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Forwarded)
	assert.ErrorIs(t, summary.SourceErr, io.ErrUnexpectedEOF)
}

func TestService_Run_ProvisionFailureIsFatal(t *testing.T) {
	ctx := testutils.TestContext(t)
	f := newFixture(t)

	f.backend.EXPECT().CreateLogGroup(mock.Anything, "g").Return("", errors.New("access denied")).Once()

	_, err := f.service.Run(ctx, request)

	var provErr *domain.ProvisionError
	require.ErrorAs(t, err, &provErr)
	f.runtime.AssertNotCalled(t, "CreateContainer", mock.Anything, mock.Anything)
}

func TestService_Run_StartFailureIsFatal(t *testing.T) {
	ctx := testutils.TestContext(t)
	f := newFixture(t)

	f.expectProvisioned()
	f.runtime.EXPECT().ImageExists(mock.Anything, "alpine").Return(false, nil).Once()
	f.runtime.EXPECT().PullImage(mock.Anything, "alpine").Return(errors.New("registry unreachable")).Once()

	_, err := f.service.Run(ctx, request)

	var startErr *domain.WorkloadStartError
	require.ErrorAs(t, err, &startErr)
	f.backend.AssertNotCalled(t, "PutLogEvents", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Run_OutputUnavailable(t *testing.T) {
	ctx := testutils.TestContext(t)
	f := newFixture(t)

	f.expectProvisioned()
	f.expectStarted()
	f.runtime.EXPECT().OpenOutput(mock.Anything, "abc123").Return(nil, errors.New("attach refused")).Once()
	f.expectTeardown()

	summary, err := f.service.Run(ctx, request)

	require.NoError(t, err)
	var srcErr *domain.SourceError
	assert.ErrorAs(t, summary.SourceErr, &srcErr)
	assert.Zero(t, summary.Lines)
}

func TestService_Run_CancelledStillTearsDown(t *testing.T) {
	ctx, cancel := context.WithCancel(testutils.TestContext(t))
	defer cancel()
	f := newFixture(t)
	src := testutils.NewSliceSource("one", "two", "three")

	f.expectProvisioned()
	f.expectStarted()
	f.runtime.EXPECT().OpenOutput(mock.Anything, "abc123").Return(src, nil).Once()
	f.backend.EXPECT().PutLogEvents(mock.Anything, request.Destination, singleMessage("one")).
		RunAndReturn(func(context.Context, domain.LogDestination, []domain.LogRecord) error {
			cancel()
			return nil
		}).Once()
	f.expectTeardown()

	summary, err := f.service.Run(ctx, request)

	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, summary.Cancelled)
	assert.Equal(t, 1, summary.Lines)
	assert.Equal(t, 1, src.Closed())
}

func TestService_Run_TeardownFailureDoesNotFailRun(t *testing.T) {
	ctx := testutils.TestContext(t)
	f := newFixture(t)

	f.expectProvisioned()
	f.expectStarted()
	f.runtime.EXPECT().OpenOutput(mock.Anything, "abc123").Return(testutils.NewSliceSource(), nil).Once()
	f.runtime.EXPECT().StopContainer(mock.Anything, "abc123").Return(errors.New("timeout")).Once()
	f.runtime.EXPECT().RemoveContainer(mock.Anything, "abc123", true).Return(errors.New("busy")).Once()

	summary, err := f.service.Run(ctx, request)

	require.NoError(t, err)
	assert.Zero(t, summary.Lines)
}

func TestService_Run_PerLineFailuresAreNotFatal(t *testing.T) {
	ctx := testutils.TestContext(t)
	f := newFixture(t)

	f.expectProvisioned()
	f.expectStarted()
	f.runtime.EXPECT().OpenOutput(mock.Anything, "abc123").Return(testutils.NewSliceSource("ok", "bad"), nil).Once()
	f.backend.EXPECT().PutLogEvents(mock.Anything, request.Destination, singleMessage("ok")).Return(nil).Once()
	f.backend.EXPECT().PutLogEvents(mock.Anything, request.Destination, singleMessage("bad")).
		Return(&domain.ForwardError{Kind: domain.ForwardRejected, Err: errors.New("too old")}).Once()
	f.expectTeardown()

	summary, err := f.service.Run(ctx, request)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Forwarded)
	assert.Equal(t, 1, summary.Failed)
	assert.Error(t, summary.LastError)
}

func TestService_Preflight(t *testing.T) {
	ctx := testutils.TestContext(t)
	f := newFixture(t)

	f.runtime.EXPECT().Ping(mock.Anything).Return(nil).Once()
	f.runtime.EXPECT().Version(mock.Anything).Return("28.0.1", nil).Once()

	version, err := f.service.Preflight(ctx)

	require.NoError(t, err)
	assert.Equal(t, "28.0.1", version)
}
