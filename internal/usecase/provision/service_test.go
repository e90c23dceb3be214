package provision

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/bnema/zerowrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"logrelay/internal/boundaries/out/mocks"
	"logrelay/internal/domain"
)

func testContext() context.Context {
	return zerowrap.WithCtx(context.Background(), zerowrap.Default())
}

func TestService_Ensure_CreatesBoth(t *testing.T) {
	backend := mocks.NewMockLogBackend(t)
	svc := NewService(backend)

	backend.EXPECT().CreateLogGroup(mock.Anything, "g").Return(domain.ProvisionCreated, nil).Once()
	backend.EXPECT().CreateLogStream(mock.Anything, "g", "s").Return(domain.ProvisionCreated, nil).Once()

	result, err := svc.Ensure(testContext(), domain.LogDestination{Group: "g", Stream: "s"})

	require.NoError(t, err)
	assert.Equal(t, domain.ProvisionCreated, result.Group)
	assert.Equal(t, domain.ProvisionCreated, result.Stream)
}

func TestService_Ensure_IsIdempotent(t *testing.T) {
	backend := mocks.NewMockLogBackend(t)
	svc := NewService(backend)
	dest := domain.LogDestination{Group: "g", Stream: "s"}

	backend.EXPECT().CreateLogGroup(mock.Anything, "g").Return(domain.ProvisionCreated, nil).Once()
	backend.EXPECT().CreateLogStream(mock.Anything, "g", "s").Return(domain.ProvisionCreated, nil).Once()
	backend.EXPECT().CreateLogGroup(mock.Anything, "g").Return(domain.ProvisionAlreadyExists, nil).Once()
	backend.EXPECT().CreateLogStream(mock.Anything, "g", "s").Return(domain.ProvisionAlreadyExists, nil).Once()

	_, err := svc.Ensure(testContext(), dest)
	require.NoError(t, err)

	result, err := svc.Ensure(testContext(), dest)
	require.NoError(t, err)
	assert.Equal(t, domain.ProvisionAlreadyExists, result.Group)
	assert.Equal(t, domain.ProvisionAlreadyExists, result.Stream)
}

func TestService_Ensure_GroupFailureIsFatal(t *testing.T) {
	backend := mocks.NewMockLogBackend(t)
	svc := NewService(backend)
	cause := errors.New("UnrecognizedClientException: bad token")

	backend.EXPECT().CreateLogGroup(mock.Anything, "g").Return("", cause)

	_, err := svc.Ensure(testContext(), domain.LogDestination{Group: "g", Stream: "s"})

	var perr *domain.ProvisionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "log group", perr.Resource)
	assert.Equal(t, "g", perr.Name)
	assert.ErrorIs(t, err, cause)
	backend.AssertNotCalled(t, "CreateLogStream", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Ensure_StreamFailureIsFatal(t *testing.T) {
	backend := mocks.NewMockLogBackend(t)
	svc := NewService(backend)

	backend.EXPECT().CreateLogGroup(mock.Anything, "g").Return(domain.ProvisionAlreadyExists, nil)
	backend.EXPECT().CreateLogStream(mock.Anything, "g", "s").Return("", errors.New("network down"))

	result, err := svc.Ensure(testContext(), domain.LogDestination{Group: "g", Stream: "s"})

	var perr *domain.ProvisionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "log stream", perr.Resource)
	assert.Equal(t, domain.ProvisionAlreadyExists, result.Group)
}

func TestService_Ensure_RejectsEmptyNames(t *testing.T) {
	tests := []struct {
		name string
		dest domain.LogDestination
	}{
		{name: "empty group", dest: domain.LogDestination{Stream: "s"}},
		{name: "empty stream", dest: domain.LogDestination{Group: "g"}},
		{name: "blank group", dest: domain.LogDestination{Group: "  ", Stream: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := mocks.NewMockLogBackend(t)
			svc := NewService(backend)

			_, err := svc.Ensure(testContext(), tt.dest)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidDestination)
		})
	}
}

func TestService_Ensure_LogsThroughContextLogger(t *testing.T) {
	var buf bytes.Buffer
	log := zerowrap.New(zerowrap.Config{Level: "info", Format: "json", Output: &buf})
	ctx := zerowrap.WithCtx(context.Background(), log)

	backend := mocks.NewMockLogBackend(t)
	backend.EXPECT().CreateLogGroup(mock.Anything, "app").Return(domain.ProvisionAlreadyExists, nil).Once()
	backend.EXPECT().CreateLogStream(mock.Anything, "app", "web-1").Return(domain.ProvisionCreated, nil).Once()

	_, err := NewService(backend).Ensure(ctx, domain.LogDestination{Group: "app", Stream: "web-1"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "EnsureDestination")
	assert.Contains(t, out, "web-1")
	assert.Contains(t, out, "already exists")
	assert.Contains(t, out, "created")
}
