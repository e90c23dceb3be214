package cloudwatch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logrelay/internal/domain"
)

type fakeClient struct {
	groupErr  error
	streamErr error
	putErr    error
	putOut    *cloudwatchlogs.PutLogEventsOutput
	puts      []*cloudwatchlogs.PutLogEventsInput
}

func (f *fakeClient) CreateLogGroup(_ context.Context, _ *cloudwatchlogs.CreateLogGroupInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error) {
	if f.groupErr != nil {
		return nil, f.groupErr
	}
	return &cloudwatchlogs.CreateLogGroupOutput{}, nil
}

func (f *fakeClient) CreateLogStream(_ context.Context, _ *cloudwatchlogs.CreateLogStreamInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error) {
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	return &cloudwatchlogs.CreateLogStreamOutput{}, nil
}

func (f *fakeClient) PutLogEvents(_ context.Context, in *cloudwatchlogs.PutLogEventsInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error) {
	f.puts = append(f.puts, in)
	if f.putErr != nil {
		return nil, f.putErr
	}
	if f.putOut != nil {
		return f.putOut, nil
	}
	return &cloudwatchlogs.PutLogEventsOutput{}, nil
}

var dest = domain.LogDestination{Group: "g", Stream: "s"}

func TestBackend_CreateLogGroup(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    domain.ProvisionOutcome
		wantErr bool
	}{
		{name: "created", want: domain.ProvisionCreated},
		{name: "typed already exists", err: &types.ResourceAlreadyExistsException{Message: aws.String("exists")}, want: domain.ProvisionAlreadyExists},
		{name: "generic already exists", err: &smithy.GenericAPIError{Code: "ResourceAlreadyExistsException"}, want: domain.ProvisionAlreadyExists},
		{name: "denied", err: &smithy.GenericAPIError{Code: "AccessDeniedException"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBackendWithClient(&fakeClient{groupErr: tt.err})

			outcome, err := b.CreateLogGroup(context.Background(), "g")

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome)
		})
	}
}

func TestBackend_CreateLogStream(t *testing.T) {
	b := NewBackendWithClient(&fakeClient{})
	outcome, err := b.CreateLogStream(context.Background(), "g", "s")
	require.NoError(t, err)
	assert.Equal(t, domain.ProvisionCreated, outcome)

	b = NewBackendWithClient(&fakeClient{streamErr: &types.ResourceAlreadyExistsException{}})
	outcome, err = b.CreateLogStream(context.Background(), "g", "s")
	require.NoError(t, err)
	assert.Equal(t, domain.ProvisionAlreadyExists, outcome)

	b = NewBackendWithClient(&fakeClient{streamErr: &types.ResourceNotFoundException{Message: aws.String("no group")}})
	_, err = b.CreateLogStream(context.Background(), "g", "s")
	require.Error(t, err)
}

func TestBackend_PutLogEvents_SendsRecordsInOrder(t *testing.T) {
	client := &fakeClient{}
	b := NewBackendWithClient(client)

	err := b.PutLogEvents(context.Background(), dest, []domain.LogRecord{
		{Timestamp: 1000, Message: "first"},
		{Timestamp: 1001, Message: ""},
	})

	require.NoError(t, err)
	require.Len(t, client.puts, 1)
	in := client.puts[0]
	assert.Equal(t, "g", aws.ToString(in.LogGroupName))
	assert.Equal(t, "s", aws.ToString(in.LogStreamName))
	require.Len(t, in.LogEvents, 2)
	assert.Equal(t, "first", aws.ToString(in.LogEvents[0].Message))
	assert.Equal(t, int64(1000), aws.ToInt64(in.LogEvents[0].Timestamp))
	assert.Equal(t, " ", aws.ToString(in.LogEvents[1].Message))
}

func TestBackend_PutLogEvents_ClassifiesErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.ForwardFailure
	}{
		{name: "throttled", err: &smithy.GenericAPIError{Code: "ThrottlingException"}, want: domain.ForwardThrottled},
		{name: "unavailable", err: &types.ServiceUnavailableException{}, want: domain.ForwardThrottled},
		{name: "unauthorized", err: &smithy.GenericAPIError{Code: "UnrecognizedClientException"}, want: domain.ForwardUnauthorized},
		{name: "access denied", err: &smithy.GenericAPIError{Code: "AccessDeniedException"}, want: domain.ForwardUnauthorized},
		{name: "missing stream", err: &types.ResourceNotFoundException{}, want: domain.ForwardNotFound},
		{name: "invalid parameter", err: &types.InvalidParameterException{}, want: domain.ForwardRejected},
		{name: "network", err: errors.New("connection reset by peer"), want: domain.ForwardOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBackendWithClient(&fakeClient{putErr: tt.err})

			err := b.PutLogEvents(context.Background(), dest, []domain.LogRecord{{Timestamp: 1, Message: "x"}})

			var fe *domain.ForwardError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.want, fe.Kind)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestBackend_PutLogEvents_RejectedInfo(t *testing.T) {
	b := NewBackendWithClient(&fakeClient{putOut: &cloudwatchlogs.PutLogEventsOutput{
		RejectedLogEventsInfo: &types.RejectedLogEventsInfo{TooOldLogEventEndIndex: aws.Int32(0)},
	}})

	err := b.PutLogEvents(context.Background(), dest, []domain.LogRecord{{Timestamp: 1, Message: "x"}})

	var fe *domain.ForwardError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, domain.ForwardRejected, fe.Kind)
	assert.Contains(t, err.Error(), "too old")
}

func TestClampMessage(t *testing.T) {
	assert.Equal(t, " ", clampMessage(""))
	assert.Equal(t, "hi", clampMessage("hi"))

	long := strings.Repeat("a", MaxMessageBytes+10)
	assert.Len(t, clampMessage(long), MaxMessageBytes)

	// A two-byte rune straddling the limit is dropped whole.
	straddle := strings.Repeat("a", MaxMessageBytes-1) + "é" + "tail"
	got := clampMessage(straddle)
	assert.Len(t, got, MaxMessageBytes-1)
	assert.True(t, strings.HasSuffix(got, "a"))
}

func TestNewBackend_AgainstEndpoint(t *testing.T) {
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_CONFIG_FILE", "/nonexistent")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/nonexistent")

	var (
		mu      sync.Mutex
		targets []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target := r.Header.Get("X-Amz-Target")
		mu.Lock()
		targets = append(targets, target)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/x-amz-json-1.1")

		switch target {
		case "Logs_20140328.CreateLogGroup":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"__type":"ResourceAlreadyExistsException","message":"The specified log group already exists"}`))
		case "Logs_20140328.PutLogEvents":
			var body struct {
				LogEvents []struct {
					Message string `json:"message"`
				} `json:"logEvents"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if len(body.LogEvents) == 1 && body.LogEvents[0].Message == "slow down" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"__type":"ThrottlingException","message":"Rate exceeded"}`))
				return
			}
			_, _ = w.Write([]byte(`{"nextSequenceToken":"1"}`))
		default:
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	defer server.Close()

	b, err := NewBackend(context.Background(), Config{
		Region:          "eu-west-1",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		Endpoint:        server.URL,
	})
	require.NoError(t, err)

	outcome, err := b.CreateLogGroup(context.Background(), "g")
	require.NoError(t, err)
	assert.Equal(t, domain.ProvisionAlreadyExists, outcome)

	outcome, err = b.CreateLogStream(context.Background(), "g", "s")
	require.NoError(t, err)
	assert.Equal(t, domain.ProvisionCreated, outcome)

	require.NoError(t, b.PutLogEvents(context.Background(), dest, []domain.LogRecord{{Timestamp: 1, Message: "hi"}}))

	err = b.PutLogEvents(context.Background(), dest, []domain.LogRecord{{Timestamp: 2, Message: "slow down"}})
	var fe *domain.ForwardError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, domain.ForwardThrottled, fe.Kind)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		"Logs_20140328.CreateLogGroup",
		"Logs_20140328.CreateLogStream",
		"Logs_20140328.PutLogEvents",
		"Logs_20140328.PutLogEvents",
	}, targets)
}
