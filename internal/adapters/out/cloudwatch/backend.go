// Package cloudwatch implements the logging backend adapter over the AWS SDK
// v2 CloudWatch Logs client.
package cloudwatch

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/aws/smithy-go"
	"github.com/bnema/zerowrap"

	"logrelay/internal/domain"
)

// MaxMessageBytes is the largest message CloudWatch accepts in one event
// (256 KiB minus the 26 byte per-event overhead).
const MaxMessageBytes = 262144 - 26

// Client is the subset of the CloudWatch Logs API the backend uses.
type Client interface {
	CreateLogGroup(ctx context.Context, params *cloudwatchlogs.CreateLogGroupInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error)
	CreateLogStream(ctx context.Context, params *cloudwatchlogs.CreateLogStreamInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error)
	PutLogEvents(ctx context.Context, params *cloudwatchlogs.PutLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error)
}

// Config holds the connection settings for CloudWatch Logs.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	// Endpoint overrides the service endpoint (LocalStack and similar).
	Endpoint string
}

// Backend implements the LogBackend interface.
type Backend struct {
	client Client
}

// NewBackend loads an AWS configuration and creates a CloudWatch Logs
// client. Static credentials are used when an access key is given;
// otherwise the default credential chain applies. SDK retries are disabled.
func NewBackend(ctx context.Context, cfg Config) (*Backend, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
		config.WithRetryMaxAttempts(1),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := cloudwatchlogs.NewFromConfig(awsCfg, func(o *cloudwatchlogs.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewBackendWithClient(client), nil
}

// NewBackendWithClient creates a backend over an existing client (for testing).
func NewBackendWithClient(client Client) *Backend {
	return &Backend{client: client}
}

func (b *Backend) logCtx(ctx context.Context, action string, fields map[string]any) (context.Context, zerowrap.Logger) {
	all := map[string]any{
		zerowrap.FieldLayer:   "adapter",
		zerowrap.FieldAdapter: "cloudwatch",
		zerowrap.FieldAction:  action,
	}
	for k, v := range fields {
		all[k] = v
	}
	ctx = zerowrap.CtxWithFields(ctx, all)
	return ctx, zerowrap.FromCtx(ctx)
}

// CreateLogGroup creates a log group. An existing group is reported as
// domain.ProvisionAlreadyExists, not as an error.
func (b *Backend) CreateLogGroup(ctx context.Context, group string) (domain.ProvisionOutcome, error) {
	ctx, log := b.logCtx(ctx, "CreateLogGroup", map[string]any{"log_group": group})

	_, err := b.client.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{
		LogGroupName: aws.String(group),
	})
	if isAlreadyExists(err) {
		return domain.ProvisionAlreadyExists, nil
	}
	if err != nil {
		return "", log.WrapErr(err, "failed to create log group")
	}
	return domain.ProvisionCreated, nil
}

// CreateLogStream creates a log stream inside group. An existing stream is
// reported as domain.ProvisionAlreadyExists, not as an error.
func (b *Backend) CreateLogStream(ctx context.Context, group, stream string) (domain.ProvisionOutcome, error) {
	ctx, log := b.logCtx(ctx, "CreateLogStream", map[string]any{
		"log_group":  group,
		"log_stream": stream,
	})

	_, err := b.client.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  aws.String(group),
		LogStreamName: aws.String(stream),
	})
	if isAlreadyExists(err) {
		return domain.ProvisionAlreadyExists, nil
	}
	if err != nil {
		return "", log.WrapErr(err, "failed to create log stream")
	}
	return domain.ProvisionCreated, nil
}

// PutLogEvents appends records to dest in the given order. Failures are
// returned as *domain.ForwardError.
func (b *Backend) PutLogEvents(ctx context.Context, dest domain.LogDestination, records []domain.LogRecord) error {
	ctx, log := b.logCtx(ctx, "PutLogEvents", map[string]any{
		"log_group":         dest.Group,
		"log_stream":        dest.Stream,
		zerowrap.FieldCount: len(records),
	})

	events := make([]types.InputLogEvent, 0, len(records))
	for _, r := range records {
		events = append(events, types.InputLogEvent{
			Timestamp: aws.Int64(r.Timestamp),
			Message:   aws.String(clampMessage(r.Message)),
		})
	}

	resp, err := b.client.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  aws.String(dest.Group),
		LogStreamName: aws.String(dest.Stream),
		LogEvents:     events,
	})
	if err != nil {
		fe := classify(err)
		log.Debug().Err(err).Str("kind", string(fe.Kind)).Msg("put log events failed")
		return fe
	}
	if err := rejected(resp.RejectedLogEventsInfo); err != nil {
		log.Debug().Err(err).Msg("log events rejected")
		return &domain.ForwardError{Kind: domain.ForwardRejected, Err: err}
	}
	return nil
}

func isAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	var exists *types.ResourceAlreadyExistsException
	if errors.As(err, &exists) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceAlreadyExistsException"
}

// classify maps a CloudWatch error onto the forward failure kinds.
func classify(err error) *domain.ForwardError {
	kind := domain.ForwardOther

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "ServiceUnavailableException", "LimitExceededException":
			kind = domain.ForwardThrottled
		case "UnrecognizedClientException", "AccessDeniedException", "ExpiredTokenException",
			"InvalidClientTokenId", "InvalidSignatureException":
			kind = domain.ForwardUnauthorized
		case "ResourceNotFoundException":
			kind = domain.ForwardNotFound
		case "InvalidParameterException", "DataAlreadyAcceptedException", "InvalidSequenceTokenException":
			kind = domain.ForwardRejected
		}
	}

	return &domain.ForwardError{Kind: kind, Err: err}
}

func rejected(info *types.RejectedLogEventsInfo) error {
	if info == nil {
		return nil
	}
	switch {
	case info.TooNewLogEventStartIndex != nil:
		return fmt.Errorf("event too new (start index %d)", *info.TooNewLogEventStartIndex)
	case info.TooOldLogEventEndIndex != nil:
		return fmt.Errorf("event too old (end index %d)", *info.TooOldLogEventEndIndex)
	case info.ExpiredLogEventEndIndex != nil:
		return fmt.Errorf("event expired (end index %d)", *info.ExpiredLogEventEndIndex)
	}
	return nil
}

// clampMessage makes msg acceptable to CloudWatch: empty messages become a
// single space and oversized ones are cut on a rune boundary.
func clampMessage(msg string) string {
	if msg == "" {
		return " "
	}
	if len(msg) <= MaxMessageBytes {
		return msg
	}
	cut := MaxMessageBytes
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return msg[:cut]
}
