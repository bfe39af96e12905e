package grpc

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
	"github.com/msto63/dashscript/pkg/core/logging"
)

var info = &grpc.UnaryServerInfo{FullMethod: "/dashscript.v1.Editor/Apply"}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		code mdwerror.Code
		want codes.Code
	}{
		{mdwerror.CodeSyntax, codes.InvalidArgument},
		{mdwerror.CodeUnknownCommand, codes.InvalidArgument},
		{mdwerror.CodeInvalidInput, codes.InvalidArgument},
		{mdwerror.CodeNotFound, codes.NotFound},
		{mdwerror.CodeConflict, codes.Aborted},
		{mdwerror.CodeInvariant, codes.FailedPrecondition},
		{mdwerror.CodeStorage, codes.Unavailable},
		{mdwerror.CodeUnknown, codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.code))
		})
	}
}

func TestErrorInterceptor(t *testing.T) {
	icpt := ErrorInterceptor()

	_, err := icpt(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, mdwerror.New("document missing").WithCode(mdwerror.CodeNotFound)
	})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = icpt(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.PermissionDenied, "no")
	})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = icpt(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, errors.New("plain")
	})
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestRequestIDInterceptor(t *testing.T) {
	icpt := RequestIDInterceptor()

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "req-1"))
	var seen string
	_, err := icpt(ctx, nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		seen = GetRequestID(ctx)
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "req-1", seen)

	_, err = icpt(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		seen = GetRequestID(ctx)
		return nil, nil
	})
	require.NoError(t, err)
	assert.Len(t, seen, 36)
}

func TestRecoveryInterceptor(t *testing.T) {
	var buf bytes.Buffer
	log := logging.Wrap(logging.NewLogger(logging.LoggerConfig{Output: &buf}), "grpc")

	_, err := RecoveryInterceptor(log)(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		panic("boom")
	})
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Contains(t, buf.String(), "gRPC panic recovered")
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	log := logging.Wrap(logging.NewLogger(logging.LoggerConfig{Output: &buf}), "grpc")

	ctx := WithRequestID(context.Background(), "req-9")
	_, err := LoggingInterceptor(log)(ctx, nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"request_id":"req-9"`)
	assert.Contains(t, buf.String(), `"status":"OK"`)
}
