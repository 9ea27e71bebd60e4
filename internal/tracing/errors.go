package tracing

import (
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"intern-match-go/internal/types"
)

// ErrorType 错误分类，写入 span 的 error.type 属性
type ErrorType string

const (
	ErrorTypeHTTP          ErrorType = "http"
	ErrorTypeDB            ErrorType = "db"
	ErrorTypeRedis         ErrorType = "redis"
	ErrorTypeRabbitMQ      ErrorType = "rabbitmq"
	ErrorTypeObjectStorage ErrorType = "object_storage"
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeInternal      ErrorType = "internal"
)

// ClassifyError 根据业务错误推断分类，无法识别时返回 fallback
func ClassifyError(err error, fallback ErrorType) ErrorType {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return ErrorTypeNotFound
	case errors.Is(err, types.ErrInvalidStatus),
		errors.Is(err, types.ErrInvalidUpload),
		errors.Is(err, types.ErrInvalidInput):
		return ErrorTypeValidation
	default:
		return fallback
	}
}

// RecordError 在 span 上记录错误并设置状态
func RecordError(span trace.Span, err error, errorType ErrorType, attrs ...attribute.KeyValue) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetAttributes(
		attribute.String("error.type", string(errorType)),
		attribute.String("error.message", TruncateString(err.Error(), DefaultMaxLength)),
	)
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	span.SetStatus(codes.Error, err.Error())
}

// RecordHTTPError 记录 HTTP 边界上的错误，并按状态码区分客户端/服务端错误
func RecordHTTPError(span trace.Span, err error, statusCode int) {
	if span == nil || err == nil {
		return
	}
	category := "unknown"
	switch {
	case statusCode >= 400 && statusCode < 500:
		category = "client_error"
	case statusCode >= 500:
		category = "server_error"
	}
	RecordError(span, err, ClassifyError(err, ErrorTypeHTTP),
		attribute.Int("http.status_code", statusCode),
		attribute.String("error.category", category),
	)
}
