package reqmeta

import "context"

type RequestMetadata struct {
	RequestID string
	HTTPMetadata
}

type HTTPMetadata struct {
	Method *string
	URL    *string
}

type Option func(*RequestMetadata)

func NewRequestMetadata(requestID string, options ...Option) *RequestMetadata {
	rm := &RequestMetadata{
		RequestID: requestID,
	}

	for _, option := range options {
		option(rm)
	}

	return rm
}

func WithHTTPMetadata(hmd HTTPMetadata) Option {
	return func(rm *RequestMetadata) {
		rm.HTTPMetadata = hmd
	}
}

type requestMetadataKey struct{}

func NewContext(ctx context.Context, rm *RequestMetadata) context.Context {
	return context.WithValue(ctx, requestMetadataKey{}, rm)
}

// FromContext returns nil when ctx carries no metadata.
func FromContext(ctx context.Context) *RequestMetadata {
	rm, _ := ctx.Value(requestMetadataKey{}).(*RequestMetadata)
	return rm
}

// RequestID is empty when ctx carries no metadata.
func RequestID(ctx context.Context) string {
	if rm := FromContext(ctx); rm != nil {
		return rm.RequestID
	}
	return ""
}
