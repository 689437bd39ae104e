package http

const (
	HeaderContentType    = "Content-Type"
	HeaderValueJson      = "application/json"
	HeaderAuthorization  = "Authorization"
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderRequestID      = "X-Request-Id"
)
