package log

const (
	KeyAppName        = "app"
	KeyRequestID      = "requestId"
	KeyProcess        = "process"
	KeyTag            = "tag"
	KeyConfig         = "config"
	KeyRequestBody    = "requestBody"
	KeyRequestHost    = "host"
	KeyRequestIp      = "requesterIP"
	KeyRequestMethod  = "requestMethod"
	KeyRequestURI     = "requestURI"
	KeyRequestURL     = "requestURL"
	KeySessionID      = "sessionId"
	KeyEmail          = "email"
	KeyUserID         = "userId"
	KeyProductID      = "productId"
	KeyCart           = "cart"
	KeyCartItems      = "cartItems"
	KeyOrderTotal     = "orderTotal"
	KeyIdempotencyKey = "idempotencyKey"
	KeyCacheKey       = "cacheKey"
	KeyQuery          = "query"
	KeyPage           = "page"
	KeyPageSize       = "pageSize"
	KeyStatusCode     = "statusCode"
	KeyCallbackState  = "callbackState"
)
