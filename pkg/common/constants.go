package common

const (
	RedisKeyMarketDataProfile = "market_data:profile:%s"

	// Echo context keys.
	ContextKeyPrincipal = "principal"

	HeaderRequestID = "X-Request-ID"
)
