package constants

const (
	AppStorefrontGateway = "storefront-gateway"
)
