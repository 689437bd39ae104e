package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/asif-kamal/storefront/internal/constants"
)

var Tracer = otel.Tracer(constants.AppStorefrontGateway)
