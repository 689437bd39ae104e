package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/asif-kamal/storefront/internal/backend"
	"github.com/asif-kamal/storefront/internal/cart"
	"github.com/asif-kamal/storefront/internal/checkout"
	"github.com/asif-kamal/storefront/internal/config"
	"github.com/asif-kamal/storefront/internal/constants"
	"github.com/asif-kamal/storefront/internal/controller"
	inErrors "github.com/asif-kamal/storefront/internal/errors"
	"github.com/asif-kamal/storefront/internal/infra"
	"github.com/asif-kamal/storefront/internal/log"
	"github.com/asif-kamal/storefront/internal/middleware"
	"github.com/asif-kamal/storefront/internal/oauth"
	"github.com/asif-kamal/storefront/internal/otel"
	"github.com/asif-kamal/storefront/internal/session"
	"github.com/asif-kamal/storefront/internal/token"
)

func RunGatewayService(c context.Context) {
	c, span := otel.Tracer.Start(c, "RunGatewayService")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.AppStorefrontGateway).
		Str(log.KeyTag, "main RunGatewayService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "init config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.InitConfig(c, constants.AppStorefrontGateway)
	logger = logger.With().Any(log.KeyConfig, cfg).Logger()
	logger.Info().Msg("initialized config")

	sessionTTL := time.Duration(cfg.Session.TTLMinutes) * time.Minute
	if cfg.Session.TTLMinutes <= 0 {
		sessionTTL = 24 * time.Hour
	}
	cookieName := cfg.Session.CookieName
	if cookieName == "" {
		cookieName = session.DefaultCookieName
	}

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := mux.NewRouter()
	router.Use(
		otelmux.Middleware(constants.AppStorefrontGateway),
		middleware.Logging,
		middleware.RecoverPanic,
		middleware.Session(cookieName, sessionTTL),
	)
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := otel.InitOtelSdk(c, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		c = logger.WithContext(c)
		err = otel.ShutdownOtel(c, otelShutdowns)
		if err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	c = logger.WithContext(c)
	cache := infra.NewCacheClient(c, cfg.Cache)
	defer func() {
		logger = logger.With().Str(log.KeyProcess, "shutting down cache").Logger()
		logger.Info().Msg("shutting down cache")
		err = cache.Close()
		if err != nil {
			err = fmt.Errorf("failed shutting down cache with error=%w", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown cache")
	}()
	logger.Info().Msg("initialized cache")

	logger = logger.With().Str(log.KeyProcess, "initializing backend client").Logger()
	logger.Info().Msg("initializing backend client")
	backendClient := backend.NewClient(cfg.Backend)
	logger.Info().Msg("initialized backend client")

	logger = logger.With().Str(log.KeyProcess, "initializing stores").Logger()
	logger.Info().Msg("initializing stores")
	tokens := token.NewStore(cache, sessionTTL)
	carts := cart.NewStore(cache, sessionTTL)
	carts.Subscribe(func(sessionID string, crt cart.Cart) {
		logger.Debug().
			Str(log.KeySessionID, sessionID).
			Int32(log.KeyCartItems, crt.Count()).
			Str(log.KeyOrderTotal, crt.Total().String()).
			Msg("cart changed")
	})
	logger.Info().Msg("initialized stores")

	logger = logger.With().Str(log.KeyProcess, "initializing checkout service").Logger()
	logger.Info().Msg("initializing checkout service")
	checkoutService := checkout.NewService(backendClient, carts, tokens, cache)
	logger.Info().Msg("initialized checkout service")

	logger = logger.With().Str(log.KeyProcess, "initializing oauth handler").Logger()
	logger.Info().Msg("initializing oauth handler")
	oauthHandler := oauth.NewHandler(tokens, cache, cfg.Oauth)
	logger.Info().Msg("initialized oauth handler")

	logger = logger.With().Str(log.KeyProcess, "initializing controllers").Logger()
	logger.Info().Msg("initializing controllers")
	controller.AttachAuthController(router, backendClient, tokens)
	controller.AttachCatalogController(router, backendClient)
	controller.AttachCartController(router, carts, tokens)
	controller.AttachCheckoutController(router, checkoutService, tokens)
	controller.AttachAccountController(router, backendClient, tokens)
	controller.AttachOauthController(router, oauthHandler)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	logger.Info().Msg("initialized controllers")

	logger = logger.With().Str(log.KeyProcess, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	httpServer := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      router,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}
	logger.Info().Msg("initialized server")

	go func() {
		logger = logger.With().Str(log.KeyProcess, "start server").Logger()
		logger.Info().Msgf("start listening request at %s", httpServer.Addr)

		logger = logger.With().Str(log.KeyProcess, "shutdown server").Logger()
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("error=%w occured while server is running", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())

			c = logger.WithContext(c)
			if err := otel.ShutdownOtel(c, otelShutdowns); err != nil {
				err = fmt.Errorf("failed shutting down otel with error=%w", err)
				inErrors.HandleError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				return
			}
			return
		}
		logger.Info().Msg("shutdown server")
	}()

	<-c.Done()
	logger = logger.With().Str(log.KeyProcess, "shutdown server").Logger()
	logger.Info().Msg("received interuption signal shutting down")

	logger = logger.With().Str(log.KeyProcess, "shutting down http server").Logger()
	logger.Info().Msg("shutting down http server")
	err = httpServer.Shutdown(c)
	if err != nil {
		err = fmt.Errorf("failed shutting down http server with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("shutdown http server")
}
