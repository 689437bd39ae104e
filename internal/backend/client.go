package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/asif-kamal/storefront/internal/config"
	inHttp "github.com/asif-kamal/storefront/internal/http"
	"github.com/asif-kamal/storefront/internal/log"
	"github.com/asif-kamal/storefront/internal/otel"
	"github.com/asif-kamal/storefront/pkg/request"
	"github.com/asif-kamal/storefront/pkg/response"
)

// StatusError carries a non-2xx backend response to the caller with the
// raw body unmodified.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status=%d body=%s", e.StatusCode, string(e.Body))
}

type Client struct {
	baseURL            string
	searchFallbackSize int
	http               *http.Client
}

func NewClient(cfg config.Backend) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if cfg.TimeoutSeconds <= 0 {
		timeout = 30 * time.Second
	}
	fallbackSize := cfg.SearchFallbackSize
	if fallbackSize <= 0 {
		fallbackSize = 100
	}
	return &Client{
		baseURL:            strings.TrimRight(cfg.BaseURL, "/"),
		searchFallbackSize: fallbackSize,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
	}
}

type call struct {
	method         string
	path           string
	query          url.Values
	token          string
	idempotencyKey string
	body           interface{}
}

func (cl *Client) do(c context.Context, call call, out interface{}) error {
	c, span := otel.Tracer.Start(c, "BackendClient "+call.method+" "+call.path)
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "BackendClient do").
		Str(log.KeyRequestMethod, call.method).
		Str(log.KeyRequestURI, call.path).
		Logger()

	var reqBody io.Reader
	if call.body != nil {
		raw, err := json.Marshal(call.body)
		if err != nil {
			err = fmt.Errorf("failed marshaling request body with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
		reqBody = bytes.NewReader(raw)
	}

	endpoint := cl.baseURL + call.path
	if len(call.query) > 0 {
		endpoint += "?" + call.query.Encode()
	}

	req, err := http.NewRequestWithContext(c, call.method, endpoint, reqBody)
	if err != nil {
		err = fmt.Errorf("failed creating request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	req.Header.Set(inHttp.HeaderContentType, inHttp.HeaderValueJson)
	if call.token != "" {
		req.Header.Set(inHttp.HeaderAuthorization, "Bearer "+call.token)
	}
	if call.idempotencyKey != "" {
		req.Header.Set(inHttp.HeaderIdempotencyKey, call.idempotencyKey)
	}
	if requestID := log.RequestIDFromContext(c); requestID != "" {
		req.Header.Set(inHttp.HeaderRequestID, requestID)
	}

	logger = logger.With().Str(log.KeyProcess, "calling backend").Logger()
	logger.Info().Msgf("calling backend %s %s", call.method, call.path)
	resp, err := cl.http.Do(req)
	if err != nil {
		err = fmt.Errorf("failed calling backend with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("failed reading response body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		err := &StatusError{StatusCode: resp.StatusCode, Body: respBody}
		otel.RecordError(err, span)
		logger.Error().Err(err).Int(log.KeyStatusCode, resp.StatusCode).Msg(err.Error())
		return err
	}
	logger.Info().Int(log.KeyStatusCode, resp.StatusCode).Msgf("called backend %s %s", call.method, call.path)

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		err = fmt.Errorf("failed decoding response body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	return nil
}

func (cl *Client) Login(c context.Context, param request.Login) (response.Auth, error) {
	auth := response.Auth{}
	// the request type masks the password when marshaled for logging, so
	// the outbound body is assembled explicitly
	body := map[string]string{"username": param.Username, "password": param.Password}
	err := cl.do(c, call{method: http.MethodPost, path: "/auth/login", body: body}, &auth)
	if err != nil {
		return response.Auth{}, err
	}
	return auth, nil
}

func (cl *Client) Register(c context.Context, param request.Register) (response.Auth, error) {
	auth := response.Auth{}
	body := map[string]string{
		"firstName": param.FirstName,
		"lastName":  param.LastName,
		"email":     param.Email,
		"password":  param.Password,
	}
	err := cl.do(c, call{method: http.MethodPost, path: "/auth/register", body: body}, &auth)
	if err != nil {
		return response.Auth{}, err
	}
	return auth, nil
}

// VerifyEmail activates a pending registration. The backend answers a
// successful verification with an empty body; that counts as success.
func (cl *Client) VerifyEmail(c context.Context, param request.VerifyEmail) (response.Auth, error) {
	auth := response.Auth{}
	err := cl.do(c, call{method: http.MethodPost, path: "/auth/verify", body: param}, &auth)
	if err != nil {
		return response.Auth{}, err
	}
	return auth, nil
}

func (cl *Client) ResendVerification(c context.Context, param request.ResendVerification) error {
	return cl.do(c, call{method: http.MethodPost, path: "/auth/resend-verification", body: param}, nil)
}

func (cl *Client) Profile(c context.Context, token string) (response.Profile, error) {
	profile := response.Profile{}
	err := cl.do(c, call{method: http.MethodGet, path: "/user/profile", token: token}, &profile)
	if err != nil {
		return response.Profile{}, err
	}
	return profile, nil
}

func (cl *Client) UpdateProfile(
	c context.Context,
	token string,
	param request.UpdateProfile,
) (response.Profile, error) {
	profile := response.Profile{}
	err := cl.do(
		c,
		call{method: http.MethodPut, path: "/user/profile", token: token, body: param},
		&profile,
	)
	if err != nil {
		return response.Profile{}, err
	}
	return profile, nil
}

func (cl *Client) Electronics(c context.Context, page, size int) (response.ProductPage, error) {
	productPage := response.ProductPage{}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))
	err := cl.do(c, call{method: http.MethodGet, path: "/electronics", query: query}, &productPage)
	if err != nil {
		return response.ProductPage{}, err
	}
	return productPage, nil
}

func (cl *Client) Shop(c context.Context, size int) ([]response.Product, error) {
	productPage := response.ProductPage{}
	query := url.Values{}
	query.Set("size", strconv.Itoa(size))
	err := cl.do(
		c,
		call{method: http.MethodGet, path: "/electronics/shop", query: query},
		&productPage,
	)
	if err != nil {
		return nil, err
	}
	return productPage.Content, nil
}
