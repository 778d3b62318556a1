package middleware

import (
	"bytes"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"donor-reconciler/internal/core/ports"
	"donor-reconciler/pkg/apperror"
	"donor-reconciler/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// Relay authentication headers (donation app -> PayPal endpoint)
	HeaderSignature = "X-Signature"
	HeaderTimestamp = "X-Timestamp"
	HeaderNonce     = "X-Nonce"

	// Gateway signature headers
	HeaderStripeSignature     = "Stripe-Signature"
	HeaderGoCardlessSignature = "Webhook-Signature"

	HeaderRequestID = "X-Request-ID"

	// Max timestamp drift allowed (60 seconds)
	maxTimestampDrift = 60 * time.Second

	// Nonce TTL (120 seconds)
	nonceTTL = 120 * time.Second

	// Context keys
	CtxOperator = "operator"
	CtxRawBody  = "raw_body"
)

// RawBody returns the body captured by a verifying middleware.
func RawBody(c *gin.Context) ([]byte, bool) {
	v, ok := c.Get(CtxRawBody)
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}

// captureBody reads the body once, restores it and stores a copy in the
// context for handlers.
func captureBody(c *gin.Context) ([]byte, error) {
	if c.Request.Body == nil {
		c.Set(CtxRawBody, []byte{})
		return []byte{}, nil
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperror.ErrPayloadTooLarge()
		}
		return nil, apperror.Validation("cannot read request body")
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	c.Set(CtxRawBody, body)
	return body, nil
}

func abort(c *gin.Context, err error) {
	response.Error(c, err)
	c.Abort()
}

// StripeSignature verifies the Stripe-Signature header against the raw body.
func StripeSignature(sigSvc ports.SignatureService, secret string, tolerance time.Duration, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(HeaderStripeSignature)
		if header == "" || secret == "" {
			abort(c, apperror.ErrInvalidWebhookSignature())
			return
		}
		body, err := captureBody(c)
		if err != nil {
			abort(c, err)
			return
		}
		if err := sigSvc.VerifyStripe(secret, header, body, tolerance); err != nil {
			log.Warn().Err(err).Str("client_ip", c.ClientIP()).Msg("stripe signature rejected")
			abort(c, apperror.ErrInvalidWebhookSignature())
			return
		}
		c.Next()
	}
}

// GoCardlessSignature verifies the hex HMAC-SHA256 of the raw body.
func GoCardlessSignature(sigSvc ports.SignatureService, secret string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		signature := c.GetHeader(HeaderGoCardlessSignature)
		if signature == "" || secret == "" {
			abort(c, apperror.ErrInvalidWebhookSignature())
			return
		}
		body, err := captureBody(c)
		if err != nil {
			abort(c, err)
			return
		}
		if !sigSvc.Verify(secret, string(body), signature) {
			log.Warn().Str("client_ip", c.ClientIP()).Msg("gocardless signature rejected")
			abort(c, apperror.ErrInvalidWebhookSignature())
			return
		}
		c.Next()
	}
}

// RelayHMACAuth authenticates requests relayed by the donation app.
// Pipeline: Check timestamp -> Check nonce -> Verify signature.
func RelayHMACAuth(
	scope string,
	secret string,
	sigSvc ports.SignatureService,
	nonceStore ports.NonceStore,
	log zerolog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		signature := c.GetHeader(HeaderSignature)
		timestampStr := c.GetHeader(HeaderTimestamp)
		nonce := c.GetHeader(HeaderNonce)

		if signature == "" || timestampStr == "" || nonce == "" || secret == "" {
			abort(c, apperror.ErrMissingRelayHeaders())
			return
		}

		// Step 1: Timestamp check
		timestamp, err := strconv.ParseInt(timestampStr, 10, 64)
		if err != nil {
			abort(c, apperror.ErrTimestampExpired())
			return
		}
		now := time.Now().Unix()
		if math.Abs(float64(now-timestamp)) > maxTimestampDrift.Seconds() {
			abort(c, apperror.ErrTimestampExpired())
			return
		}

		// Step 2: Nonce
		isNew, err := nonceStore.CheckAndSet(c.Request.Context(), scope, nonce, nonceTTL)
		if err != nil {
			log.Warn().Err(err).Msg("nonce store error, allowing request")
		} else if !isNew {
			abort(c, apperror.ErrNonceUsed())
			return
		}

		// Step 3: Signature verification
		body, err := captureBody(c)
		if err != nil {
			abort(c, err)
			return
		}
		canonical := sigSvc.BuildCanonicalString(
			c.Request.Method,
			c.Request.URL.Path,
			timestamp,
			nonce,
			string(body),
		)
		if !sigSvc.Verify(secret, canonical, signature) {
			abort(c, apperror.ErrInvalidSignature())
			return
		}

		c.Next()
	}
}

// JWTAuth validates operator bearer tokens.
func JWTAuth(tokenSvc ports.TokenService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || tokenStr == "" {
			abort(c, apperror.ErrInvalidToken())
			return
		}

		claims, err := tokenSvc.Validate(tokenStr)
		if err != nil {
			log.Debug().Err(err).Msg("operator token rejected")
			abort(c, apperror.ErrInvalidToken())
			return
		}

		c.Set(CtxOperator, claims.Subject)
		c.Next()
	}
}

// RequestID propagates X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.New().String()
		}
		c.Set(response.RequestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(response.RequestIDKey)).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error_code": "SYS_001",
					"message":    "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// RequestObserver records HTTP request metrics.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// Metrics reports every request under its route pattern so ids in paths do
// not explode label cardinality.
func Metrics(observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observer.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
