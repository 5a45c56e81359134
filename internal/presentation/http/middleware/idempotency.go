package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/response"
	"github.com/sangkips/shopledger-api/pkg/apperror"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
	// IdempotencyPendingTTL bounds how long an unfinished request holds its key
	IdempotencyPendingTTL = time.Minute
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo   repository.IdempotencyRepository
	Logger *zap.Logger
	Now    func() time.Time
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func hashBody(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// Idempotency replays the stored response when a POST or DELETE arrives with
// an Idempotency-Key already seen on the same route. Reusing a key with a
// different body is a conflict. The key is reserved before the handler runs,
// so a duplicate arriving while the first is in flight is rejected with 409.
// Only 2xx responses are stored; any other outcome frees the key.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodDelete {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		var body []byte
		if c.Request.Body != nil {
			var err error
			body, err = io.ReadAll(c.Request.Body)
			if err != nil {
				response.BadRequest(c, "Unreadable request body")
				c.Abort()
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}
		requestHash := hashBody(body)
		endpoint := c.Request.Method + " " + c.Request.URL.Path
		ctx := c.Request.Context()

		existing, err := cfg.Repo.GetByKey(ctx, key, endpoint)
		if err != nil {
			log.Warn("idempotency lookup failed", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		if existing != nil {
			if !existing.IsExpired(now()) {
				if existing.RequestHash != requestHash {
					response.ErrorWithKind(c, http.StatusConflict, apperror.KindConflict,
						"Idempotency-Key was already used with a different request body")
					c.Abort()
					return
				}
				if existing.IsPending() {
					inFlight(c)
					return
				}
				c.Header("X-Idempotency-Replayed", "true")
				c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
				c.Abort()
				return
			}
			if err := cfg.Repo.DeleteExpired(ctx, now()); err != nil {
				log.Warn("idempotency cleanup failed", zap.Error(err))
			}
		}

		// The unique key/endpoint index lets exactly one concurrent request
		// through; the others see the pending reservation.
		ikey := &entity.IdempotencyKey{
			Key:         key,
			Endpoint:    endpoint,
			RequestHash: requestHash,
			ExpiresAt:   now().Add(IdempotencyPendingTTL),
		}
		reserved, err := cfg.Repo.Reserve(ctx, ikey)
		if err != nil {
			log.Warn("idempotency reserve failed", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !reserved {
			inFlight(c)
			return
		}

		blw := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			if err := cfg.Repo.Release(ctx, ikey.ID); err != nil {
				log.Warn("idempotency release failed", zap.String("key", key), zap.Error(err))
			}
			return
		}
		if err := cfg.Repo.Complete(ctx, ikey.ID, status, blw.body.String(), now().Add(IdempotencyKeyTTL)); err != nil {
			log.Warn("idempotency store failed", zap.String("key", key), zap.Error(err))
		}
	}
}

func inFlight(c *gin.Context) {
	response.ErrorWithKind(c, http.StatusConflict, apperror.KindConflict,
		"A request with this Idempotency-Key is still being processed")
	c.Abort()
}
