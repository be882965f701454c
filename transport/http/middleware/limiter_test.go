package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"rento/config"
	otelMocks "rento/infras/otel/mocks"
	cacheMocks "rento/shared/cache/mocks"
	"rento/transport/http/middleware"
)

func limiterConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	return cfg
}

func limited(t *testing.T, cfg *config.Config, expect func(*cacheMocks.MockRedisCache)) http.Handler {
	t.Helper()

	store := cacheMocks.NewMockRedisCache(gomock.NewController(t))
	expect(store)

	limiter := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, store).RateLimit()

	return limiter(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestRateLimit_CountsPerClient(t *testing.T) {
	handler := limited(t, limiterConfig(), func(store *cacheMocks.MockRedisCache) {
		gomock.InOrder(
			store.EXPECT().Increment(gomock.Any(), "limiter:10.0.0.7:rento-app", 60).Return(int64(1), nil),
			store.EXPECT().Increment(gomock.Any(), "limiter:10.0.0.7:rento-app", 60).Return(int64(3), nil),
		)
	})

	request := func() *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/v1/items", nil)
		r.RemoteAddr = "10.0.0.7:51234"
		r.Header.Set("User-Agent", "rento-app")

		return r
	}

	res := do(handler, request())
	assert.Equal(t, http.StatusNoContent, res.Code)
	assert.Equal(t, "2", res.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", res.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", res.Header().Get("X-RateLimit-Window"))

	res = do(handler, request())
	assert.Equal(t, http.StatusTooManyRequests, res.Code)
	assert.Equal(t, "0", res.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_FailsOpen(t *testing.T) {
	handler := limited(t, limiterConfig(), func(store *cacheMocks.MockRedisCache) {
		store.EXPECT().Increment(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("dial tcp: connection refused"))
	})

	res := do(handler, httptest.NewRequest(http.MethodGet, "/v1/items", nil))
	assert.Equal(t, http.StatusNoContent, res.Code)
	assert.Empty(t, res.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimit_Disabled(t *testing.T) {
	handler := limited(t, &config.Config{}, func(*cacheMocks.MockRedisCache) {})

	res := do(handler, httptest.NewRequest(http.MethodGet, "/v1/items", nil))
	assert.Equal(t, http.StatusNoContent, res.Code)
}
