package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"seatshare/internal/utils"
	"seatshare/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-secret"

func newAuthRouter() *gin.Engine {
	router := gin.New()
	router.GET("/me", AuthRequired(testSecret), func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		c.String(http.StatusOK, id.Hex()+" "+c.GetString(utils.ContextUserRole))
	})
	return router
}

func TestAuthRequired(t *testing.T) {
	userID := primitive.NewObjectID()
	valid, err := utils.GenerateToken(userID.Hex(), "driver", "", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	badSubject, _ := utils.GenerateToken("not-an-id", "driver", "", testSecret, time.Hour)
	wrongKey, _ := utils.GenerateToken(userID.Hex(), "driver", "", "other", time.Hour)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + valid, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Token " + valid, http.StatusUnauthorized},
		{"wrong key", "Bearer " + wrongKey, http.StatusUnauthorized},
		{"bad subject", "Bearer " + badSubject, http.StatusUnauthorized},
	}

	router := newAuthRouter()
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != tc.status {
			t.Fatalf("%s: status = %d, want %d", tc.name, w.Code, tc.status)
		}
		if tc.status == http.StatusOK && w.Body.String() != userID.Hex()+" driver" {
			t.Fatalf("%s: body = %q", tc.name, w.Body.String())
		}
	}
}

type fakeCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func (f *fakeCounter) IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	return f.counts[key], 30 * time.Second, nil
}

func TestRateLimit(t *testing.T) {
	counter := &fakeCounter{counts: make(map[string]int64)}
	router := gin.New()
	router.POST("/bookings", RateLimit(counter, 2, time.Minute, logger.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	for i, want := range []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bookings", nil))
		if w.Code != want {
			t.Fatalf("request %d: status = %d, want %d", i+1, w.Code, want)
		}
		if want == http.StatusTooManyRequests && w.Header().Get("Retry-After") != "30" {
			t.Fatalf("Retry-After = %q", w.Header().Get("Retry-After"))
		}
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	counter := &fakeCounter{err: errors.New("redis: connection refused")}
	router := gin.New()
	router.POST("/bookings", RateLimit(counter, 1, time.Minute, logger.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bookings", nil))
		if w.Code != http.StatusCreated {
			t.Fatalf("request %d: status = %d", i+1, w.Code)
		}
	}
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(utils.ContextRequestID))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Body.Len() == 0 || w.Header().Get("X-Request-ID") != w.Body.String() {
		t.Fatalf("generated id = %q, header = %q", w.Body.String(), w.Header().Get("X-Request-ID"))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Body.String() != "abc-123" {
		t.Fatalf("propagated id = %q", w.Body.String())
	}
}
