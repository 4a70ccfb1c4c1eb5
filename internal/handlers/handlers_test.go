package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"seatshare/internal/utils"
	"seatshare/pkg/logger"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveError(err error, debug bool) *httptest.ResponseRecorder {
	router := gin.New()
	router.GET("/", func(c *gin.Context) {
		respondError(c, logger.NewNop(), debug, err)
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()
	var resp utils.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestRespondErrorMapsKinds(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{utils.NewValidationError("Invalid ride ID"), http.StatusBadRequest, "Invalid ride ID"},
		{utils.NewNotFoundError("Booking"), http.StatusNotFound, "Booking not found"},
		{fmt.Errorf("reserve: %w", utils.NewInsufficientCapacityError(0)), http.StatusConflict, "Only 0 seats are available for booking"},
		{utils.NewDuplicateBookingError(), http.StatusConflict, utils.ErrDuplicateBooking},
		{utils.NewUnauthorizedError(utils.ErrNotRideDriver), http.StatusUnauthorized, utils.ErrNotRideDriver},
	}
	for _, tc := range cases {
		w := serveError(tc.err, false)
		resp := decode(t, w)
		if w.Code != tc.status || resp.Message != tc.message || resp.Success {
			t.Fatalf("%v: got %d %+v", tc.err, w.Code, resp)
		}
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	err := utils.NewInternalError("failed to list bookings", errors.New("connection pool exhausted"))

	resp := decode(t, serveError(err, false))
	if resp.Message != utils.ErrInternalServer {
		t.Fatalf("message leaked detail: %q", resp.Message)
	}

	resp = decode(t, serveError(err, true))
	if !strings.HasPrefix(resp.Message, utils.ErrInternalServer) || !strings.Contains(resp.Message, "connection pool exhausted") {
		t.Fatalf("debug message = %q", resp.Message)
	}
}

func TestHealth(t *testing.T) {
	checks := map[string]HealthCheck{
		"mongodb": func(ctx context.Context) error { return nil },
	}
	router := gin.New()
	router.GET("/health", NewHealthHandler("1.0.0", checks, logger.NewNop()).Health)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"mongodb":"up"`) {
		t.Fatalf("healthy = %d %s", w.Code, w.Body.String())
	}

	checks["redis"] = func(ctx context.Context) error { return errors.New("dial tcp: refused") }
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), `"redis":"down"`) {
		t.Fatalf("degraded = %d %s", w.Code, w.Body.String())
	}
}
