package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

type fakeVerifier struct{}

func (fakeVerifier) VerifyToken(raw string) (string, error) {
	if raw == "good" {
		return "driver", nil
	}
	if raw == "" {
		return "", errors.New("Not authenticated")
	}
	return "", errors.New("Invalid token")
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequireToken(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RequireToken(fakeVerifier{}))
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(string(UserKey))) })

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"missing", "", http.StatusUnauthorized, `{"detail":"Not authenticated"}`},
		{"not bearer", "Basic good", http.StatusUnauthorized, `{"detail":"Not authenticated"}`},
		{"bad", "Bearer nope", http.StatusUnauthorized, `{"detail":"Invalid token"}`},
		{"good", "Bearer good", http.StatusOK, "driver"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.code || w.Body.String() != tt.body {
				t.Errorf("got %d %s", w.Code, w.Body.String())
			}
			if w.Header().Get("X-Request-ID") == "" {
				t.Error("missing X-Request-ID")
			}
		})
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "abc-123" || w.Header().Get("X-Request-ID") != "abc-123" {
		t.Errorf("request id not propagated: %s", w.Body.String())
	}
}

func TestAuthInterceptor(t *testing.T) {
	icpt := Auth(fakeVerifier{}, map[string]bool{"/svc/Open": true})
	handler := func(ctx context.Context, req any) (any, error) {
		u, _ := ctx.Value(UserKey).(string)
		return u, nil
	}

	// open method needs no token
	if _, err := icpt(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Open"}, handler); err != nil {
		t.Fatalf("open method: %v", err)
	}

	info := &grpc.UnaryServerInfo{FullMethod: "/svc/Closed"}
	_, err := icpt(context.Background(), nil, info, handler)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer good"))
	got, err := icpt(ctx, nil, info, handler)
	if err != nil || got != "driver" {
		t.Fatalf("authed call: %v %v", got, err)
	}
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rl := NewRateLimiter(ctx, 0.001, 2)

	r := gin.New()
	r.Use(RateLimitHTTP(rl))
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	got := []int{}
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		got = append(got, w.Code)
	}
	if got[0] != 200 || got[1] != 200 || got[2] != http.StatusTooManyRequests {
		t.Errorf("burst of 2 then 429, got %v", got)
	}

	// another client has its own bucket
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("second client limited: %d", w.Code)
	}
}

func TestRateLimitInterceptor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rl := NewRateLimiter(ctx, 0.001, 1)
	icpt := RateLimit(rl, map[string]bool{"/svc/Login": true})
	ok := func(ctx context.Context, req any) (any, error) { return nil, nil }

	login := &grpc.UnaryServerInfo{FullMethod: "/svc/Login"}
	if _, err := icpt(context.Background(), nil, login, ok); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := icpt(context.Background(), nil, login, ok); status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("expected ResourceExhausted, got %v", err)
	}
	other := &grpc.UnaryServerInfo{FullMethod: "/svc/List"}
	if _, err := icpt(context.Background(), nil, other, ok); err != nil {
		t.Fatalf("unlimited method: %v", err)
	}
}

func TestRateLimitKeysOnClientHost(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rl := NewRateLimiter(ctx, 0.001, 1)
	icpt := RateLimit(rl, map[string]bool{"/svc/Login": true})
	ok := func(ctx context.Context, req any) (any, error) { return nil, nil }
	login := &grpc.UnaryServerInfo{FullMethod: "/svc/Login"}

	from := func(addr string, fwd string) context.Context {
		host, port, _ := net.SplitHostPort(addr)
		p, _ := strconv.Atoi(port)
		c := peer.NewContext(context.Background(), &peer.Peer{Addr: &net.TCPAddr{IP: net.ParseIP(host), Port: p}})
		if fwd != "" {
			c = metadata.NewIncomingContext(c, metadata.Pairs(ForwardedForKey, fwd))
		}
		return c
	}

	// same host, new source port: one bucket
	if _, err := icpt(from("203.0.113.7:5000", ""), nil, login, ok); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := icpt(from("203.0.113.7:5001", ""), nil, login, ok); status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("port change should share the bucket, got %v", err)
	}

	// bridged browsers get their own buckets
	if _, err := icpt(from("127.0.0.1:6000", "198.51.100.1"), nil, login, ok); err != nil {
		t.Fatalf("browser 1: %v", err)
	}
	if _, err := icpt(from("127.0.0.1:6000", "198.51.100.2"), nil, login, ok); err != nil {
		t.Fatalf("browser 2 should not share browser 1's bucket: %v", err)
	}
	if _, err := icpt(from("127.0.0.1:6000", "198.51.100.1"), nil, login, ok); status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("browser 1 second call: %v", err)
	}

	// forwarded addresses from remote peers are ignored
	if _, err := icpt(from("203.0.113.7:5002", "198.51.100.9"), nil, login, ok); status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("spoofed forward should not get a fresh bucket, got %v", err)
	}
}
