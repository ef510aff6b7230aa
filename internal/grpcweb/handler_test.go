package grpcweb

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"driver-scheduler/internal/events"
	"driver-scheduler/internal/rpc"
	"driver-scheduler/internal/service"
	"driver-scheduler/internal/store/sqlitestore"
)

func setup(t *testing.T) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	st, err := sqlitestore.Open(ctx, filepath.Join(t.TempDir(), "scheduler.db"))
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	svc := service.New(st, service.Options{Secret: "test-secret", Password: "driver123", Events: &events.Recorder{}})
	srv := rpc.NewServer(ctx, svc, nil)
	lis := bufconn.Listen(1 << 20)
	go srv.Serve(lis)

	b, err := New("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	if err != nil {
		t.Fatalf("bridge: %v", err)
	}
	t.Cleanup(func() {
		b.Close()
		srv.Stop()
		cancel()
		st.Close(context.Background())
	})
	return b.Handler()
}

func post(t *testing.T, h http.Handler, method, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/"+rpc.ServiceName+"/"+method, bytes.NewReader(frame(0, data)))
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// frames splits a grpc-web response into its data and trailer payloads.
func frames(t *testing.T, body []byte) (data []byte, trailer string) {
	t.Helper()
	for len(body) > 0 {
		if len(body) < 5 {
			t.Fatalf("short frame: %q", body)
		}
		n := binary.BigEndian.Uint32(body[1:5])
		payload := body[5 : 5+n]
		if body[0]&0x80 != 0 {
			trailer = string(payload)
		} else {
			data = payload
		}
		body = body[5+n:]
	}
	return data, trailer
}

func TestBridgeLogin(t *testing.T) {
	h := setup(t)

	w := post(t, h, "Login", "", service.Credentials{Password: "driver123"})
	data, trailer := frames(t, w.Body.Bytes())
	if !strings.HasPrefix(trailer, "grpc-status:0") {
		t.Fatalf("trailer: %q", trailer)
	}
	var res service.LoginResult
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Token == "" {
		t.Fatal("empty token")
	}

	w = post(t, h, "ListAppointmentTypes", res.Token, rpc.Empty{})
	data, trailer = frames(t, w.Body.Bytes())
	if !strings.HasPrefix(trailer, "grpc-status:0") {
		t.Fatalf("list trailer: %q", trailer)
	}
	var list rpc.TypeList
	if err := json.Unmarshal(data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
}

func TestBridgeErrors(t *testing.T) {
	h := setup(t)

	w := post(t, h, "ListAppointmentTypes", "", rpc.Empty{})
	_, trailer := frames(t, w.Body.Bytes())
	if trailer != "grpc-status:16\r\ngrpc-message:Not authenticated\r\n" {
		t.Errorf("trailer: %q", trailer)
	}

	req := httptest.NewRequest(http.MethodPost, "/"+rpc.ServiceName+"/Login", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("expected 415, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/"+rpc.ServiceName+"/Login", bytes.NewReader([]byte{0, 0}))
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if _, trailer := frames(t, rec.Body.Bytes()); !strings.HasPrefix(trailer, "grpc-status:3") {
		t.Errorf("short body trailer: %q", trailer)
	}
}

func TestTrailerMessageIsEscaped(t *testing.T) {
	h := setup(t)
	w := post(t, h, "Login", "", service.Credentials{Password: "driver123"})
	data, _ := frames(t, w.Body.Bytes())
	var res service.LoginResult
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = post(t, h, "UpdateAppointment", res.Token, map[string]any{
		"id":     "any",
		"status": "bad\r\ngrpc-status:0",
	})
	_, trailer := frames(t, w.Body.Bytes())
	want := "grpc-status:3\r\ngrpc-message:Invalid status: bad%0D%0Agrpc-status:0\r\n"
	if trailer != want {
		t.Errorf("trailer: %q", trailer)
	}
}

func TestEncodeMessage(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Not authenticated", "Not authenticated"},
		{"100%", "100%25"},
		{"a\r\nb", "a%0D%0Ab"},
		{"預約", "%E9%A0%90%E7%B4%84"},
	}
	for _, tt := range tests {
		if got := encodeMessage(tt.in); got != tt.want {
			t.Errorf("encodeMessage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.RemoteAddr = "198.51.100.4:51234"
	r.Header.Set("X-Forwarded-For", "10.0.0.1")
	if got := clientIP(r); got != "198.51.100.4" {
		t.Errorf("clientIP: %s", got)
	}
}
