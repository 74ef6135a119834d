package app

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"flood-monitor/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestApp(t *testing.T, vendor http.HandlerFunc) *Application {
	t.Helper()
	if vendor == nil {
		vendor = func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"code":"200","msg":"ok","data":{"accessToken":"at-1"}}`)
		}
	}
	srv := httptest.NewServer(vendor)
	t.Cleanup(srv.Close)

	cfg := config.GetDefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.Ezviz.BaseURL = srv.URL
	cfg.Ezviz.AppKey = "key"
	cfg.Ezviz.AppSecret = "secret"
	cfg.Ezviz.RequestTimeout = time.Second

	application, err := NewApplicationWithConfig(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewApplicationWithConfig: %v", err)
	}
	return application
}

func serve(t *testing.T, h http.Handler, method, path string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[http.CanonicalHeaderKey(k)] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouterHealth(t *testing.T) {
	application := newTestApp(t, nil)

	rec := serve(t, application.GetRouter(), http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"flood-monitor"`) {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestRouterRequestID(t *testing.T) {
	application := newTestApp(t, nil)
	router := application.GetRouter()

	rec := serve(t, router, http.MethodGet, "/health", nil)
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("request id not generated")
	}

	rec = serve(t, router, http.MethodGet, "/health", http.Header{RequestIDHeader: {"req-42"}})
	if got := rec.Header().Get(RequestIDHeader); got != "req-42" {
		t.Errorf("request id = %q", got)
	}
}

func TestRouterNoRoute(t *testing.T) {
	application := newTestApp(t, nil)

	rec := serve(t, application.GetRouter(), http.MethodGet, "/nope", nil)
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), `"path":"/nope"`) {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	application := newTestApp(t, nil)

	rec := serve(t, application.GetRouter(), http.MethodOptions, "/api/v1/cameras", http.Header{
		"Origin":                        {"http://dashboard.local"},
		"Access-Control-Request-Method": {"GET"},
	})
	if rec.Code != http.StatusNoContent && rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("Access-Control-Allow-Origin missing")
	}
}

func TestRouterMetrics(t *testing.T) {
	application := newTestApp(t, nil)
	router := application.GetRouter()

	serve(t, router, http.MethodGet, "/api/ezviz/getAccessToken", nil)

	rec := serve(t, router, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`flood_monitor_cameras_total{status="online"} 7`,
		`flood_monitor_vendor_requests_total{endpoint="token/get",result="ok"} 1`,
		`flood_monitor_token_refresh_total{result="ok"} 1`,
		`flood_monitor_feed_subscriptions 0`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestRouterCamerasEndToEnd(t *testing.T) {
	application := newTestApp(t, nil)

	rec := serve(t, application.GetRouter(), http.MethodGet, "/api/v1/cameras?filter=online", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"count":7`) {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func checkHealth(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatalf("health check %q: %v", service, err)
	}
	return resp.GetStatus()
}

func TestDualServerHealth(t *testing.T) {
	application := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":"10017","msg":"appKey not found"}`)
	})

	httpLis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	grpcLis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.serveListeners(ctx, httpLis, grpcLis) }()

	conn, err := grpc.NewClient(grpcLis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	client := healthpb.NewHealthClient(conn)

	if got := checkHealth(t, client, ""); got != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("overall = %v", got)
	}
	if got := checkHealth(t, client, EzvizHealthService); got != healthpb.HealthCheckResponse_UNKNOWN {
		t.Errorf("ezviz before token = %v", got)
	}

	resp, err := http.Get("http://" + httpLis.Addr().String() + "/api/ezviz/getAccessToken")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `"success":false`) {
		t.Errorf("token body = %s", body)
	}

	if got := checkHealth(t, client, EzvizHealthService); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("ezviz after failure = %v", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
