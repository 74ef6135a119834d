package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"flood-monitor/internal/ezviz"
	"flood-monitor/internal/registry"
	"flood-monitor/internal/view"
)

func newCameraService(t *testing.T) *CameraServiceImpl {
	t.Helper()
	reg, err := registry.New(registry.SampleCameras(), registry.SampleMarkers())
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}
	return NewCameraService(zaptest.NewLogger(t), reg)
}

func TestCameraServiceListFloodDesc(t *testing.T) {
	s := newCameraService(t)

	got := s.List(view.Query{Category: view.CategoryFlood, Sort: view.SortDesc})
	want := []int{2, 1, 7, 3, 9, 5}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, cam := range got {
		if cam.ID != want[i] {
			t.Errorf("position %d: id %d, want %d", i, cam.ID, want[i])
		}
		if cam.FloodText == "" || cam.FloodClass == "" {
			t.Errorf("camera %d missing flood display fields", cam.ID)
		}
	}
	if got[0].FloodClass != "flood-critical animated" {
		t.Errorf("critical class = %q", got[0].FloodClass)
	}
}

func TestCameraServiceGet(t *testing.T) {
	s := newCameraService(t)

	cam, ok := s.Get(4)
	if !ok {
		t.Fatal("camera 4 not found")
	}
	if cam.StatusText != "维护中" || cam.StatusClass != "status-maintenance" {
		t.Errorf("status fields = %q, %q", cam.StatusText, cam.StatusClass)
	}
	if cam.FloodText != "" || cam.FloodClass != "" {
		t.Errorf("camera without flood data has flood fields: %+v", cam)
	}

	if _, ok := s.Get(404); ok {
		t.Error("unknown id reported as found")
	}
}

func TestCameraServiceFloodLevels(t *testing.T) {
	levels := newCameraService(t).FloodLevels()
	if len(levels) != 4 {
		t.Fatalf("len = %d", len(levels))
	}
	for i, l := range levels {
		if l.Ordinal != i+1 {
			t.Errorf("%s ordinal = %d", l.Level, l.Ordinal)
		}
	}
	if levels[3].Text != "紧急内涝" || levels[3].Class != "flood-critical" {
		t.Errorf("critical = %+v", levels[3])
	}
}

func TestCameraServiceMarkers(t *testing.T) {
	s := newCameraService(t)
	s.now = func() time.Time { return time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC) }

	markers := s.Markers()
	if len(markers) != 6 {
		t.Fatalf("len = %d", len(markers))
	}
	first := markers[0]
	if first.TimeZone != "Asia/Shanghai" {
		t.Errorf("zone = %q", first.TimeZone)
	}
	if first.LocalTime != "2024-07-01T08:00:00+08:00" {
		t.Errorf("local time = %q", first.LocalTime)
	}
	if first.StatusText != "在线" {
		t.Errorf("status text = %q", first.StatusText)
	}
	if first.Dark || first.Sunrise == "" || first.Sunset == "" {
		t.Errorf("08:00 local should be daylight: %+v", first)
	}

	s.now = func() time.Time { return time.Date(2024, 7, 1, 14, 0, 0, 0, time.UTC) }
	if night := s.Markers()[0]; !night.Dark {
		t.Errorf("22:00 local should be dark: %+v", night)
	}
}

func TestSubscriptionRepository(t *testing.T) {
	r := NewSubscriptionRepository()
	r.Save(&Subscription{ID: "a", Query: view.Query{Category: view.CategoryAll}})
	r.Save(nil)

	if r.Count() != 1 {
		t.Fatalf("count = %d", r.Count())
	}
	if !r.UpdateQuery("a", view.Query{Category: view.CategoryOnline}) {
		t.Fatal("UpdateQuery on existing subscription failed")
	}
	if r.UpdateQuery("missing", view.Query{}) {
		t.Error("UpdateQuery on missing subscription succeeded")
	}

	at := time.Unix(1_700_000_000, 0)
	r.MarkPushed("a", at)
	sub, ok := r.Get("a")
	if !ok || sub.Query.Category != view.CategoryOnline || sub.Pushes != 1 || !sub.LastPush.Equal(at) {
		t.Errorf("subscription = %+v", sub)
	}
	if sub.Since.IsZero() {
		t.Error("Since not set")
	}

	r.Remove("a")
	if r.Count() != 0 || len(r.All()) != 0 {
		t.Error("subscription not removed")
	}
}

func newEzvizService(t *testing.T, handler http.HandlerFunc) *EzvizServiceImpl {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := ezviz.NewClient(ezviz.Config{
		BaseURL:   srv.URL,
		AppKey:    "key",
		AppSecret: "secret",
		Timeout:   time.Second,
	}, zaptest.NewLogger(t), nil)
	return NewEzvizService(zaptest.NewLogger(t), client)
}

func vendorOK(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	switch r.URL.Path {
	case "/token/get":
		fmt.Fprint(w, `{"code":"200","msg":"ok","data":{"accessToken":"at-1"}}`)
	case "/v2/live/address/get":
		fmt.Fprintf(w, `{"code":"200","msg":"ok","data":{"url":"hls://%s/%s/%s"}}`,
			r.PostForm.Get("deviceSerial"), r.PostForm.Get("channelNo"), r.PostForm.Get("expireTime"))
	case "/device/list":
		fmt.Fprintf(w, `{"code":"200","msg":"ok","data":{"pageSize":%q}}`, r.PostForm.Get("pageSize"))
	default:
		http.NotFound(w, r)
	}
}

func TestEzvizServiceAccessToken(t *testing.T) {
	s := newEzvizService(t, vendorOK)

	env := s.AccessToken(context.Background())
	if !env.Success || env.AccessToken != "at-1" || env.Error != "" {
		t.Fatalf("envelope = %+v", env)
	}
	if env.ExpireTime <= time.Now().UnixMilli() {
		t.Errorf("expireTime = %d", env.ExpireTime)
	}

	s.now = func() time.Time { return time.UnixMilli(1718000000000) }
	health := s.Health()
	if !health.OK() || !health.HasToken || health.Now != 1718000000000 {
		t.Errorf("health = %+v", health)
	}
}

func TestEzvizServiceAccessTokenFailure(t *testing.T) {
	s := newEzvizService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":"10017","msg":"appKey not found"}`)
	})

	env := s.AccessToken(context.Background())
	if env.Success || env.Error == "" {
		t.Errorf("envelope = %+v", env)
	}
	if s.Health().HasToken {
		t.Error("health reports token after failure")
	}
}

func TestEzvizServiceHLSURLDefaults(t *testing.T) {
	s := newEzvizService(t, vendorOK)

	url, err := s.HLSURL(context.Background(), "D37384593", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if url != "hls://D37384593/1/3600" {
		t.Errorf("url = %q", url)
	}

	if _, err := s.HLSURL(context.Background(), "", 1, 60); !errors.Is(err, ezviz.ErrMissingSerial) {
		t.Errorf("err = %v", err)
	}
}

func TestEzvizServiceDevicesDefaultPage(t *testing.T) {
	s := newEzvizService(t, vendorOK)

	data, err := s.Devices(context.Background(), -1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"pageSize":"50"}` {
		t.Errorf("data = %s", data)
	}
}
