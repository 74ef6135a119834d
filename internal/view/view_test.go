package view

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"flood-monitor/internal/registry"
)

func ids(cams []registry.CameraRecord) []int {
	out := make([]int, len(cams))
	for i, c := range cams {
		out[i] = c.ID
	}
	return out
}

func TestDeriveIdentity(t *testing.T) {
	cams := registry.SampleCameras()
	got := Derive(cams, Query{Category: CategoryAll})
	if !reflect.DeepEqual(got, cams) {
		t.Fatalf("identity view changed the list: %v", ids(got))
	}
}

func TestDeriveEmptyInput(t *testing.T) {
	got := Derive(nil, Query{Text: "x", Category: CategoryFlood, Sort: SortDesc})
	if len(got) != 0 {
		t.Fatalf("got %v", ids(got))
	}
}

func TestDeriveOnline(t *testing.T) {
	cams := registry.SampleCameras()
	got := Derive(cams, Query{Category: CategoryOnline})
	if len(got) > len(cams) {
		t.Fatalf("online view larger than input")
	}
	for _, c := range got {
		if c.Status != registry.StatusOnline {
			t.Errorf("camera %d is %s", c.ID, c.Status)
		}
	}
	if want := []int{1, 2, 3, 5, 6, 8, 9}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("ids = %v, want %v", ids(got), want)
	}
}

func TestDeriveFloodSorted(t *testing.T) {
	cams := registry.SampleCameras()

	desc := Derive(cams, Query{Category: CategoryFlood, Sort: SortDesc})
	for i := 1; i < len(desc); i++ {
		if desc[i-1].FloodLevel.Ordinal() < desc[i].FloodLevel.Ordinal() {
			t.Fatalf("desc order broken at %d: %v", i, ids(desc))
		}
	}
	if want := []int{2, 1, 7, 3, 9, 5}; !reflect.DeepEqual(ids(desc), want) {
		t.Errorf("desc ids = %v, want %v", ids(desc), want)
	}

	asc := Derive(cams, Query{Category: CategoryFlood, Sort: SortAsc})
	for i := 1; i < len(asc); i++ {
		if asc[i-1].FloodLevel.Ordinal() > asc[i].FloodLevel.Ordinal() {
			t.Fatalf("asc order broken at %d: %v", i, ids(asc))
		}
	}
	if want := []int{5, 3, 9, 1, 7, 2}; !reflect.DeepEqual(ids(asc), want) {
		t.Errorf("asc ids = %v, want %v", ids(asc), want)
	}
}

func TestDeriveFloodUnsortedKeepsOrder(t *testing.T) {
	got := Derive(registry.SampleCameras(), Query{Category: CategoryFlood})
	if want := []int{1, 2, 3, 5, 7, 9}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("ids = %v, want %v", ids(got), want)
	}
}

func TestSortIgnoredOutsideFloodCategory(t *testing.T) {
	cams := registry.SampleCameras()
	got := Derive(cams, Query{Category: CategoryAll, Sort: SortDesc})
	if !reflect.DeepEqual(ids(got), ids(cams)) {
		t.Errorf("sort applied to category all: %v", ids(got))
	}
}

func TestDeriveTextSearch(t *testing.T) {
	cams := registry.SampleCameras()

	got := Derive(cams, Query{Text: "广场", Category: CategoryAll})
	if want := []int{2, 5}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("广场 ids = %v, want %v", ids(got), want)
	}
	for _, c := range got {
		if !strings.Contains(c.Name, "广场") && !strings.Contains(c.Location, "广场") {
			t.Errorf("camera %d does not contain query", c.ID)
		}
	}

	// поиск по адресу
	got = Derive(cams, Query{Text: "88号", Category: CategoryAll})
	if want := []int{8}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("88号 ids = %v", ids(got))
	}

	if got := Derive(cams, Query{Text: "不存在的地点"}); len(got) != 0 {
		t.Errorf("unmatched query returned %v", ids(got))
	}
}

func TestDeriveCaseInsensitive(t *testing.T) {
	cams := []registry.CameraRecord{
		{ID: 1, Name: "Riverside Tunnel", Location: "Dock 4", Status: registry.StatusOnline},
		{ID: 2, Name: "Bridge", Location: "RIVERSIDE avenue", Status: registry.StatusOffline},
		{ID: 3, Name: "Mall", Location: "Center", Status: registry.StatusOnline},
	}
	got := Derive(cams, Query{Text: "rIvErSiDe", Category: CategoryAll})
	if want := []int{1, 2}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("ids = %v, want %v", ids(got), want)
	}
}

func TestDeriveDoesNotMutateInput(t *testing.T) {
	cams := registry.SampleCameras()
	before := ids(cams)
	out := Derive(cams, Query{Category: CategoryFlood, Sort: SortAsc})
	if !reflect.DeepEqual(ids(cams), before) {
		t.Fatalf("input reordered: %v", ids(cams))
	}
	for i := range out {
		if out[i].Streams != nil {
			out[i].Streams.MJPEGURL = "changed"
		}
	}
	if cams[8].Streams.MJPEGURL == "changed" {
		t.Fatal("output shares stream sources with input")
	}
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery("桥", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if q.Category != CategoryAll || q.Sort != SortNone || q.Text != "桥" {
		t.Errorf("q = %+v", q)
	}

	q, err = ParseQuery("", "FLOOD", "Desc")
	if err != nil || q.Category != CategoryFlood || q.Sort != SortDesc {
		t.Errorf("q = %+v, err = %v", q, err)
	}

	if _, err := ParseQuery("", "broken", ""); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("err = %v", err)
	}
	if _, err := ParseQuery("", "flood", "sideways"); !errors.Is(err, ErrUnknownSortOrder) {
		t.Errorf("err = %v", err)
	}
}
