package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	// Should be centered on world
	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected camera at (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	sx, sy := cam.WorldToScreen(1280, 720)
	if math.Abs(sx-640) > 0.01 || math.Abs(sy-360) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(1.7)

	testCases := []struct{ sx, sy float64 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(sx-tc.sx) > 0.01 || math.Abs(sy-tc.sy) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestToroidalWrap(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.X = 100 // Near left edge

	// Entity at world right edge is closer via the wrap
	sx, _ := cam.WorldToScreen(2500, 720)
	if sx >= 640 {
		t.Errorf("expected entity on left of screen, got x=%f", sx)
	}
}

func TestPanEasesAndWraps(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.X, cam.TargetX = 100, 100

	cam.Pan(-200, 0)
	if cam.TargetX != 2460 {
		t.Errorf("expected target to wrap to 2460, got %f", cam.TargetX)
	}
	if cam.X != 100 {
		t.Errorf("pan should only move the target, X = %f", cam.X)
	}

	cam.Update()
	// 10% of the shortest path (-200) from 100
	if math.Abs(cam.X-80) > 1e-9 {
		t.Errorf("expected X eased to 80, got %f", cam.X)
	}
}

func TestZoomClamp(t *testing.T) {
	tests := []struct {
		name string
		zoom float64
		want float64
	}{
		{"below min", 0.1, MinZoom},
		{"in range", 1.5, 1.5},
		{"above max", 10, MaxZoom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := New(1280, 720, 2560, 1440)
			cam.SetZoom(tt.zoom)
			if cam.Zoom != tt.want {
				t.Errorf("zoom = %f, want %f", cam.Zoom, tt.want)
			}
		})
	}
}

func TestZoomAtKeepsCursorPoint(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	wx, wy := cam.ScreenToWorld(300, 200)

	cam.ZoomAt(2, 300, 200)

	gx, gy := cam.ScreenToWorld(300, 200)
	if math.Abs(gx-wx) > 1e-6 || math.Abs(gy-wy) > 1e-6 {
		t.Errorf("cursor point moved from (%f,%f) to (%f,%f)", wx, wy, gx, gy)
	}
	if cam.Zoom != 2 {
		t.Errorf("zoom = %f, want 2", cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	if !cam.IsVisible(1280, 720, 10) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(2400, 1300, 10) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(600, 720, 100) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestPickTolerance(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	if got := cam.PickTolerance(7); got != 12 {
		t.Errorf("tolerance = %f, want 12", got)
	}
	cam.SetZoom(2)
	if got := cam.PickTolerance(7); got != 19 {
		t.Errorf("tolerance = %f, want 19", got)
	}
	if got := PickTolerance(7, cam.Zoom); got != cam.PickTolerance(7) {
		t.Errorf("PickTolerance(7, 2) = %f, want %f", got, cam.PickTolerance(7))
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.X = 500
	cam.Y = 500
	cam.Zoom = 2.5

	cam.Reset()

	if cam.X != 1280 || cam.Y != 720 || cam.TargetX != 1280 || cam.TargetY != 720 {
		t.Errorf("expected position (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
