package voltage

import "testing"

func TestParsePlane(t *testing.T) {
	tests := []struct {
		in      string
		want    Plane
		wantErr bool
	}{
		{in: "0", want: PlaneCPUCore},
		{in: "4", want: PlaneGPUUncore},
		{in: " 2 ", want: PlaneCPUCache},
		{in: "system_agent", want: PlaneSystemAgent},
		{in: "GPU_CORE", want: PlaneGPUCore},
		{in: "5", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "ring", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParsePlane(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParsePlane(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParsePlane(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestPlaneNames(t *testing.T) {
	if PlaneCPUCore.Name() != "CPU core" {
		t.Fatalf("unexpected name %q", PlaneCPUCore.Name())
	}
	if Plane(9).Valid() || Plane(9).Name() != "unknown" || Plane(9).Key() != "" {
		t.Fatal("expected plane 9 to be invalid")
	}
	if len(Planes()) != PlaneCount {
		t.Fatalf("Planes() returned %d planes", len(Planes()))
	}
}
