package config

import (
	"math"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Dt != DefaultDt {
		t.Errorf("expected dt %f, got %f", DefaultDt, cfg.Dt)
	}
	if cfg.Body.Orientation != [4]float64{1, 0, 0, 0} {
		t.Errorf("expected identity orientation, got %v", cfg.Body.Orientation)
	}
	if cfg.Loads.Gravity != DefaultGravity {
		t.Errorf("expected gravity %f, got %f", DefaultGravity, cfg.Loads.Gravity)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := GetPreset("launch")
	if cfg == nil {
		t.Fatal("launch preset missing")
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Duration != cfg.Duration {
		t.Errorf("duration mismatch: %f vs %f", loaded.Duration, cfg.Duration)
	}
	if loaded.Burn == nil || loaded.Burn.MassRate != cfg.Burn.MassRate {
		t.Errorf("burn config not preserved: %+v", loaded.Burn)
	}
	if loaded.Loads.Thrust == nil || loaded.Loads.Thrust.Magnitude != 2000.0 {
		t.Errorf("thrust config not preserved: %+v", loaded.Loads.Thrust)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	if cfg := GetPreset("freefall"); cfg == nil {
		t.Error("expected freefall preset")
	}
	if cfg := GetPreset("unknown"); cfg != nil {
		t.Error("expected nil for unknown preset")
	}
	if names := ListPresets(); len(names) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(names))
	}
}

func TestNewBodyDefault(t *testing.T) {
	b, err := DefaultConfig().NewBody()
	if err != nil {
		t.Fatalf("new body: %v", err)
	}
	if b.Mass() != DefaultMass {
		t.Errorf("expected mass %f, got %f", DefaultMass, b.Mass())
	}
}

func TestNewBodyWithBurn(t *testing.T) {
	cfg := GetPreset("launch")
	b, err := cfg.NewBody()
	if err != nil {
		t.Fatalf("new body: %v", err)
	}

	// initial properties come from the burn model, not the static inertia
	if b.Mass() != 20.0 {
		t.Errorf("expected initial mass 20, got %f", b.Mass())
	}
	inertia := b.Inertia()
	if inertia.At(2, 2) <= 0 {
		t.Errorf("expected positive axial inertia, got %f", inertia.At(2, 2))
	}

	// the body must lose mass as it steps
	force, torque := cfg.LoadModel().Loads(b, 0)
	if err := b.Step(force, torque, 1.0); err != nil {
		t.Fatalf("step: %v", err)
	}
	if math.Abs(b.Mass()-20.0) > 1e-12 {
		t.Errorf("mass model evaluates at pre-step time, expected 20, got %f", b.Mass())
	}
	if err := b.Step(force, torque, 1.0); err != nil {
		t.Fatalf("step: %v", err)
	}
	if math.Abs(b.Mass()-19.9) > 1e-12 {
		t.Errorf("expected mass 19.9 after 1 s of burn, got %f", b.Mass())
	}
}

func TestNewBodyInvalidBurn(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Burn = &BurnConfig{DryMass: 100, MassRate: 0.1, Radius: 0.2, Height: 3.0}
	if _, err := cfg.NewBody(); err == nil {
		t.Error("expected error when dry mass exceeds initial mass")
	}
}

func TestLoadModelComposite(t *testing.T) {
	cfg := GetPreset("launch")
	b, err := cfg.NewBody()
	if err != nil {
		t.Fatalf("new body: %v", err)
	}

	force, _ := cfg.LoadModel().Loads(b, 0)
	// thrust 2000 up, weight 20*9.81 down, upright body
	want := 2000.0 - 20.0*9.81
	if math.Abs(force.Z-want) > 1e-9 {
		t.Errorf("expected net force %f, got %f", want, force.Z)
	}
}

func TestLoadModelEmpty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Loads = LoadsConfig{}
	b, err := cfg.NewBody()
	if err != nil {
		t.Fatalf("new body: %v", err)
	}
	force, torque := cfg.LoadModel().Loads(b, 0)
	if force.X != 0 || force.Y != 0 || force.Z != 0 || torque.X != 0 || torque.Y != 0 || torque.Z != 0 {
		t.Errorf("expected zero loads, got %v %v", force, torque)
	}
}

func TestInertiaTensorSymmetric(t *testing.T) {
	i := InertiaConfig{Ixx: 2, Iyy: 3, Izz: 4, Ixy: 0.1, Ixz: 0.2, Iyz: 0.3}
	tensor := i.Tensor()
	if tensor.At(0, 1) != tensor.At(1, 0) {
		t.Error("tensor not symmetric")
	}
	if tensor.At(0, 2) != 0.2 || tensor.At(1, 2) != 0.3 {
		t.Errorf("off-diagonals wrong: %v", tensor.RawSymmetric().Data)
	}
}
