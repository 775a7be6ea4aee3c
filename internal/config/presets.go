package config

var Presets = map[string]*Config{
	"freefall": {
		Dt: 0.01, Duration: 10.0,
		Body: BodyConfig{
			Position:    [3]float64{0, 0, 100},
			Orientation: [4]float64{1, 0, 0, 0},
			Mass:        1.0,
			Inertia:     InertiaConfig{Ixx: 1, Iyy: 1, Izz: 1},
		},
		Loads: LoadsConfig{Gravity: 9.81},
	},
	"launch": {
		Dt: 0.01, Duration: 100.0,
		Body: BodyConfig{
			Orientation: [4]float64{1, 0, 0, 0},
			Mass:        20.0,
		},
		Burn: &BurnConfig{DryMass: 15.0, MassRate: 0.1, Radius: 0.2, Height: 3.0},
		Loads: LoadsConfig{
			Gravity: 9.81,
			Thrust:  &ThrustConfig{Magnitude: 2000.0, BurnTime: 50.0},
		},
	},
	"tumble": {
		Dt: 0.001, Duration: 20.0,
		Body: BodyConfig{
			Orientation:     [4]float64{1, 0, 0, 0},
			AngularVelocity: [3]float64{1, 0.01, 1},
			Mass:            1.0,
			Inertia:         InertiaConfig{Ixx: 1, Iyy: 1.5, Izz: 2},
		},
	},
	"spinstab": {
		Dt: 0.01, Duration: 60.0,
		Body: BodyConfig{
			Orientation:     [4]float64{1, 0, 0, 0},
			AngularVelocity: [3]float64{0, 0, 10},
			Mass:            20.0,
		},
		Burn: &BurnConfig{DryMass: 15.0, MassRate: 0.1, Radius: 0.2, Height: 3.0},
		Loads: LoadsConfig{
			Gravity: 9.81,
			Thrust:  &ThrustConfig{Magnitude: 2000.0, BurnTime: 50.0},
		},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
