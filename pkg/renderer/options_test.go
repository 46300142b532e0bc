package renderer

import (
	"errors"
	"testing"
	"time"

	"github.com/df07/go-render-regress/pkg/config"
	"github.com/df07/go-render-regress/pkg/core"
)

func minimalProps() *config.Properties {
	return config.New().
		SetInt(KeyFilmWidth, 16).
		SetInt(KeyFilmHeight, 12).
		SetString(KeySceneFile, "ball.scn").
		SetString(KeySamplerType, "RANDOM")
}

func TestOptionsDefaults(t *testing.T) {
	opts, err := OptionsFromProperties(minimalProps())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if opts.Width != 16 || opts.Height != 12 {
		t.Errorf("unexpected size %dx%d", opts.Width, opts.Height)
	}
	if opts.MaxDepth != 8 || opts.RRDepth != 3 {
		t.Errorf("unexpected depths %d/%d", opts.MaxDepth, opts.RRDepth)
	}
	if opts.Seed != 1 || opts.SamplesPerStep != 1 || opts.TileSize != 32 || opts.Threads != 0 {
		t.Errorf("unexpected defaults %+v", opts)
	}
	if opts.Gamma != 2.2 {
		t.Errorf("expected gamma 2.2, got %f", opts.Gamma)
	}
	if opts.Halt != nil {
		t.Error("expected no halt condition without batch.halt keys")
	}
}

func TestOptionsSamplerAlias(t *testing.T) {
	props := minimalProps()
	props.Delete(KeySamplerType)
	props.SetString(KeySampler, "sobol")

	opts, err := OptionsFromProperties(props)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Sampler != core.SamplerSobol {
		t.Errorf("expected SOBOL, got %s", opts.Sampler)
	}
}

func TestOptionsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*config.Properties)
		key      string
		notFound bool
	}{
		{"missing width", func(p *config.Properties) { p.Delete(KeyFilmWidth) }, KeyFilmWidth, true},
		{"zero height", func(p *config.Properties) { p.SetInt(KeyFilmHeight, 0) }, KeyFilmHeight, false},
		{"float width", func(p *config.Properties) { p.SetFloat(KeyFilmWidth, 16.5) }, KeyFilmWidth, false},
		{"missing scene", func(p *config.Properties) { p.Delete(KeySceneFile) }, KeySceneFile, true},
		{"missing sampler", func(p *config.Properties) { p.Delete(KeySamplerType) }, KeySamplerType, true},
		{"unknown sampler", func(p *config.Properties) { p.SetString(KeySamplerType, "METROPOLIS") }, KeySamplerType, false},
		{"zero spp", func(p *config.Properties) { p.SetInt(KeySamplesPerStep, 0) }, KeySamplesPerStep, false},
		{"negative gamma", func(p *config.Properties) { p.SetFloat(KeyFilmGamma, -1) }, KeyFilmGamma, false},
		{"bad halt spp", func(p *config.Properties) { p.SetString(KeyHaltSPP, "lots") }, KeyHaltSPP, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props := minimalProps()
			tt.mutate(props)

			_, err := OptionsFromProperties(props)
			var cfgErr *InvalidConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected InvalidConfigError, got %v", err)
			}
			if cfgErr.Key != tt.key {
				t.Errorf("expected key %s, got %s", tt.key, cfgErr.Key)
			}
			if errors.Is(err, config.ErrKeyNotFound) != tt.notFound {
				t.Errorf("expected ErrKeyNotFound=%v, got %v", tt.notFound, err)
			}
		})
	}
}

func TestHaltConditions(t *testing.T) {
	stats := Stats{Passes: 3, SamplesPerPixel: 6, Elapsed: 2 * time.Second}

	tests := []struct {
		name string
		cond HaltCondition
		want bool
	}{
		{"samples reached", SamplesAtLeast(6), true},
		{"samples not reached", SamplesAtLeast(7), false},
		{"passes reached", PassesAtLeast(3), true},
		{"elapsed not reached", ElapsedAtLeast(3 * time.Second), false},
		{"any", Any(SamplesAtLeast(100), PassesAtLeast(1)), true},
		{"any empty", Any(), false},
		{"all", All(SamplesAtLeast(1), PassesAtLeast(4)), false},
		{"all ignores nil", All(nil, SamplesAtLeast(1)), true},
		{"all empty", All(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cond(stats); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestHaltFromConfig(t *testing.T) {
	cond, err := HaltFromConfig(config.New())
	if err != nil || cond != nil {
		t.Fatalf("expected nil condition, got %v %v", cond != nil, err)
	}

	cond, err = HaltFromConfig(config.New().SetInt(KeyHaltSPP, 4).SetFloat(KeyHaltTime, 0.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cond(Stats{SamplesPerPixel: 3}) {
		t.Error("should not halt below both limits")
	}
	if !cond(Stats{SamplesPerPixel: 4}) {
		t.Error("should halt at 4 spp")
	}
	if !cond(Stats{Elapsed: time.Second}) {
		t.Error("should halt after half a second")
	}

	// Integer seconds widen to float
	cond, err = HaltFromConfig(config.New().SetInt(KeyHaltTime, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cond(Stats{Elapsed: 2 * time.Second}) {
		t.Error("should halt after 2 seconds")
	}
}

func TestClearConfigHalt(t *testing.T) {
	props := minimalProps().SetInt(KeyHaltSPP, 2).SetFloat(KeyHaltTime, 1)
	ClearConfigHalt(props)

	if props.Has(KeyHaltSPP) || props.Has(KeyHaltTime) {
		t.Fatalf("halt keys survived: %s", props)
	}
	if cond, err := HaltFromConfig(props); err != nil || cond != nil {
		t.Errorf("expected no config halt, got %v %v", cond != nil, err)
	}
	if !props.Has(KeyFilmWidth) {
		t.Error("other keys should be kept")
	}
}
