package renderer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/df07/go-render-regress/pkg/config"
	"github.com/df07/go-render-regress/pkg/core"
)

// Configuration keys read by a session
const (
	KeyFilmWidth      = "film.width"
	KeyFilmHeight     = "film.height"
	KeyFilmGamma      = "film.gamma"
	KeySceneFile      = "scene.file"
	KeySamplerType    = "sampler.type"
	KeySampler        = "sampler"
	KeyMaxDepth       = "path.maxdepth"
	KeyRRDepth        = "path.russianroulette.depth"
	KeySeed           = "renderengine.seed"
	KeySamplesPerStep = "batch.spp"
	KeyTileSize       = "tile.size"
	KeyThreads        = "native.threads.count"
	KeyHaltSPP        = "batch.haltspp"
	KeyHaltTime       = "batch.halttime"
)

type Options struct {
	// Frame dims.
	Width  int
	Height int

	// Scene file, relative paths resolved against the session search path.
	SceneFile string

	Sampler core.SamplerType

	// Maximum path length and the bounce at which russian roulette starts.
	MaxDepth int
	RRDepth  int

	Seed           int64
	SamplesPerStep int
	TileSize       int

	// Worker count for the render device, 0 uses every CPU.
	Threads int

	Gamma float64

	// Halt condition from batch.haltspp / batch.halttime, nil when neither is set.
	Halt HaltCondition
}

// OptionsFromProperties validates props and extracts the render options
func OptionsFromProperties(props *config.Properties) (Options, error) {
	var (
		opts Options
		err  error
	)

	if opts.Width, err = positiveInt(props, KeyFilmWidth); err != nil {
		return Options{}, err
	}
	if opts.Height, err = positiveInt(props, KeyFilmHeight); err != nil {
		return Options{}, err
	}

	if opts.SceneFile, err = props.Str(KeySceneFile); err != nil {
		return Options{}, invalid(KeySceneFile, err)
	}
	if strings.TrimSpace(opts.SceneFile) == "" {
		return Options{}, &InvalidConfigError{Key: KeySceneFile, Reason: "empty"}
	}

	samplerKey := KeySamplerType
	if !props.Has(samplerKey) && props.Has(KeySampler) {
		samplerKey = KeySampler
	}
	name, err := props.Str(samplerKey)
	if err != nil {
		return Options{}, invalid(samplerKey, err)
	}
	if opts.Sampler, err = core.ParseSamplerType(name); err != nil {
		return Options{}, &InvalidConfigError{Key: samplerKey, Reason: "unsupported sampler", Err: err}
	}

	if opts.MaxDepth, err = intOr(props, KeyMaxDepth, 8, 1); err != nil {
		return Options{}, err
	}
	if opts.RRDepth, err = intOr(props, KeyRRDepth, 3, 0); err != nil {
		return Options{}, err
	}
	seed, err := intOr(props, KeySeed, 1, 0)
	if err != nil {
		return Options{}, err
	}
	opts.Seed = int64(seed)
	if opts.SamplesPerStep, err = intOr(props, KeySamplesPerStep, 1, 1); err != nil {
		return Options{}, err
	}
	if opts.TileSize, err = intOr(props, KeyTileSize, 32, 1); err != nil {
		return Options{}, err
	}
	if opts.Threads, err = intOr(props, KeyThreads, 0, 0); err != nil {
		return Options{}, err
	}

	if opts.Gamma, err = props.FloatOr(KeyFilmGamma, 2.2); err != nil {
		return Options{}, invalid(KeyFilmGamma, err)
	}
	if opts.Gamma <= 0 {
		return Options{}, &InvalidConfigError{Key: KeyFilmGamma, Reason: "must be positive"}
	}

	if opts.Halt, err = HaltFromConfig(props); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func invalid(key string, err error) error {
	reason := "bad value"
	if errors.Is(err, config.ErrKeyNotFound) {
		reason = "required"
	}
	return &InvalidConfigError{Key: key, Reason: reason, Err: err}
}

func positiveInt(props *config.Properties, key string) (int, error) {
	v, err := props.Int(key)
	if err != nil {
		return 0, invalid(key, err)
	}
	if v <= 0 {
		return 0, &InvalidConfigError{Key: key, Reason: fmt.Sprintf("must be positive, got %d", v)}
	}
	return v, nil
}

func intOr(props *config.Properties, key string, def, minimum int) (int, error) {
	v, err := props.IntOr(key, def)
	if err != nil {
		return 0, invalid(key, err)
	}
	if v < minimum {
		return 0, &InvalidConfigError{Key: key, Reason: fmt.Sprintf("must be at least %d, got %d", minimum, v)}
	}
	return v, nil
}
