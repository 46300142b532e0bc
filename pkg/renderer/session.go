// Package renderer drives progressive rendering sessions.
//
// A Session moves through Created, Started and Running and ends either Stopped or
// Finished. Each RenderStep adds batch.spp samples to every pixel; the session
// finishes when its halt condition holds after a step.
package renderer

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/df07/go-render-regress/pkg/config"
	"github.com/df07/go-render-regress/pkg/core"
	"github.com/df07/go-render-regress/pkg/imaging"
	"github.com/df07/go-render-regress/pkg/integrator"
	"github.com/df07/go-render-regress/pkg/log"
	"github.com/df07/go-render-regress/pkg/scene"
)

type State int

const (
	Created State = iota
	Started
	Running
	Stopped
	Finished
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Started:
		return "started"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Option customises a session
type Option func(*Session)

// WithLogger replaces the default renderer module logger
func WithLogger(logger core.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithSearchPath sets the directory relative scene paths are resolved against
func WithSearchPath(dir string) Option {
	return func(s *Session) { s.searchPath = dir }
}

// WithHalt adds a halt condition evaluated after every step,
// in addition to any batch.halt* keys in the configuration
func WithHalt(halt HaltCondition) Option {
	return func(s *Session) { s.halt = halt }
}

// Session renders one configuration
type Session struct {
	props      *config.Properties
	logger     core.Logger
	searchPath string
	halt       HaltCondition

	mu       sync.Mutex
	state    State
	stepping bool
	opts     Options
	device   *Device
	tiles    []*Tile
	renderer *TileRenderer
	workers  int
	passes   int
	spp      int
	elapsed  time.Duration

	// guards film contents; a step holds it for the whole pass
	filmMu sync.RWMutex
	film   *Film
}

// NewSession snapshots props; later changes to props do not affect the session
func NewSession(props *config.Properties, options ...Option) *Session {
	s := &Session{
		props:  props.Clone(),
		logger: log.New("renderer"),
		state:  Created,
	}
	for _, o := range options {
		o(s)
	}
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Properties returns a copy of the configuration the session was built from
func (s *Session) Properties() *config.Properties {
	return s.props.Clone()
}

// Start validates the configuration, loads the scene and acquires the render device.
// A failed Start leaves the session in Created.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Created {
		return stateError("start", s.state)
	}

	opts, err := OptionsFromProperties(s.props)
	if err != nil {
		return err
	}

	scenePath := opts.SceneFile
	if !filepath.IsAbs(scenePath) && s.searchPath != "" {
		scenePath = filepath.Join(s.searchPath, scenePath)
	}
	sc, err := scene.Load(scenePath)
	if err != nil {
		return fmt.Errorf("renderer: loading scene: %w", err)
	}

	tiles, err := NewTileGrid(opts.Width, opts.Height, opts.TileSize, opts.Seed, opts.Sampler)
	if err != nil {
		return &InvalidConfigError{Key: KeySamplerType, Reason: "cannot create sampler", Err: err}
	}

	s.state = Started
	s.opts = opts
	s.halt = Any(s.halt, opts.Halt)
	s.tiles = tiles
	s.film = NewFilm(opts.Width, opts.Height)
	camera := sc.NewCamera(float64(opts.Width) / float64(opts.Height))
	pt := integrator.NewPathTracingIntegrator(opts.MaxDepth, opts.RRDepth)
	s.renderer = NewTileRenderer(sc, camera, pt, opts.Width, opts.Height)

	s.device = acquireDevice(opts.Threads)
	s.workers = s.device.Workers()
	s.state = Running

	s.logger.Printf("Session started: %dx%d, scene %s, sampler %s, %d tiles on %d workers\n",
		opts.Width, opts.Height, scenePath, opts.Sampler, len(tiles), s.workers)
	return nil
}

// RenderStep renders one pass over every tile. Stop requests and ctx are only
// observed between steps. When the halt condition holds afterwards the session finishes.
func (s *Session) RenderStep(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Running {
		state := s.state
		s.mu.Unlock()
		if state == Stopped {
			return ErrStopped
		}
		return stateError("render step", state)
	}
	if s.stepping {
		s.mu.Unlock()
		return fmt.Errorf("%w: render step already in progress", ErrInvalidState)
	}
	if err := ctx.Err(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.stepping = true
	spp := s.opts.SamplesPerStep
	pass := s.passes + 1
	s.mu.Unlock()

	start := time.Now()
	err := s.renderPass(spp)
	took := time.Since(start)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stepping = false
	s.elapsed += took

	if err != nil {
		s.logger.Printf("Pass %d failed: %v\n", pass, err)
		s.state = Stopped
		s.releaseLocked()
		return fmt.Errorf("renderer: pass %d: %w", pass, err)
	}

	s.passes = pass
	s.spp += spp
	s.logger.Printf("Pass %d completed in %v (%d samples/pixel)\n", pass, took, s.spp)

	if s.state == Stopped {
		s.releaseLocked()
		return ErrStopped
	}
	if s.halt(s.statsLocked()) {
		s.finishLocked()
	}
	return nil
}

func (s *Session) renderPass(spp int) error {
	s.filmMu.Lock()
	defer s.filmMu.Unlock()

	jobs := make([]func() error, len(s.tiles))
	for i, tile := range s.tiles {
		tile := tile
		jobs[i] = func() error {
			s.renderer.RenderTile(tile, s.film, spp)
			return nil
		}
	}
	return s.device.Run(jobs)
}

// WaitUntil renders steps until halt (or the session's own halt condition) holds,
// the session is stopped, or ctx is done.
func (s *Session) WaitUntil(ctx context.Context, halt HaltCondition) error {
	for {
		s.mu.Lock()
		state := s.state
		// a step in flight owns the device; RenderStep below reports the conflict
		if state == Running && !s.stepping && halt != nil && halt(s.statsLocked()) {
			s.finishLocked()
			state = s.state
		}
		s.mu.Unlock()

		switch state {
		case Finished:
			return nil
		case Stopped:
			return ErrStopped
		case Running:
		default:
			return stateError("wait", state)
		}

		if err := s.RenderStep(ctx); err != nil {
			return err
		}
	}
}

// Stop ends the session. It always succeeds: a step in progress completes and the
// device is released after it. Terminal sessions are left unchanged.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Stopped || s.state == Finished {
		return
	}
	s.state = Stopped
	if !s.stepping {
		s.releaseLocked()
	}
	s.logger.Printf("Session stopped after %d passes\n", s.passes)
}

func (s *Session) finishLocked() {
	s.state = Finished
	s.releaseLocked()
	s.logger.Printf("Session finished: %d passes, %d samples/pixel in %v\n", s.passes, s.spp, s.elapsed)
}

func (s *Session) releaseLocked() {
	if s.device != nil {
		releaseDevice()
		s.device = nil
	}
}

// Framebuffer returns a copy of the current estimate in display space
func (s *Session) Framebuffer() (*imaging.Framebuffer, error) {
	s.mu.Lock()
	state, film, gamma := s.state, s.film, s.opts.Gamma
	s.mu.Unlock()

	switch state {
	case Running, Stopped, Finished:
	default:
		return nil, stateError("framebuffer", state)
	}
	if film == nil {
		return nil, stateError("framebuffer before start", state)
	}

	s.filmMu.RLock()
	defer s.filmMu.RUnlock()
	return film.Resolve(gamma), nil
}

func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statsLocked()
}

func (s *Session) statsLocked() Stats {
	return Stats{
		Width:           s.opts.Width,
		Height:          s.opts.Height,
		Passes:          s.passes,
		SamplesPerPixel: s.spp,
		TotalSamples:    int64(s.spp) * int64(s.opts.Width) * int64(s.opts.Height),
		Elapsed:         s.elapsed,
		Workers:         s.workers,
		Tiles:           len(s.tiles),
	}
}
