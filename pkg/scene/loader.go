package scene

import (
	"fmt"
	"strings"

	"github.com/df07/go-render-regress/pkg/config"
	"github.com/df07/go-render-regress/pkg/core"
	"github.com/df07/go-render-regress/pkg/geometry"
	"github.com/df07/go-render-regress/pkg/material"
)

var (
	defaultTop    = core.NewVec3(0.5, 0.7, 1.0)
	defaultBottom = core.NewVec3(1.0, 1.0, 1.0)
)

// Error reports an invalid scene definition
type Error struct {
	Key string
	Msg string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scene: %s: %s: %v", e.Key, e.Msg, e.Err)
	}
	return fmt.Sprintf("scene: %s: %s", e.Key, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Load reads a scene property file
func Load(path string) (*Scene, error) {
	props, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return FromProperties(props)
}

// FromProperties builds a scene from the scene.* keys of props
func FromProperties(props *config.Properties) (*Scene, error) {
	s := &Scene{Materials: make(map[string]core.Material)}

	cam, err := loadCamera(props)
	if err != nil {
		return nil, err
	}
	s.CameraConfig = cam

	if s.Top, err = vec3Or(props, "scene.background.top", defaultTop); err != nil {
		return nil, err
	}
	if s.Bottom, err = vec3Or(props, "scene.background.bottom", defaultBottom); err != nil {
		return nil, err
	}

	for _, name := range props.Names("scene.materials") {
		m, err := loadMaterial(props, "scene.materials."+name)
		if err != nil {
			return nil, err
		}
		s.Materials[name] = m
	}

	for _, name := range props.Names("scene.objects") {
		shape, err := loadObject(props, "scene.objects."+name, s.Materials)
		if err != nil {
			return nil, err
		}
		s.Shapes = append(s.Shapes, shape)
	}

	return s, nil
}

func loadCamera(props *config.Properties) (CameraConfig, error) {
	const key = "scene.camera.lookat"
	lookat, err := props.Vector(key)
	if err != nil {
		return CameraConfig{}, &Error{Key: key, Msg: "camera position and target required", Err: err}
	}
	if len(lookat) != 6 {
		return CameraConfig{}, &Error{Key: key, Msg: fmt.Sprintf("want 6 numbers, got %d", len(lookat))}
	}

	cfg := CameraConfig{
		Center: core.NewVec3(lookat[0], lookat[1], lookat[2]),
		LookAt: core.NewVec3(lookat[3], lookat[4], lookat[5]),
	}
	if cfg.Center.Subtract(cfg.LookAt).NearZero() {
		return CameraConfig{}, &Error{Key: key, Msg: "camera position equals target"}
	}

	if cfg.Up, err = vec3Or(props, "scene.camera.up", core.NewVec3(0, 1, 0)); err != nil {
		return CameraConfig{}, err
	}
	if cfg.Up.Cross(cfg.Center.Subtract(cfg.LookAt)).NearZero() {
		return CameraConfig{}, &Error{Key: "scene.camera.up", Msg: "zero or parallel to the view direction"}
	}
	if cfg.VFov, err = props.FloatOr("scene.camera.fieldofview", 45); err != nil {
		return CameraConfig{}, &Error{Key: "scene.camera.fieldofview", Msg: "bad value", Err: err}
	}
	if cfg.VFov <= 0 || cfg.VFov >= 180 {
		return CameraConfig{}, &Error{Key: "scene.camera.fieldofview", Msg: "must be in (0, 180)"}
	}
	lensRadius, err := props.FloatOr("scene.camera.lensradius", 0)
	if err != nil {
		return CameraConfig{}, &Error{Key: "scene.camera.lensradius", Msg: "bad value", Err: err}
	}
	cfg.Aperture = 2 * lensRadius
	if cfg.FocusDistance, err = props.FloatOr("scene.camera.focaldistance", 0); err != nil {
		return CameraConfig{}, &Error{Key: "scene.camera.focaldistance", Msg: "bad value", Err: err}
	}
	return cfg, nil
}

func loadMaterial(props *config.Properties, prefix string) (core.Material, error) {
	typ, err := props.Str(prefix + ".type")
	if err != nil {
		return nil, &Error{Key: prefix + ".type", Msg: "material type required", Err: err}
	}

	var m core.Material
	switch strings.ToLower(typ) {
	case "matte":
		kd, err := vec3Or(props, prefix+".kd", core.Splat(0.5))
		if err != nil {
			return nil, err
		}
		m = material.NewLambertian(kd)
	case "mirror", "metal":
		kr, err := vec3Or(props, prefix+".kr", core.Splat(1))
		if err != nil {
			return nil, err
		}
		fuzz, err := props.FloatOr(prefix+".fuzz", 0)
		if err != nil {
			return nil, &Error{Key: prefix + ".fuzz", Msg: "bad value", Err: err}
		}
		m = material.NewMetal(kr, fuzz)
	case "glass":
		ior, err := props.FloatOr(prefix+".ior", 1.5)
		if err != nil {
			return nil, &Error{Key: prefix + ".ior", Msg: "bad value", Err: err}
		}
		if ior <= 0 {
			return nil, &Error{Key: prefix + ".ior", Msg: "must be positive"}
		}
		m = material.NewDielectric(ior)
	case "light":
		m = nil
	default:
		return nil, &Error{Key: prefix + ".type", Msg: fmt.Sprintf("unknown material type %q", typ)}
	}

	if props.Has(prefix+".emission") || m == nil {
		emission, err := vec3Or(props, prefix+".emission", core.Splat(1))
		if err != nil {
			return nil, err
		}
		return material.NewEmissive(m, emission), nil
	}
	return m, nil
}

func loadObject(props *config.Properties, prefix string, materials map[string]core.Material) (core.Shape, error) {
	matName, err := props.Str(prefix + ".material")
	if err != nil {
		return nil, &Error{Key: prefix + ".material", Msg: "material required", Err: err}
	}
	mat, ok := materials[matName]
	if !ok {
		return nil, &Error{Key: prefix + ".material", Msg: fmt.Sprintf("undefined material %q", matName)}
	}

	shape, err := props.StrOr(prefix+".shape", "sphere")
	if err != nil {
		return nil, &Error{Key: prefix + ".shape", Msg: "bad value", Err: err}
	}

	switch strings.ToLower(shape) {
	case "sphere":
		center, err := vec3(props, prefix+".center")
		if err != nil {
			return nil, err
		}
		radius, err := props.Float(prefix + ".radius")
		if err != nil {
			return nil, &Error{Key: prefix + ".radius", Msg: "radius required", Err: err}
		}
		if radius <= 0 {
			return nil, &Error{Key: prefix + ".radius", Msg: "must be positive"}
		}
		return geometry.NewSphere(center, radius, mat), nil
	case "quad":
		corner, err := vec3(props, prefix+".corner")
		if err != nil {
			return nil, err
		}
		u, err := vec3(props, prefix+".u")
		if err != nil {
			return nil, err
		}
		v, err := vec3(props, prefix+".v")
		if err != nil {
			return nil, err
		}
		if u.Cross(v).NearZero() {
			return nil, &Error{Key: prefix, Msg: "quad edges are parallel"}
		}
		return geometry.NewQuad(corner, u, v, mat), nil
	default:
		return nil, &Error{Key: prefix + ".shape", Msg: fmt.Sprintf("unknown shape %q", shape)}
	}
}

// vec3 reads a colour or point. A single number is splatted to all three components.
func vec3(props *config.Properties, key string) (core.Vec3, error) {
	v, err := props.Vector(key)
	if err != nil {
		return core.Vec3{}, &Error{Key: key, Msg: "vector required", Err: err}
	}
	switch len(v) {
	case 1:
		return core.Splat(v[0]), nil
	case 3:
		return core.NewVec3(v[0], v[1], v[2]), nil
	default:
		return core.Vec3{}, &Error{Key: key, Msg: fmt.Sprintf("want 1 or 3 numbers, got %d", len(v))}
	}
}

func vec3Or(props *config.Properties, key string, def core.Vec3) (core.Vec3, error) {
	if !props.Has(key) {
		return def, nil
	}
	return vec3(props, key)
}
