package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/anima-gl/engine/math"
)

const (
	MaxMSAASamples = 16

	// lowest context the v4.5-core bindings of the OpenGL backend load on
	minGLMajorVersion = 4
	minGLMinorVersion = 5
)

// RenderOptions are read once, when the window and the render system are
// created.
type RenderOptions struct {
	VSync          bool   `toml:"VSync"`
	MSAA           int    `toml:"MSAA"`
	GLMajorVersion int    `toml:"GLMajorVersion"`
	GLMinorVersion int    `toml:"GLMinorVersion"`
	Width          int    `toml:"Width"`
	Height         int    `toml:"Height"`
	Title          string `toml:"Title"`
}

type CoreOptions struct {
	// Debug enables GPU debug callbacks and debug logging.
	Debug   bool   `toml:"Debug"`
	LogFile string `toml:"LogFile"`
}

type Options struct {
	Render RenderOptions `toml:"Render"`
	Core   CoreOptions   `toml:"Core"`
}

func DefaultOptions() *Options {
	return &Options{
		Render: RenderOptions{
			VSync:          true,
			MSAA:           0,
			GLMajorVersion: 4,
			GLMinorVersion: 5,
			Width:          1280,
			Height:         720,
			Title:          "anima",
		},
		Core: CoreOptions{
			Debug: false,
		},
	}
}

// LoadOptions reads a TOML file on top of the defaults. A missing file is not
// an error: the defaults are returned.
func LoadOptions(path string) (*Options, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			LogDebug("options file %s not found, using defaults", path)
			return DefaultOptions(), nil
		}
		return nil, err
	}
	defer f.Close()
	return DecodeOptions(f)
}

func DecodeOptions(r io.Reader) (*Options, error) {
	opts := DefaultOptions()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(opts); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidOptions, strict.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidOptions, err.Error())
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Validate clamps soft limits and rejects values no backend can honour.
func (o *Options) Validate() error {
	o.Render.MSAA = math.Clamp(o.Render.MSAA, 0, MaxMSAASamples)

	major, minor := o.Render.GLMajorVersion, o.Render.GLMinorVersion
	if major < minGLMajorVersion || (major == minGLMajorVersion && minor < minGLMinorVersion) {
		return fmt.Errorf("%w: OpenGL %d.%d requested, at least %d.%d is required",
			ErrInvalidOptions, major, minor, minGLMajorVersion, minGLMinorVersion)
	}
	if o.Render.Width <= 0 || o.Render.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidOptions, o.Render.Width, o.Render.Height)
	}
	return nil
}

func (o *Options) Save(path string) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(o); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
