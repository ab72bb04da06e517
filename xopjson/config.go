package xopjson

import (
	"bytes"
	"io"
	"os"

	"github.com/xoplog/xopscope/xopbytes"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config describes a Layer and its output in YAML:
//
//	name: yakd
//	version: 1.4.0
//	elapsed: true
//	output: file
//	file:
//	  filename: /var/log/yakd.json
//	  maxSizeMB: 100
//	nonBlocking: 500
type Config struct {
	Name        string                `yaml:"name"`
	Version     string                `yaml:"version"`
	Elapsed     *bool                 `yaml:"elapsed"`
	SpanRecords *bool                 `yaml:"spanRecords"`
	Output      string                `yaml:"output"` // stdout (default), stderr, discard, or file
	File        xopbytes.RotateConfig `yaml:"file"`
	// NonBlocking is the queue depth for asynchronous writes.
	// Zero means records are written synchronously.
	NonBlocking int `yaml:"nonBlocking"`
}

// ParseConfig decodes YAML. Unknown keys are an error.
func ParseConfig(data []byte) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(&c)
	if err != nil && !errors.Is(err, io.EOF) {
		return c, errors.Wrap(err, "parse xopjson config")
	}
	return c, nil
}

type closers []io.Closer

func (c closers) Close() error {
	var first error
	for _, closer := range c {
		if err := closer.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Build creates the Layer. Additional options are applied after the
// ones derived from the Config. Close the returned io.Closer after the
// last record has been written.
func (c Config) Build(opts ...Option) (*Layer, io.Closer, error) {
	var all []Option
	if c.Version != "" {
		v, err := semver.NewVersion(c.Version)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "parse version %q", c.Version)
		}
		all = append(all, WithVersion(v))
	}
	if c.Elapsed != nil {
		all = append(all, WithElapsed(*c.Elapsed))
	}
	if c.SpanRecords != nil {
		all = append(all, WithSpanRecords(*c.SpanRecords))
	}

	var w xopbytes.MakeWriter
	var cl closers
	switch c.Output {
	case "", "stdout":
		w = xopbytes.Stdout()
	case "stderr":
		w = xopbytes.WriteToIOWriter(os.Stderr)
	case "discard":
		w = xopbytes.Discard()
	case "file":
		if c.File.Filename == "" {
			return nil, nil, errors.New("output is file but file.filename is not set")
		}
		rf := xopbytes.RotatingFile(c.File)
		w = rf
		cl = append(cl, rf)
	default:
		return nil, nil, errors.Errorf("unknown output %q", c.Output)
	}
	all = append(all, opts...)
	if c.NonBlocking > 0 {
		var layer *Layer
		nb := xopbytes.NonBlocking(w, c.NonBlocking, func(err error) {
			layer.errorReporter(err)
		})
		cl = append(closers{nb}, cl...)
		layer = New(c.Name, nb, all...)
		return layer, cl, nil
	}
	return New(c.Name, w, all...), cl, nil
}
