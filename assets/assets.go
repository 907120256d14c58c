// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package assets puts resources from kar archives and packr boxes
// into a gfx.Storage. Every asset is cached under its path, so loading
// the same path twice yields the same key.
package assets

import (
	"fmt"
	"io/ioutil"
	"path"
	"strings"

	"github.com/gobuffalo/packd"
	"github.com/sirupsen/logrus"

	"github.com/devblok/chili/gfx"
	"github.com/devblok/chili/model"
	"github.com/devblok/chili/utility/kar"
)

const shaderSuffix = ".spv"

// ShaderType represents the type of shader thats loaded
type ShaderType int

// Identifies shader objects with their types
const (
	VertexShaderType ShaderType = iota
	FragmentShaderType
	UnknownShaderType
)

// ShaderCode is compiled shader bytecode.
type ShaderCode struct {
	Type ShaderType
	gfx.Blob
}

// shaderType reads the type from the file name. The first part of the
// name is the shader name, the second its type and the last one ensures
// the shader is compiled, e.g. "phong.frag.spv".
func shaderType(name string) ShaderType {
	nodes := strings.Split(strings.TrimSuffix(path.Base(name), shaderSuffix), ".")
	if len(nodes) != 2 {
		return UnknownShaderType
	}
	switch nodes[1] {
	case "vert":
		return VertexShaderType
	case "frag":
		return FragmentShaderType
	}
	return UnknownShaderType
}

// NewLoader creates a loader storing into storage.
func NewLoader(storage *gfx.Storage, log logrus.FieldLogger) *Loader {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Loader{
		storage: storage,
		log:     log.WithField("component", "assets"),
	}
}

// Loader decodes assets by their extension: Collada files become
// model objects, compiled shaders ShaderCode, everything else a Blob.
type Loader struct {
	storage *gfx.Storage
	log     logrus.FieldLogger
	archive *kar.Archive
}

// Decode stores data under name, decoding it only if name was
// not loaded before.
func (l *Loader) Decode(name string, data []byte) (gfx.Key, error) {
	return l.storage.Cached(name, func() (interface{}, error) {
		return decode(name, data)
	})
}

func decode(name string, data []byte) (interface{}, error) {
	switch {
	case strings.HasSuffix(name, ".dae"):
		return model.ImportColladaObject(name, data)
	case strings.HasSuffix(name, shaderSuffix):
		return &ShaderCode{
			Type: shaderType(name),
			Blob: gfx.Blob{Name: name, Data: data},
		}, nil
	}
	return &gfx.Blob{Name: name, Data: data}, nil
}

// Attach sets the archive Load reads from.
func (l *Loader) Attach(ar *kar.Archive) {
	l.archive = ar
}

// Load implements gfx.Loader, reading id from the attached archive.
// Already loaded ids are not read again.
func (l *Loader) Load(id string) (gfx.Key, error) {
	if key, ok := l.storage.Tagged(id); ok {
		return key, nil
	}
	if l.archive == nil {
		return 0, fmt.Errorf("%s: no archive attached", id)
	}
	data, err := l.archive.ReadAll(id)
	if err != nil {
		return 0, err
	}
	return l.Decode(id, data)
}

// FromArchive loads every file of ar.
func (l *Loader) FromArchive(ar *kar.Archive) (map[string]gfx.Key, error) {
	keys := make(map[string]gfx.Key)
	for _, name := range ar.Names() {
		data, err := ar.ReadAll(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		key, err := l.Decode(name, data)
		if err != nil {
			return nil, err
		}
		keys[name] = key
	}
	l.log.WithFields(logrus.Fields{"author": ar.Header().Author, "files": len(keys)}).Info("archive loaded")
	return keys, nil
}

// FromBox loads every file of a packr box.
func (l *Loader) FromBox(box packd.Walker) (map[string]gfx.Key, error) {
	keys := make(map[string]gfx.Key)
	err := box.Walk(func(name string, f packd.File) error {
		data, err := ioutil.ReadAll(f)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		key, err := l.Decode(name, data)
		if err != nil {
			return err
		}
		keys[name] = key
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.log.WithField("files", len(keys)).Info("box loaded")
	return keys, nil
}
