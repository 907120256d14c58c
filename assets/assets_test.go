// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package assets_test

import (
	"bytes"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/gobuffalo/packd"

	"github.com/devblok/chili/assets"
	"github.com/devblok/chili/gfx"
	"github.com/devblok/chili/model"
	"github.com/devblok/chili/utility/kar"
)

const quadDae = `<COLLADA>
  <library_geometries>
    <geometry id="Quad-mesh">
      <mesh>
        <source id="Quad-mesh-positions">
          <float_array id="Quad-mesh-positions-array" count="9">0 0 0 1 0 0 1 1 0</float_array>
        </source>
        <triangles count="1">
          <input semantic="VERTEX" source="#Quad-mesh-vertices" offset="0"/>
          <p>0 1 2</p>
        </triangles>
      </mesh>
    </geometry>
  </library_geometries>
</COLLADA>`

func buildArchive(c *qt.C, files map[string]string) *kar.Archive {
	builder := kar.NewBuilder(kar.Header{Author: "devblok", Version: 1})
	for name, content := range files {
		c.Assert(builder.Add(name, strings.NewReader(content)), qt.IsNil)
	}
	var buf bytes.Buffer
	_, err := builder.WriteTo(&buf)
	c.Assert(err, qt.IsNil)
	ar, err := kar.Open(bytes.NewReader(buf.Bytes()))
	c.Assert(err, qt.IsNil)
	return ar
}

func TestFromArchive(t *testing.T) {
	c := qt.New(t)
	storage := gfx.NewStorage(nil)
	loader := assets.NewLoader(storage, nil)

	ar := buildArchive(c, map[string]string{
		"meshes/quad.dae":        quadDae,
		"shaders/phong.frag.spv": "\x03\x02\x23\x07",
		"textures/readme.txt":    "bricks",
	})
	keys, err := loader.FromArchive(ar)
	c.Assert(err, qt.IsNil)
	c.Assert(len(keys), qt.Equals, 3)

	h, _ := storage.Handle(keys["meshes/quad.dae"])
	mesh, err := gfx.Lookup[model.Object](storage, h)
	c.Assert(err, qt.IsNil)
	c.Assert(len(mesh.Vertices()), qt.Equals, 3)

	h, _ = storage.Handle(keys["shaders/phong.frag.spv"])
	shader, err := gfx.Lookup[*assets.ShaderCode](storage, h)
	c.Assert(err, qt.IsNil)
	c.Assert(shader.Type, qt.Equals, assets.FragmentShaderType)
	c.Assert(shader.Len(), qt.Equals, 4)

	h, _ = storage.Handle(keys["textures/readme.txt"])
	blob, err := gfx.Lookup[*gfx.Blob](storage, h)
	c.Assert(err, qt.IsNil)
	c.Assert(string(blob.Data), qt.Equals, "bricks")

	// loading again hits the cache
	again, err := loader.FromArchive(ar)
	c.Assert(err, qt.IsNil)
	c.Assert(again, qt.DeepEquals, keys)
	c.Assert(storage.Len(), qt.Equals, 3)
}

func TestLoadAttached(t *testing.T) {
	c := qt.New(t)
	storage := gfx.NewStorage(nil)
	loader := assets.NewLoader(storage, nil)

	_, err := loader.Load("shaders/solid.vert.spv")
	c.Assert(err, qt.ErrorMatches, `shaders/solid.vert.spv: no archive attached`)

	loader.Attach(buildArchive(c, map[string]string{"shaders/solid.vert.spv": "code"}))
	key, err := loader.Load("shaders/solid.vert.spv")
	c.Assert(err, qt.IsNil)
	same, err := loader.Load("shaders/solid.vert.spv")
	c.Assert(err, qt.IsNil)
	c.Assert(same, qt.Equals, key)

	h, _ := storage.Handle(key)
	shader := gfx.MustLookup[*assets.ShaderCode](storage, h)
	c.Assert(shader.Type, qt.Equals, assets.VertexShaderType)

	_, err = loader.Load("missing.spv")
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestLoadAfterRelease(t *testing.T) {
	c := qt.New(t)
	storage := gfx.NewStorage(nil)
	loader := assets.NewLoader(storage, nil)
	loader.Attach(buildArchive(c, map[string]string{"textures/readme.txt": "bricks"}))

	key, err := loader.Load("textures/readme.txt")
	c.Assert(err, qt.IsNil)
	storage.Release()

	again, err := loader.Load("textures/readme.txt")
	c.Assert(err, qt.IsNil)
	c.Assert(again, qt.Equals, key)

	h, ok := storage.Handle(key)
	c.Assert(ok, qt.Equals, true)
	blob := gfx.MustLookup[*gfx.Blob](storage, h)
	c.Assert(string(blob.Data), qt.Equals, "bricks")
}

func TestFromBox(t *testing.T) {
	c := qt.New(t)
	storage := gfx.NewStorage(nil)
	loader := assets.NewLoader(storage, nil)

	box := packd.NewMemoryBox()
	c.Assert(box.AddString("quad.dae", quadDae), qt.IsNil)
	c.Assert(box.AddString("odd.shader.name.spv", "x"), qt.IsNil)

	keys, err := loader.FromBox(box)
	c.Assert(err, qt.IsNil)
	c.Assert(len(keys), qt.Equals, 2)

	h, _ := storage.Handle(keys["odd.shader.name.spv"])
	shader := gfx.MustLookup[*assets.ShaderCode](storage, h)
	c.Assert(shader.Type, qt.Equals, assets.UnknownShaderType)
}

func TestFromBoxBadMesh(t *testing.T) {
	c := qt.New(t)
	loader := assets.NewLoader(gfx.NewStorage(nil), nil)

	box := packd.NewMemoryBox()
	c.Assert(box.AddString("broken.dae", "<COLLADA></COLLADA>"), qt.IsNil)
	_, err := loader.FromBox(box)
	c.Assert(err, qt.ErrorMatches, `.*no geometry`)
}
