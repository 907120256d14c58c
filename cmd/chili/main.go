// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/gobuffalo/packr"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/chili/core"
	"github.com/devblok/chili/model"
	"github.com/devblok/chili/scene"
	"github.com/devblok/chili/utility/kar"
)

// StaticResources are assets built into the binary
var StaticResources = packr.NewBox("./assets")

var (
	envFile = flag.String("env", "", "Load configuration from the given .env file")
	frames  = flag.Int("frames", 0, "Stop after the number of frames, 0 runs until interrupted")
	every   = flag.Int("overlay", 60, "Print the overlay every n frames, 0 disables it")
)

func main() {
	flag.Parse()

	var files []string
	if *envFile != "" {
		files = append(files, *envFile)
	}
	cfg, err := core.LoadConfiguration(files...)
	if err != nil {
		log.WithError(err).Fatal("bad configuration")
	}
	log.SetLevel(cfg.LogLevel)

	engine := core.NewEngine(cfg, log.StandardLogger())
	defer engine.Close()

	if _, err := engine.Loader().FromBox(StaticResources); err != nil {
		log.WithError(err).Fatal("loading built-in assets")
	}
	if cfg.Assets.Archive != "" {
		ar, closer, err := kar.OpenFile(cfg.Assets.Archive)
		if err != nil {
			log.WithError(err).Fatal("opening asset archive")
		}
		defer closer.Close()
		if _, err := engine.Loader().FromArchive(ar); err != nil {
			log.WithError(err).Fatal("loading asset archive")
		}
		engine.Loader().Attach(ar)
	}

	if err := buildScene(engine); err != nil {
		log.WithError(err).Fatal("building scene")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	log.WithFields(log.Fields{
		"fps":    cfg.Time.FramesPerSecond,
		"window": cfg.Diagnostics.FrameWindow,
		"sample": cfg.Diagnostics.FrameSample,
	}).Info("running")

	engine.OnFrame(func(id int) {
		if *every > 0 && id%*every == 0 {
			printOverlay(engine)
		}
	})
	if err := engine.Run(ctx, *frames); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("frame failed")
	}
}

const planeMesh = "meshes/plane.dae"

// buildScene sets up a solid plane and a lit plane, selecting the
// lit one for the overlay.
func buildScene(engine *core.Engine) error {
	env := engine.Env()
	// assets are cached under their path, the quad is only used when
	// the plane was not loaded
	plane := func() (model.Object, error) {
		return model.Quad("plane"), nil
	}

	solid, _, err := engine.AddRenderer(scene.SolidRenderer)
	if err != nil {
		return err
	}
	backdrop, err := scene.NewMeshComponent(env, "backdrop", planeMesh, plane)
	if err != nil {
		return err
	}
	backdrop.Translate(glm.Vec3{0, 0, -2})
	if _, err := engine.AddComponent(solid, backdrop); err != nil {
		return err
	}

	phong, _, err := engine.AddRenderer(scene.PhongRenderer)
	if err != nil {
		return err
	}
	sun, err := scene.NewLightComponent(env, "sun", glm.Vec3{1, 0.95, 0.9})
	if err != nil {
		return err
	}
	sun.Translate(glm.Vec3{2, 4, 2})
	if _, err := engine.AddComponent(phong, sun); err != nil {
		return err
	}
	floor, err := scene.NewMeshComponent(env, "floor", planeMesh, plane)
	if err != nil {
		return err
	}
	floorID, err := engine.AddComponent(phong, floor)
	if err != nil {
		return err
	}

	if err := engine.SelectRenderer(phong); err != nil {
		return err
	}
	return engine.SelectDrawComponent(floorID)
}

func printOverlay(engine *core.Engine) {
	fmt.Printf("frame %d\n", engine.FrameID())
	for _, line := range engine.Overlay().Text() {
		fmt.Println(line)
	}
}
