// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package diag counts graphics commands issued by renderers and draw
// components and summarizes them for the diagnostic overlay.
//
// A Context is created once at startup and passed to everything that
// records or queries commands. Within a frame the driver calls
// BeginFrame, components Record, and EndFrame closes the frame.
package diag

import "github.com/sirupsen/logrus"

// Configuration is used to configure diagnostics.
type Configuration struct {
	// FrameWindow is the number of frames the logger retains.
	FrameWindow int

	// FrameSample is the number of frames averaged by the summarizer,
	// 0 averages over the whole window.
	FrameSample int
}

// DefaultConfiguration keeps two seconds of frames at 60 fps.
var DefaultConfiguration = Configuration{
	FrameWindow: 120,
	FrameSample: 60,
}

// NewContext creates the diagnostics context.
func NewContext(cfg Configuration, log logrus.FieldLogger) *Context {
	if log == nil {
		log = logrus.StandardLogger()
	}
	logger := NewLogger(cfg.FrameWindow)
	return &Context{
		cfg:        cfg,
		log:        log,
		Logger:     logger,
		Summarizer: NewSummarizer(logger, log),
	}
}

// Context holds the process-wide command logger and summarizer.
type Context struct {
	cfg Configuration
	log logrus.FieldLogger

	Logger     *Logger
	Summarizer *Summarizer
}

// Record counts a command of type t issued by ref of the given kind.
func (c *Context) Record(t CMDType, kind SourceKind, ref interface{}) {
	c.Logger.Record(t, Source{Kind: kind, Ref: ref})
}

// BeginFrame selects the frame id and the sample window.
func (c *Context) BeginFrame(id int) {
	c.Summarizer.Select(IDFrame, id)
	if c.cfg.FrameSample > 0 {
		c.Summarizer.Select(NFrameSample, c.cfg.FrameSample)
	}
}

// EndFrame closes the frame in the logger. It has to be called
// exactly once per frame, after every Record of that frame.
func (c *Context) EndFrame() {
	c.Logger.AdvanceFrame()
}

// Close logs the final window state.
func (c *Context) Close() {
	c.log.WithFields(logrus.Fields{
		"frames":  c.Logger.Frames(),
		"creates": c.Logger.CMDCount(Create),
		"binds":   c.Logger.CMDCount(Bind),
		"draws":   c.Logger.CMDCount(Draw),
	}).Info("diagnostics closed")
}
