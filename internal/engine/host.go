// Package engine opens a window and drives the compositor: it owns the
// frame clock, forwards input to the camera, updates effect modules and
// presents the composited frame.
package engine

import (
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"Mirage2D/internal/distortion"
	"Mirage2D/internal/effects"
	"Mirage2D/internal/logger"
	"Mirage2D/internal/post"
	"Mirage2D/internal/scene"
	"Mirage2D/internal/texture"
	"Mirage2D/internal/view"
)

type Host struct {
	Width  int32
	Height int32
	Title  string

	Camera            *view.Camera
	EnableCameraInput bool

	inputs   *scene.Inputs
	pipeline *distortion.Pipeline
	effects  *effects.Manager
	post     *post.Chain

	window    *glfw.Window
	presenter *presenter

	sceneColor *texture.Texture
	frame      *texture.Texture
	onFrame    func(dt float32)
}

func NewHost(title string, width, height int32, inputs *scene.Inputs, pipe *distortion.Pipeline) *Host {
	logger.Init()
	logger.Log.Info("Mirage2D initializing...")
	pipe.Resize(int(width), int(height))
	return &Host{
		Width:             width,
		Height:            height,
		Title:             title,
		EnableCameraInput: true,
		inputs:            inputs,
		pipeline:          pipe,
		effects:           effects.NewManager(),
		post:              post.NewChain(int(width), int(height)),
		frame:             texture.NewRGBA(int(width), int(height)),
	}
}

// Effects returns the module manager driven once per frame.
func (h *Host) Effects() *effects.Manager {
	return h.effects
}

// Post returns the post chain applied to the composited frame.
func (h *Host) Post() *post.Chain {
	return h.post
}

// SetScene sets the scene color texture the compositor distorts each
// frame. The app may redraw it between frames.
func (h *Host) SetScene(tex *texture.Texture) {
	h.sceneColor = tex
}

// SetOnFrame sets a callback invoked every frame before composition.
func (h *Host) SetOnFrame(cb func(dt float32)) {
	h.onFrame = cb
}

// Run opens the window at the given position and blocks in the frame
// loop until the window is closed.
func (h *Host) Run(x, y int) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		logger.Log.Error("Could not initialize glfw", zap.Error(err))
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(h.Width), int(h.Height), h.Title, nil, nil)
	if err != nil {
		logger.Log.Error("Could not create glfw window", zap.Error(err))
		return err
	}
	h.window = window
	h.window.MakeContextCurrent()
	h.window.SetPos(x, y)
	setDarkTitleBar(h.window)

	if err := gl.Init(); err != nil {
		logger.Log.Error("Could not initialize OpenGL", zap.Error(err))
		return err
	}
	gl.ClearColor(0.0, 0.0, 0.0, 1.0)
	gl.Viewport(0, 0, h.Width, h.Height)

	h.presenter = newPresenter()
	h.frameLoop()
	return nil
}

func (h *Host) frameLoop() {
	lastTime := glfw.GetTime()
	lastWidth, lastHeight := h.Width, h.Height

	for !h.window.ShouldClose() {
		currentTime := glfw.GetTime()
		deltaTime := float32(currentTime - lastTime)
		lastTime = currentTime

		actualWidth, actualHeight := h.window.GetSize()
		if int32(actualWidth) != h.Width || int32(actualHeight) != h.Height {
			h.Width = int32(actualWidth)
			h.Height = int32(actualHeight)
		}
		if h.Width != lastWidth || h.Height != lastHeight {
			gl.Viewport(0, 0, h.Width, h.Height)
			h.pipeline.Resize(int(h.Width), int(h.Height))
			h.post.Resize(int(h.Width), int(h.Height))
			if h.Camera != nil {
				h.Camera.SetAspectRatio(float32(h.Width) / float32(h.Height))
			}
			lastWidth, lastHeight = h.Width, h.Height
		}

		if h.EnableCameraInput && h.Camera != nil {
			h.Camera.ProcessKeyboard(h.window, deltaTime)
		}

		h.inputs.Advance(deltaTime)
		h.effects.UpdateAll(deltaTime)
		if h.onFrame != nil {
			h.onFrame(deltaTime)
		}

		h.pipeline.Update()
		if h.sceneColor != nil {
			h.pipeline.Render(h.sceneColor, h.frame)
			out := h.post.Render(h.frame)
			gl.Clear(gl.COLOR_BUFFER_BIT)
			h.presenter.Present(out)
		}

		h.window.SwapBuffers()
		glfw.PollEvents()
	}

	h.effects.StopAll()
	h.pipeline.Close()
	h.presenter.Cleanup()
}
