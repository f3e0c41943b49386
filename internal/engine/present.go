package engine

import (
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"Mirage2D/internal/logger"
	"Mirage2D/internal/texture"
)

var presentVertexSource = `#version 330 core

layout(location = 0) in vec2 inPosition;
layout(location = 1) in vec2 inTexCoord;

out vec2 fragTexCoord;

void main() {
    fragTexCoord = inTexCoord;
    gl_Position = vec4(inPosition, 0.0, 1.0);
}
` + "\x00"

var presentFragmentSource = `#version 330 core

in vec2 fragTexCoord;

uniform sampler2D frameTexture;

out vec4 FragColor;

void main() {
    FragColor = texture(frameTexture, fragTexCoord);
}
` + "\x00"

// Fullscreen strip. Rows of the CPU frame run top to bottom, so V is
// flipped against GL's bottom-up texture space.
var presentQuad = []float32{
	-1, -1, 0, 1,
	1, -1, 1, 1,
	-1, 1, 0, 0,
	1, 1, 1, 0,
}

// presenter uploads the composited CPU frame and draws it as a
// fullscreen textured quad.
type presenter struct {
	program  uint32
	vao, vbo uint32
	tex      uint32
	uniforms *uniformCache
	pix      []uint8
	w, h     int
}

func newPresenter() *presenter {
	pr := &presenter{}

	vertexShader := genShader(presentVertexSource, gl.VERTEX_SHADER)
	fragmentShader := genShader(presentFragmentSource, gl.FRAGMENT_SHADER)
	pr.program = genShaderProgram(vertexShader, fragmentShader)
	pr.uniforms = newUniformCache(pr.program)

	gl.GenVertexArrays(1, &pr.vao)
	gl.BindVertexArray(pr.vao)

	gl.GenBuffers(1, &pr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, pr.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(presentQuad)*4, gl.Ptr(presentQuad), gl.STATIC_DRAW)

	stride := int32(4 * 4)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(2*4))
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)

	gl.GenTextures(1, &pr.tex)
	gl.BindTexture(gl.TEXTURE_2D, pr.tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	logger.Log.Info("Presenter initialized")
	return pr
}

// Present quantizes the float frame to RGBA8, uploads it and draws the
// fullscreen quad.
func (pr *presenter) Present(t *texture.Texture) {
	if t == nil || t.W == 0 || t.H == 0 {
		return
	}

	n := t.W * t.H * 4
	if len(pr.pix) != n {
		pr.pix = make([]uint8, n)
	}
	if t.C == 4 {
		for i, v := range t.Pix {
			pr.pix[i] = quantize(v)
		}
	} else {
		for y := 0; y < t.H; y++ {
			for x := 0; x < t.W; x++ {
				c := t.At(x, y)
				o := (y*t.W + x) * 4
				pr.pix[o+0] = quantize(c.X())
				pr.pix[o+1] = quantize(c.Y())
				pr.pix[o+2] = quantize(c.Z())
				pr.pix[o+3] = quantize(c.W())
			}
		}
	}

	gl.BindTexture(gl.TEXTURE_2D, pr.tex)
	if t.W != pr.w || t.H != pr.h {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(t.W), int32(t.H), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pr.pix))
		pr.w, pr.h = t.W, t.H
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(t.W), int32(t.H), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pr.pix))
	}

	gl.UseProgram(pr.program)
	gl.ActiveTexture(gl.TEXTURE0)
	pr.uniforms.SetInt("frameTexture", 0)
	gl.BindVertexArray(pr.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
}

func (pr *presenter) Cleanup() {
	gl.DeleteVertexArrays(1, &pr.vao)
	gl.DeleteBuffers(1, &pr.vbo)
	gl.DeleteTextures(1, &pr.tex)
	gl.DeleteProgram(pr.program)
}

func quantize(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func genShader(source string, shaderType uint32) uint32 {
	shader := gl.CreateShader(shaderType)
	cSources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))

		logger.Log.Error("Failed to compile shader", zap.Uint32("type", shaderType), zap.String("log", log))
	}
	return shader
}

func genShaderProgram(vertexShader, fragmentShader uint32) uint32 {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))

		logger.Log.Error("Failed to link program", zap.String("log", log))
	}
	gl.DetachShader(program, vertexShader)
	gl.DeleteShader(vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(fragmentShader)
	return program
}

// uniformCache caches uniform locations so Present does not look them
// up every frame.
type uniformCache struct {
	locations map[string]int32
	program   uint32
}

func newUniformCache(program uint32) *uniformCache {
	return &uniformCache{
		locations: make(map[string]int32),
		program:   program,
	}
}

func (uc *uniformCache) GetLocation(name string) int32 {
	if loc, exists := uc.locations[name]; exists {
		return loc
	}
	loc := gl.GetUniformLocation(uc.program, gl.Str(name+"\x00"))
	uc.locations[name] = loc
	return loc
}

func (uc *uniformCache) SetInt(name string, value int32) {
	loc := uc.GetLocation(name)
	if loc != -1 {
		gl.Uniform1i(loc, value)
	}
}
