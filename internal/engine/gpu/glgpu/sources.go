package glgpu

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed shaders/*
var shaderFS embed.FS

const fragmentHeader = "#version 410 core\n"

// Built-in GLSL programs for the lit, shadow and sky passes.
const (
	LitVertex     = "lit.vert"
	ShadowVertex  = "shadow.vert"
	SkyVertex     = "sky.vert"
	SkyPixel      = "sky.frag"
	TintedPixel   = "tinted.frag"
	AnimatedPixel = "animated.frag"
	UnlitPixel    = "unlit.frag"
)

// surfacePixels share the lighting and surface sampling code.
var surfacePixels = map[string]bool{
	TintedPixel:   true,
	AnimatedPixel: true,
	UnlitPixel:    true,
}

// Source returns the GLSL for a built-in program. Surface fragment
// programs are prefixed with the shared lighting and surface code.
func Source(name string) (string, error) {
	body, err := shaderFS.ReadFile("shaders/" + name)
	if err != nil {
		return "", fmt.Errorf("shader source %s: %w", name, err)
	}
	if !surfacePixels[name] {
		return string(body), nil
	}

	var sb strings.Builder
	sb.WriteString(fragmentHeader)
	for _, inc := range []string{"lighting.glsl", "surface.glsl"} {
		src, err := shaderFS.ReadFile("shaders/" + inc)
		if err != nil {
			return "", fmt.Errorf("shader include %s: %w", inc, err)
		}
		sb.Write(src)
		sb.WriteByte('\n')
	}
	sb.Write(body)
	return sb.String(), nil
}

// LoadVertexShader compiles a built-in vertex program.
func LoadVertexShader(dev *Device, name string) (*Shader, error) {
	src, err := Source(name)
	if err != nil {
		return nil, err
	}
	return NewVertexShader(dev, name, src)
}

// LoadPixelShader compiles a built-in fragment program.
func LoadPixelShader(dev *Device, name string) (*Shader, error) {
	src, err := Source(name)
	if err != nil {
		return nil, err
	}
	return NewPixelShader(dev, name, src)
}
