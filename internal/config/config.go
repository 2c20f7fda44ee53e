// Package config handles renderer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all application settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Camera   CameraConfig   `yaml:"camera"`
	Shadow   ShadowConfig   `yaml:"shadow"`
	Scene    SceneConfig    `yaml:"scene"`
	Logging  LoggingConfig  `yaml:"logging"`

	// Path is the file the config was loaded from, if any.
	Path string `yaml:"-"`
}

// Color is an RGBA colour with components in [0, 1].
type Color struct {
	R float32 `yaml:"r"`
	G float32 `yaml:"g"`
	B float32 `yaml:"b"`
	A float32 `yaml:"a"`
}

// GraphicsConfig holds display and swap-chain settings.
type GraphicsConfig struct {
	Width      int   `yaml:"width"`
	Height     int   `yaml:"height"`
	Fullscreen bool  `yaml:"fullscreen"`
	VSync      bool  `yaml:"vsync"`
	Background Color `yaml:"background"`
}

// CameraConfig holds the settings shared by every scene camera.
type CameraConfig struct {
	FOV              float32 `yaml:"fov"` // radians
	Near             float32 `yaml:"near"`
	Far              float32 `yaml:"far"`
	MoveSpeed        float32 `yaml:"move_speed"`
	LookSpeed        float32 `yaml:"look_speed"`
	SprintMultiplier float32 `yaml:"sprint_multiplier"`
	Perspective      bool    `yaml:"perspective"`
	OrthoSize        float32 `yaml:"ortho_size"`
}

// ShadowConfig holds the shadow-map settings. Resolution is fixed at startup.
type ShadowConfig struct {
	Resolution     int     `yaml:"resolution"`
	ProjectionSize float32 `yaml:"projection_size"`
	Near           float32 `yaml:"near"`
	Far            float32 `yaml:"far"`
	LightDistance  float32 `yaml:"light_distance"`
	DepthBias      int32   `yaml:"depth_bias"`
	SlopeBias      float32 `yaml:"slope_bias"`
}

// TextureSet names the PBR maps shared by one group of materials.
type TextureSet struct {
	Name      string `yaml:"name"`
	Albedo    string `yaml:"albedo"`
	Normal    string `yaml:"normal"`
	Roughness string `yaml:"roughness"`
	Metalness string `yaml:"metalness"`
}

// SceneConfig holds asset locations for the demo scene. Relative paths
// resolve against AssetRoot; missing files fall back to procedural textures.
type SceneConfig struct {
	AssetRoot   string       `yaml:"asset_root"`
	SkyFaces    []string     `yaml:"sky_faces"` // +X, -X, +Y, -Y, +Z, -Z
	TextureSets []TextureSet `yaml:"texture_sets"`
	Animate     bool         `yaml:"animate"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			Background: Color{R: 0.058, G: 0.058, B: 0.196, A: 1},
		},
		Camera: CameraConfig{
			FOV:              1.5707,
			Near:             0.01,
			Far:              500,
			MoveSpeed:        1,
			LookSpeed:        0.01,
			SprintMultiplier: 5,
			Perspective:      true,
			OrthoSize:        10,
		},
		Shadow: ShadowConfig{
			Resolution:     2048,
			ProjectionSize: 20,
			Near:           1,
			Far:            100,
			LightDistance:  30,
			DepthBias:      1000,
			SlopeBias:      1,
		},
		Scene: SceneConfig{
			AssetRoot: "assets",
			SkyFaces: []string{
				"skies/clouds/right.png", "skies/clouds/left.png",
				"skies/clouds/up.png", "skies/clouds/down.png",
				"skies/clouds/front.png", "skies/clouds/back.png",
			},
			TextureSets: []TextureSet{
				{Name: "bronze", Albedo: "textures/bronze_albedo.png", Normal: "textures/bronze_normals.png", Roughness: "textures/bronze_roughness.png", Metalness: "textures/bronze_metal.png"},
				{Name: "cobblestone", Albedo: "textures/cobblestone_albedo.png", Normal: "textures/cobblestone_normals.png", Roughness: "textures/cobblestone_roughness.png", Metalness: "textures/cobblestone_metal.png"},
				{Name: "scratched", Albedo: "textures/scratched_albedo.png", Normal: "textures/scratched_normals.png", Roughness: "textures/scratched_roughness.png", Metalness: "textures/scratched_metal.png"},
			},
			Animate: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate rejects settings the renderer cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Shadow.Resolution <= 0 {
		errs = append(errs, fmt.Errorf("shadow resolution %d must be positive", c.Shadow.Resolution))
	}
	if c.Shadow.Near >= c.Shadow.Far {
		errs = append(errs, fmt.Errorf("shadow near %v must be below far %v", c.Shadow.Near, c.Shadow.Far))
	}
	if c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far {
		errs = append(errs, fmt.Errorf("camera clip range (%v, %v) is invalid", c.Camera.Near, c.Camera.Far))
	}
	if n := len(c.Scene.SkyFaces); n != 0 && n != 6 {
		errs = append(errs, fmt.Errorf("sky needs 6 faces, got %d", n))
	}
	return errors.Join(errs...)
}
