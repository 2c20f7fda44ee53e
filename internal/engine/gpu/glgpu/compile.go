package glgpu

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// compileProgram compiles one stage into a separable program.
func compileProgram(stageType uint32, source string) (uint32, error) {
	csource, free := gl.Strs(source + "\x00")
	program := gl.CreateShaderProgramv(stageType, 1, csource)
	free()
	if program == 0 {
		return 0, fmt.Errorf("create program failed")
	}

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		log := programInfoLog(program)
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", log)
	}
	return program, nil
}

func programInfoLog(program uint32) string {
	var logLen int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
	if logLen <= 1 {
		return "no info log"
	}
	log := make([]byte, logLen)
	gl.GetProgramInfoLog(program, logLen, nil, &log[0])
	return strings.TrimRight(string(log), "\x00\n")
}

// baseName strips array and member suffixes from a reflected name:
// "lights[0].type" becomes "lights".
func baseName(name string) string {
	if i := strings.IndexAny(name, "[."); i >= 0 {
		return name[:i]
	}
	return name
}
