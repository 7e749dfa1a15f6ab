//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

const shaderDir = "assets/shaders"

// Validates every GLSL source under assets/shaders with glslangValidator.
func (Build) Shaders() error {
	return validateShaders()
}

// Builds the testbed binary into bin/.
func (Build) Engine() error {
	mg.Deps(Build.Shaders)
	if _, err := executeCmd("go", withArgs("build", "-o", filepath.Join("bin", "anima"), "."), withStream()); err != nil {
		return err
	}
	return nil
}

func validateShaders() error {
	entries, err := os.ReadDir(shaderDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".vert", ".frag", ".geom", ".comp":
		default:
			continue
		}
		if _, err := executeCmd("glslangValidator", withArgs(filepath.Join(shaderDir, entry.Name()))); err != nil {
			return fmt.Errorf("shader %s: %w", entry.Name(), err)
		}
	}
	return nil
}
