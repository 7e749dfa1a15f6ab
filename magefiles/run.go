//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Validates the shaders and runs the testbed with hot reload enabled.
func (Run) Engine() error {
	if err := validateShaders(); err != nil {
		return err
	}
	fmt.Println("Run engine...")
	if _, err := executeCmd("go", withArgs("run", ".", "-hot-reload"), withStream()); err != nil {
		return err
	}
	return nil
}
