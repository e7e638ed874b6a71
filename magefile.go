//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary  = "merhaba"
	mainPkg = "./cmd/merhaba"
)

// Default target to run when none is specified
var Default = Build

// Build compiles the merhaba binary
func Build() error {
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-o", binary, mainPkg)
}

// BuildNoCGO compiles a binary without the audio device
func BuildNoCGO() error {
	env := map[string]string{"CGO_ENABLED": "0"}
	return sh.RunWithV(env, "go", "build", "-tags", "nocgo", "-o", binary, mainPkg)
}

// Test runs all unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Race runs all unit tests with the race detector
func Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install builds and copies the binary to $GOPATH/bin
func Install() error {
	mg.Deps(Build)

	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	dst := filepath.Join(gopath, "bin", binary)
	fmt.Println("Installing to", dst)
	return sh.Copy(dst, binary)
}

// Man writes the manual page to merhaba.1
func Man() error {
	mg.Deps(Build)

	page, err := sh.Output("./"+binary, "man")
	if err != nil {
		return err
	}
	return os.WriteFile(binary+".1", []byte(page+"\n"), 0644)
}

// Clean removes build artifacts
func Clean() error {
	for _, f := range []string{binary, binary + ".1"} {
		if err := sh.Rm(f); err != nil {
			return err
		}
	}
	return nil
}
