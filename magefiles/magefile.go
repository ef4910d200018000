//go:build mage

// Package main provides build targets for the folio project using Mage.
//
// Usage:
//
//	mage build     Compile the folio binary to bin/
//	mage test      Run all tests
//	mage race      Run all tests with the race detector
//	mage cover     Run tests and write coverage.out
//	mage lint      Run golangci-lint
//	mage vet       Run go vet
//	mage clean     Remove build artifacts
//	mage install   Install folio to GOPATH/bin
//	mage stats     Print Go lines of code
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "folio"
	binaryDir  = "bin"
	cmdDir     = "./cmd/folio"
	versionVar = "github.com/mesh-intelligence/folio/internal/cli.Version"
)

// Build compiles the folio binary to bin/, stamping the version from
// `git describe` when available.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-v"}
	if v := gitVersion(); v != "" {
		args = append(args, "-ldflags", "-X "+versionVar+"="+v)
	}
	args = append(args, "-o", filepath.Join(binaryDir, binaryName), cmdDir)
	return sh.RunV(binGo, args...)
}

// Clean removes build artifacts.
func Clean() error {
	for _, p := range []string{binaryDir, coverProfile} {
		if err := os.RemoveAll(p); err != nil {
			return err
		}
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// gitVersion returns the tag-based version, or "" outside a git checkout.
func gitVersion() string {
	out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.TrimSpace(out), "v")
}
