//go:build mage

// Package main provides the build targets of tutoria using Mage.
//
// Usage:
//
//	mage build          Compile the api, admin and cli binaries to bin/
//	mage test           Run all tests
//	mage testUnit       Run the tests outside the API suite
//	mage testAPI        Run the HTTP API suite
//	mage lint           Run golangci-lint
//	mage migrate        Apply the pending migrations through the admin binary
//	mage clean          Remove build artifacts
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo     = "go"
	binaryDir = "bin"
	apiSuite  = "/apps/api/echo/tests"
)

var binaries = map[string]string{
	"tutoria-api":   "./apps/api",
	"tutoria-admin": "./apps/admin",
	"tutoria":       "./apps/cli",
}

// Build compiles every binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	for name, pkg := range binaries {
		if err := sh.RunV(binGo, "build", "-o", filepath.Join(binaryDir, name), pkg); err != nil {
			return err
		}
	}
	return nil
}

// Test runs all tests.
func Test() error {
	return sh.RunWith(map[string]string{"ENV": "TEST"}, binGo, "test", "./...")
}

// TestUnit runs every test package except the HTTP API suite.
func TestUnit() error {
	pkgs, err := sh.Output(binGo, "list", "./...")
	if err != nil {
		return err
	}
	var unitPkgs []string
	for _, pkg := range strings.Split(pkgs, "\n") {
		if pkg != "" && !strings.HasSuffix(pkg, apiSuite) {
			unitPkgs = append(unitPkgs, pkg)
		}
	}
	if len(unitPkgs) == 0 {
		fmt.Println("No unit test packages found.")
		return nil
	}
	args := append([]string{"test"}, unitPkgs...)
	return sh.RunWith(map[string]string{"ENV": "TEST"}, binGo, args...)
}

// TestAPI runs the HTTP API suite.
func TestAPI() error {
	return sh.RunWith(map[string]string{"ENV": "TEST"}, binGo, "test", "."+apiSuite+"/...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Migrate builds the admin binary and applies the pending migrations.
func Migrate() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binaryDir, "tutoria-admin"), "migrate", "up")
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll(binaryDir)
}
