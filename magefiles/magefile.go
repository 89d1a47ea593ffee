//go:build mage

// Package main contains Mage build targets for paperdoc.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary    = "bin/paperdoc"
	sampleIn  = "testdata/sample.md"
	sampleDir = "output"
)

// Default target when mage runs without arguments.
var Default = Build

// Build compiles the paperdoc CLI into bin/.
func Build() error {
	if err := os.MkdirAll(filepath.Dir(binary), 0o755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-o", binary, ".")
}

// Test runs the unit tests of every package.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet over the module.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Sample renders testdata/sample.md with both PDF backends and as .docx.
func Sample() error {
	mg.Deps(Build)
	if err := os.MkdirAll(sampleDir, 0o755); err != nil {
		return err
	}
	runs := []struct {
		out     string
		backend string
	}{
		{"sample.docx", ""},
		{"sample-canvas.pdf", "canvas"},
		{"sample-fpdf.pdf", "fpdf"},
	}
	for _, r := range runs {
		args := []string{"convert", "--in", sampleIn, "--out", filepath.Join(sampleDir, r.out)}
		if r.backend != "" {
			args = append(args, "--backend", r.backend)
		}
		if err := sh.RunV(binary, args...); err != nil {
			return fmt.Errorf("sample %s: %w", r.out, err)
		}
	}
	return sh.RunV(binary, "inspect", "--in", sampleIn)
}

// Clean removes build and sample outputs.
func Clean() error {
	for _, dir := range []string{filepath.Dir(binary), sampleDir} {
		if err := sh.Rm(dir); err != nil {
			return err
		}
	}
	return nil
}
