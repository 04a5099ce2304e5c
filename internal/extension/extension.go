// Package extension loads user supplied Go source files that add syntax to
// markdown conversion. The files are interpreted with yaegi and may only
// import a set of standard library packages.
//
// An extension file declares
//
//	func Transform(text string) (string, error)
//
// and optionally
//
//	func Type() string
//
// returning "lang" to run on the markdown before conversion (the default) or
// "output" to run on the converted text.
package extension

import (
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

type Type string

const (
	TypeLang   Type = "lang"
	TypeOutput Type = "output"
)

var allowedImports = []string{
	"bytes",
	"encoding/base64",
	"encoding/json",
	"fmt",
	"html",
	"math",
	"net/url",
	"path",
	"regexp",
	"sort",
	"strconv",
	"strings",
	"text/template",
	"time",
	"unicode",
	"unicode/utf8",
}

// LoadError reports an extension that could not be loaded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("could not load extension %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

type Extension struct {
	Path      string
	Type      Type
	transform func(string) (string, error)
}

// Transform runs the extension on text.
func (e *Extension) Transform(text string) (string, error) {
	result, err := e.transform(text)
	if err != nil {
		return "", fmt.Errorf("extension %s: %w", e.Path, err)
	}
	return result, nil
}

// Load interprets the extension at path.
func Load(path string) (*Extension, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	ext, err := compile(path, string(source))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return ext, nil
}

// LoadAll loads the extensions in the given order and stops at the first failure.
func LoadAll(paths []string) ([]*Extension, error) {
	extensions := make([]*Extension, 0, len(paths))
	for _, path := range paths {
		ext, err := Load(path)
		if err != nil {
			return nil, err
		}
		extensions = append(extensions, ext)
	}
	return extensions, nil
}

func compile(path string, source string) (*Extension, error) {
	if !strings.Contains(source, "package ") {
		source = "package main\n\n" + source
	}
	if err := validateImports(source); err != nil {
		return nil, err
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("failed to load stdlib: %w", err)
	}
	if _, err := i.Eval(source); err != nil {
		return nil, fmt.Errorf("code evaluation failed: %w", err)
	}

	packageName, err := packageOf(source)
	if err != nil {
		return nil, err
	}

	transformValue, err := i.Eval(packageName + ".Transform")
	if err != nil {
		return nil, fmt.Errorf("function Transform not found: %w", err)
	}
	transform, ok := transformValue.Interface().(func(string) (string, error))
	if !ok {
		return nil, errors.New("function Transform has incorrect signature (expected: func(string) (string, error))")
	}

	ext := &Extension{
		Path:      path,
		Type:      TypeLang,
		transform: transform,
	}

	typeValue, err := i.Eval(packageName + ".Type")
	if err != nil {
		return ext, nil
	}
	typeFunc, ok := typeValue.Interface().(func() string)
	if !ok {
		return nil, errors.New("function Type has incorrect signature (expected: func() string)")
	}
	switch t := Type(typeFunc()); t {
	case TypeLang, TypeOutput:
		ext.Type = t
	default:
		return nil, fmt.Errorf("unknown extension type %q", t)
	}
	return ext, nil
}

func packageOf(source string) (string, error) {
	file, err := parser.ParseFile(token.NewFileSet(), "", source, parser.PackageClauseOnly)
	if err != nil {
		return "", fmt.Errorf("parser.ParseFile() > %w", err)
	}
	return file.Name.Name, nil
}

func validateImports(source string) error {
	file, err := parser.ParseFile(token.NewFileSet(), "", source, parser.ImportsOnly)
	if err != nil {
		return fmt.Errorf("parser.ParseFile() > %w", err)
	}

	var forbidden []string
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			return fmt.Errorf("strconv.Unquote() > %w", err)
		}
		if !slices.Contains(allowedImports, path) {
			forbidden = append(forbidden, path)
		}
	}
	if len(forbidden) > 0 {
		return fmt.Errorf("forbidden imports detected: %v (allowed: %v)", forbidden, allowedImports)
	}
	return nil
}
