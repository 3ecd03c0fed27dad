package pkgutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPackagesFromSource(t *testing.T) {
	pkgs, err := LoadPackagesFromSource(`
		package main
		func main() { println(1) }`)
	require.NoError(t, err)
	require.Len(t, pkgs, 1)

	prog, spkgs := BuildSSA(pkgs)
	require.Len(t, spkgs, 1)
	assert.NotNil(t, spkgs[0].Func("main"))
	assert.NotNil(t, prog.ImportedPackage(pkgs[0].PkgPath))
}

func TestLoadPackagesFromSourceErrors(t *testing.T) {
	_, err := LoadPackagesFromSource(`
		package main
		func main() { undefined() }`)
	assert.Error(t, err)
}
