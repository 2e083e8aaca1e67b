package config

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultProperties(t *testing.T) {
	p := Default()
	assert.Equal(t, 8000, p.Coresize)
	assert.Equal(t, 80000, p.MaxCycles)
	assert.Equal(t, 8000, p.MaxProcesses)
	assert.Equal(t, 100, p.MaxLength)
	assert.Equal(t, 100, p.MinDistance)
	assert.Equal(t, p.Coresize, p.ReadDistance)
	assert.Equal(t, p.Coresize, p.WriteDistance)
}

func TestFlagSetOverridesDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	p := FlagSet(fs)
	err := fs.Parse([]string{"-coresize", "200", "-max-cycles", "500"})
	assert.NoError(t, err)
	assert.Equal(t, 200, p.Coresize)
	assert.Equal(t, 500, p.MaxCycles)
	assert.Equal(t, 8000, p.MaxProcesses) // untouched flag keeps its default
}
