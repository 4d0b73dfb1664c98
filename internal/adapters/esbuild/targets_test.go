package esbuild_test

import (
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/esbuild"
	"go.trai.ch/kiln/internal/core/domain"
)

func TestParseTarget(t *testing.T) {
	got, err := esbuild.ParseTarget("ES2015")
	require.NoError(t, err)
	assert.Equal(t, api.ES2015, got)

	_, err = esbuild.ParseTarget("es1999")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigInvalid.Error())
}

func TestParseEngines(t *testing.T) {
	got, err := esbuild.ParseEngines(domain.DefaultConfig().Style.PrefixTargets)
	require.NoError(t, err)
	assert.Equal(t, []api.Engine{
		{Name: api.EngineChrome, Version: "129"},
		{Name: api.EngineEdge, Version: "129"},
		{Name: api.EngineFirefox, Version: "130"},
		{Name: api.EngineSafari, Version: "17.5"},
		{Name: api.EngineIOS, Version: "17.5"},
		{Name: api.EngineOpera, Version: "113"},
	}, got)

	for _, bad := range []string{"netscape4", "chrome", "129", ""} {
		_, err := esbuild.ParseEngines([]string{bad})
		assert.Error(t, err, bad)
	}
}
