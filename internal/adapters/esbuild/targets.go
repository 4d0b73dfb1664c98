// Package esbuild transpiles, prefixes, and minifies assets with esbuild's transform API.
package esbuild

import (
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

var languageTargets = map[string]api.Target{
	"esnext": api.ESNext,
	"es5":    api.ES5,
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
}

var engineNames = map[string]api.EngineName{
	"chrome":  api.EngineChrome,
	"edge":    api.EngineEdge,
	"firefox": api.EngineFirefox,
	"safari":  api.EngineSafari,
	"ios":     api.EngineIOS,
	"opera":   api.EngineOpera,
}

// ParseTarget resolves a language level such as "es2015".
func ParseTarget(s string) (api.Target, error) {
	t, ok := languageTargets[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, zerr.With(domain.ErrConfigInvalid, "script.target", s)
	}
	return t, nil
}

// ParseEngines resolves browser targets such as "chrome129" or "safari17.5".
func ParseEngines(targets []string) ([]api.Engine, error) {
	engines := make([]api.Engine, 0, len(targets))
	for _, raw := range targets {
		s := strings.ToLower(strings.TrimSpace(raw))
		i := strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' })
		if i <= 0 {
			return nil, zerr.With(domain.ErrConfigInvalid, "style.prefixTargets", raw)
		}
		name, ok := engineNames[s[:i]]
		if !ok {
			return nil, zerr.With(domain.ErrConfigInvalid, "style.prefixTargets", raw)
		}
		engines = append(engines, api.Engine{Name: name, Version: s[i:]})
	}
	return engines, nil
}
