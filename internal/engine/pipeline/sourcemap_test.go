package pipeline_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/pipeline"
)

const sampleMap = `{"version":3,"sources":["a.css"],"mappings":"AAAA"}`

func inline(comment string) string {
	return "/*# sourceMappingURL=data:application/json;charset=utf8;base64," +
		base64.StdEncoding.EncodeToString([]byte(sampleMap)) + comment
}

func TestInitSourceMaps_TracksWithoutLoading(t *testing.T) {
	f := &domain.File{Path: "/p/a.css", Contents: []byte("a{}\n" + inline(" */"))}

	files, err := pipeline.InitSourceMapsForTest([]*domain.File{f}, domain.Stage{Kind: domain.StageSourceMapsInit})
	require.NoError(t, err)

	assert.True(t, files[0].Tracked)
	assert.Nil(t, files[0].SourceMap)
	assert.Contains(t, string(files[0].Contents), "sourceMappingURL")
}

func TestInitSourceMaps_LoadsInlineMap(t *testing.T) {
	f := &domain.File{Path: "/p/a.css", Contents: []byte("a{}\n" + inline(" */") + "\n")}

	files, err := pipeline.InitSourceMapsForTest([]*domain.File{f}, domain.Stage{
		Kind:     domain.StageSourceMapsInit,
		LoadMaps: true,
	})
	require.NoError(t, err)

	assert.JSONEq(t, sampleMap, string(files[0].SourceMap))
	assert.Equal(t, "a{}\n", string(files[0].Contents))
}

func TestInitSourceMaps_LargeFileOnlyInspectsLastLine(t *testing.T) {
	body := inline(" */") + "\nb{}\n"
	f := &domain.File{Path: "/p/a.css", Contents: []byte(body)}

	files, err := pipeline.InitSourceMapsForTest([]*domain.File{f}, domain.Stage{
		Kind:      domain.StageSourceMapsInit,
		LoadMaps:  true,
		LargeFile: true,
	})
	require.NoError(t, err)

	assert.Nil(t, files[0].SourceMap)
	assert.Equal(t, body, string(files[0].Contents))
}

func TestInitSourceMaps_NoMap(t *testing.T) {
	f := &domain.File{Path: "/p/a.css", Contents: []byte("a{}")}

	files, err := pipeline.InitSourceMapsForTest([]*domain.File{f}, domain.Stage{
		Kind:     domain.StageSourceMapsInit,
		LoadMaps: true,
	})
	require.NoError(t, err)
	assert.Nil(t, files[0].SourceMap)
	assert.Equal(t, "a{}", string(files[0].Contents))
}

func TestWriteMaps_Inline(t *testing.T) {
	f := &domain.File{Path: "/p/a.css", Contents: []byte("a{}"), SourceMap: []byte(sampleMap), Tracked: true}

	files := pipeline.WriteMapsForTest([]*domain.File{f}, "")
	require.Len(t, files, 1)

	expected := "a{}\n/*# sourceMappingURL=data:application/json;charset=utf8;base64," +
		base64.StdEncoding.EncodeToString([]byte(sampleMap)) + " */\n"
	assert.Equal(t, expected, string(files[0].Contents))
	assert.False(t, files[0].Tracked)
	assert.Nil(t, files[0].SourceMap)
}

func TestWriteMaps_InlineScript(t *testing.T) {
	f := &domain.File{Path: "/p/a.js", Contents: []byte("x()"), SourceMap: []byte(sampleMap), Tracked: true}

	files := pipeline.WriteMapsForTest([]*domain.File{f}, "")
	assert.Contains(t, string(files[0].Contents), "\n//# sourceMappingURL=data:")
}

func TestWriteMaps_Companion(t *testing.T) {
	f := &domain.File{Base: "/p", Path: "/p/style.css", Contents: []byte("a{}"), SourceMap: []byte(sampleMap), Tracked: true}

	files := pipeline.WriteMapsForTest([]*domain.File{f}, "maps")
	require.Len(t, files, 2)

	assert.Equal(t, "a{}\n/*# sourceMappingURL=maps/style.css.map */\n", string(files[0].Contents))
	assert.Equal(t, "/p/maps/style.css.map", files[1].Path)
	assert.Equal(t, "maps/style.css.map", files[1].Relative())
	assert.True(t, files[1].IsMap())
	assert.Equal(t, sampleMap, string(files[1].Contents))
}

func TestWriteMaps_UntrackedPassThrough(t *testing.T) {
	f := &domain.File{Path: "/p/a.css", Contents: []byte("a{}")}

	files := pipeline.WriteMapsForTest([]*domain.File{f}, "maps")
	require.Len(t, files, 1)
	assert.Equal(t, "a{}", string(files[0].Contents))
}

func TestInitSourceMaps_DecodeFailure(t *testing.T) {
	f := &domain.File{
		Path:     "/p/a.css",
		Contents: []byte("a{}\n/*# sourceMappingURL=data:application/json;base64,A */"),
	}

	_, err := pipeline.InitSourceMapsForTest([]*domain.File{f}, domain.Stage{
		Kind:     domain.StageSourceMapsInit,
		LoadMaps: true,
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrSourceMapDecodeFailed.Error())
}
