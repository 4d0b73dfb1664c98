package pipeline

import (
	"bytes"
	"encoding/base64"
	"regexp"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

const inlineMapPrefix = "data:application/json;charset=utf8;base64,"

// inlineMapPattern matches a trailing sourceMappingURL comment carrying a base64 data URI.
var inlineMapPattern = regexp.MustCompile(
	`(?m)(?:/\*|//)[#@]\s*sourceMappingURL=data:application/json[^,]*;base64,([A-Za-z0-9+/=_-]+)\s*(?:\*/)?[ \t]*\r?\n?`,
)

// initSourceMaps starts tracking every file. With LoadMaps an inline map is decoded into
// the file and its comment removed; with LargeFile only the final line is inspected.
func initSourceMaps(files []*domain.File, stage domain.Stage) ([]*domain.File, error) {
	for _, f := range files {
		f.Tracked = true
		if !stage.LoadMaps {
			continue
		}

		offset := 0
		if stage.LargeFile {
			offset = lastLineStart(f.Contents)
		}

		loc := lastMatch(f.Contents[offset:])
		if loc == nil {
			continue
		}
		start, end := offset+loc[0], offset+loc[1]
		encoded := f.Contents[offset+loc[2] : offset+loc[3]]

		decoded, err := decodeBase64(encoded)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrSourceMapDecodeFailed.Error()), "path", f.Path)
		}

		f.SourceMap = decoded
		f.Contents = append(f.Contents[:start:start], f.Contents[end:]...)
	}
	return files, nil
}

func lastMatch(data []byte) []int {
	all := inlineMapPattern.FindAllSubmatchIndex(data, -1)
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}

// lastLineStart returns the offset of the last non-empty line.
func lastLineStart(data []byte) int {
	trimmed := bytes.TrimRight(data, "\r\n\t ")
	return bytes.LastIndexByte(trimmed, '\n') + 1
}

func decodeBase64(encoded []byte) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(string(encoded))
	if err == nil {
		return decoded, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(string(encoded)); rawErr == nil {
		return raw, nil
	}
	return nil, err
}

func inlineURL(sourceMap []byte) string {
	return inlineMapPrefix + base64.StdEncoding.EncodeToString(sourceMap)
}

// mapComment returns the sourceMappingURL comment for url in the comment syntax of path.
func mapComment(path, url string) []byte {
	if isStylesheet(path) {
		return []byte("\n/*# sourceMappingURL=" + url + " */\n")
	}
	return []byte("\n//# sourceMappingURL=" + url + "\n")
}
