// Package sfc splits a raw component file into its template, script, and
// style regions with per-region language classification.
package sfc

import (
	"strings"

	"github.com/walteh/vuesynth/pkg/position"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
)

// Region is one top-level section of a component file. Range covers the
// section's content, excluding the enclosing tags.
type Region struct {
	Lang  string
	Range position.Range
}

// Descriptor is the set of regions extracted from a component file. A
// component has at most one script and one template section; style sections
// may repeat.
type Descriptor struct {
	Template *Region
	Script   *Region
	Styles   []Region
}

// Content returns the text covered by r within the component file text.
func (r *Region) Content(text string) string {
	if r == nil {
		return ""
	}
	return text[r.Range.Start:r.Range.End]
}

var defaultLangs = map[string]string{
	"template": "vue-html",
	"script":   "js",
	"style":    "css",
}

// ParseRegions extracts the top-level regions from component file text.
// Malformed blocks are reported through the combined error; regions that did
// parse are still returned.
func ParseRegions(text string) (*Descriptor, error) {
	desc := &Descriptor{}
	var errs error

	pos := 0
	for pos < len(text) {
		idx := strings.IndexByte(text[pos:], '<')
		if idx < 0 {
			break
		}
		pos += idx

		name, ok := blockNameAt(text, pos)
		if !ok {
			pos++
			continue
		}

		region, next, err := parseBlock(text, pos, name)
		if err != nil {
			errs = multierr.Append(errs, err)
			pos = next
			continue
		}
		pos = next

		switch name {
		case "template":
			if desc.Template == nil {
				desc.Template = region
			}
		case "script":
			if desc.Script == nil {
				desc.Script = region
			}
		case "style":
			desc.Styles = append(desc.Styles, *region)
		}
	}

	return desc, errs
}

// blockNameAt reports whether a top-level block tag opens at offset.
func blockNameAt(text string, offset int) (string, bool) {
	for _, name := range []string{"template", "script", "style"} {
		if !strings.HasPrefix(text[offset+1:], name) {
			continue
		}
		after := offset + 1 + len(name)
		if after >= len(text) || text[after] == '>' || text[after] == ' ' ||
			text[after] == '\t' || text[after] == '\r' || text[after] == '\n' {
			return name, true
		}
	}
	return "", false
}

// parseBlock parses one top-level block starting at open and returns its
// region plus the offset to resume scanning at.
func parseBlock(text string, open int, name string) (*Region, int, error) {
	tagEnd := strings.IndexByte(text[open:], '>')
	if tagEnd < 0 {
		return nil, len(text), errors.Errorf("unterminated <%s> tag at offset %d", name, open)
	}
	tagEnd += open

	lang := defaultLangs[name]
	if v, ok := attrValue(text[open:tagEnd], "lang"); ok {
		lang = v
	}

	if text[tagEnd-1] == '/' {
		// self-closing block has no content
		return &Region{Lang: lang, Range: position.NewRange(tagEnd+1, tagEnd+1)}, tagEnd + 1, nil
	}

	contentStart := tagEnd + 1
	closeTag := "</" + name

	// template blocks may nest their own tag; script and style are raw text
	depth := 1
	pos := contentStart
	for pos < len(text) {
		if name == "template" && openTagAt(text, pos, name) {
			depth++
			pos++
			continue
		}
		if strings.HasPrefix(text[pos:], closeTag) {
			depth--
			if depth == 0 {
				end := strings.IndexByte(text[pos:], '>')
				if end < 0 {
					return nil, len(text), errors.Errorf("unterminated %s> at offset %d", closeTag, pos)
				}
				region := &Region{Lang: lang, Range: position.NewRange(contentStart, pos)}
				return region, pos + end + 1, nil
			}
			pos += len(closeTag)
			continue
		}
		pos++
	}

	return nil, len(text), errors.Errorf("missing %s> for block at offset %d", closeTag, open)
}

func openTagAt(text string, offset int, name string) bool {
	if offset >= len(text) || text[offset] != '<' {
		return false
	}
	n, ok := blockNameAt(text, offset)
	return ok && n == name
}

// attrValue extracts a quoted attribute value from a raw tag string.
func attrValue(tag, name string) (string, bool) {
	idx := strings.Index(tag, name+"=")
	if idx < 0 {
		return "", false
	}
	rest := tag[idx+len(name)+1:]
	if rest == "" {
		return "", false
	}
	quote := rest[0]
	if quote != '"' && quote != '\'' {
		return "", false
	}
	end := strings.IndexByte(rest[1:], quote)
	if end < 0 {
		return "", false
	}
	return rest[1 : 1+end], true
}
