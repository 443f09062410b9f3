package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docstruct/internal/doctree"
)

// stylesPart mirrors the parts of word/styles.xml we need.
type stylesPart struct {
	Styles []struct {
		Type string `xml:"type,attr"`
		ID   string `xml:"styleId,attr"`
		Name struct {
			Val string `xml:"val,attr"`
		} `xml:"name"`
	} `xml:"style"`
}

// Word stores some built-in style names in lowercase ("heading 1") and shows
// them capitalized in the UI. Localized documents also use ids such as "1"
// for Heading 1, so the id alone is not enough.
var builtinStyleNames = map[string]string{
	"caption": "Caption",
	"footer":  "Footer",
	"header":  "Header",
	"title":   "Title",
}

func init() {
	for i := 1; i <= 9; i++ {
		builtinStyleNames[strings.ToLower(doctree.HeadingStyle(i))] = doctree.HeadingStyle(i)
	}
}

// parseStyleNames maps paragraph style ids to their display names.
func parseStyleNames(r io.Reader) (map[string]string, error) {
	var part stylesPart
	if err := xml.NewDecoder(r).Decode(&part); err != nil {
		return nil, fmt.Errorf("parse styles.xml: %w", err)
	}
	names := make(map[string]string, len(part.Styles))
	for _, s := range part.Styles {
		if s.ID == "" || s.Name.Val == "" {
			continue
		}
		if s.Type != "" && s.Type != "paragraph" {
			continue
		}
		names[s.ID] = s.Name.Val
	}
	return names, nil
}

// resolveStyleName turns a paragraph's style id into a display name.
func resolveStyleName(id string, names map[string]string) string {
	if id == "" {
		return doctree.StyleNormal
	}
	name, ok := names[id]
	if !ok {
		name = id
	}
	if builtin, ok := builtinStyleNames[strings.ToLower(name)]; ok {
		return builtin
	}
	return name
}
