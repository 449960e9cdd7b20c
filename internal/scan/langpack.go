package scan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LanguagePack is the on-disk format for user-supplied language definitions.
// A pack file holds one or more languages:
//
//	languages:
//	  - name: ini
//	    extensions: [".ini", ".cfg"]
//	    comments:
//	      - start: ";"
//	      - start: "#"
//	    strings:
//	      - start: '"'
//	        end: '"'
//	        escape: "\\"
type LanguagePack struct {
	Languages []LanguageDef `yaml:"languages"`
}

// LanguageDef is the YAML shape of a single language definition.
type LanguageDef struct {
	Name               string       `yaml:"name"`
	Extensions         []string     `yaml:"extensions"`
	Strings            []StringDef  `yaml:"strings"`
	Comments           []CommentDef `yaml:"comments"`
	TagMode            bool         `yaml:"tag_mode"`
	Separator          string       `yaml:"separator"`
	SeparatorIsPattern bool         `yaml:"separator_is_pattern"`
}

// StringDef is the YAML shape of a string rule.
type StringDef struct {
	Start     string `yaml:"start"`
	End       string `yaml:"end"`
	Escape    string `yaml:"escape"`
	Multiline bool   `yaml:"multiline"`
}

// CommentDef is the YAML shape of a comment rule.
type CommentDef struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// LoadPack reads a language pack file and registers its languages.
func (r *Registry) LoadPack(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading language pack %s: %w", path, err)
	}
	return r.ParsePack(data)
}

// ParsePack parses YAML language pack data and registers its languages.
func (r *Registry) ParsePack(data []byte) error {
	var pack LanguagePack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return fmt.Errorf("parsing language pack: %w", err)
	}

	for _, def := range pack.Languages {
		lang, err := def.toLanguage()
		if err != nil {
			return err
		}
		r.Register(lang)
	}
	return nil
}

// toLanguage converts a YAML definition to a Language.
func (d LanguageDef) toLanguage() (*Language, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("language pack entry missing name")
	}

	lang := &Language{
		Name:               d.Name,
		Extensions:         d.Extensions,
		TagMode:            d.TagMode,
		Separator:          d.Separator,
		SeparatorIsPattern: d.SeparatorIsPattern,
	}

	for _, s := range d.Strings {
		if s.Start == "" {
			return nil, fmt.Errorf("language %s: string rule missing start", d.Name)
		}
		end := s.End
		if end == "" {
			end = s.Start
		}
		var escape byte
		if s.Escape != "" {
			escape = s.Escape[0]
		}
		lang.Strings = append(lang.Strings, StringRule{
			Start:     s.Start,
			End:       end,
			Escape:    escape,
			Multiline: s.Multiline,
		})
	}

	for _, c := range d.Comments {
		if c.Start == "" {
			return nil, fmt.Errorf("language %s: comment rule missing start", d.Name)
		}
		lang.Comments = append(lang.Comments, CommentRule{Start: c.Start, End: c.End})
	}

	return lang, nil
}
