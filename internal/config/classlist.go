package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// WindowClass is one entry of window_match.classes.
type WindowClass struct {
	Class string `yaml:"class"`
	// Ignore excludes the class instead of admitting it.
	Ignore bool `yaml:"ignore,omitempty"`
}

// ClassList supports either:
//
//	classes:
//	  - "kitty"
//	  - "Alacritty"
//
// or:
//
//	classes:
//	  - class: Gimp
//	    ignore: true
//	  - class: Alacritty
type ClassList []WindowClass

func (l *ClassList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.SequenceNode:
		out := make([]WindowClass, 0, len(value.Content))
		for _, item := range value.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				if item.Tag != "!!str" {
					return fmt.Errorf("classes entries must be strings or mappings")
				}
				class := strings.TrimSpace(item.Value)
				if class == "" {
					return fmt.Errorf("classes entries must not be empty")
				}
				out = append(out, WindowClass{Class: class})

			case yaml.MappingNode:
				wc, err := decodeClassMapping(item)
				if err != nil {
					return err
				}
				out = append(out, wc)

			default:
				return fmt.Errorf("classes entries must be strings or mappings")
			}
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("classes must be a list")
	}
}

func decodeClassMapping(node *yaml.Node) (WindowClass, error) {
	var wc WindowClass
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		val := node.Content[i+1]
		if key.Kind != yaml.ScalarNode || key.Tag != "!!str" {
			return WindowClass{}, fmt.Errorf("classes mapping keys must be strings")
		}
		switch key.Value {
		case "class":
			if val.Kind != yaml.ScalarNode || val.Tag != "!!str" {
				return WindowClass{}, fmt.Errorf("classes.class must be a string")
			}
			wc.Class = strings.TrimSpace(val.Value)
		case "ignore":
			if val.Kind != yaml.ScalarNode || val.Tag != "!!bool" {
				return WindowClass{}, fmt.Errorf("classes.ignore must be a boolean")
			}
			wc.Ignore = val.Value == "true"
		default:
			return WindowClass{}, fmt.Errorf("classes: unknown field %q", key.Value)
		}
	}
	if wc.Class == "" {
		return WindowClass{}, fmt.Errorf("classes entries must set class")
	}
	return wc, nil
}

// Allowed returns the admitted class names.
func (l ClassList) Allowed() []string {
	var out []string
	for _, c := range l {
		if !c.Ignore {
			out = append(out, c.Class)
		}
	}
	return out
}

// Ignored returns the excluded class names.
func (l ClassList) Ignored() []string {
	var out []string
	for _, c := range l {
		if c.Ignore {
			out = append(out, c.Class)
		}
	}
	return out
}
