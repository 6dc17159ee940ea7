package dictionary

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Artifact name suffixes.
const (
	wordsSuffix    = ".words"
	unspacedSuffix = "_unspaced"
	fileExt        = ".dict.yaml"
	sortOriginal   = "original"
)

// PrimaryName is the dictionary name of a scheme's main dictionary.
func PrimaryName(scheme string) string { return scheme }

// WordsName is the dictionary name of a scheme's words-only dictionary.
func WordsName(scheme string) string { return scheme + wordsSuffix }

// UnspacedName is the dictionary name of a scheme's unspaced dictionary.
func UnspacedName(scheme string) string { return scheme + unspacedSuffix }

// FileName returns the file a dictionary called name is written to.
func FileName(name string) string { return name + fileExt }

// Header is the YAML metadata block at the top of a Rime dictionary.
type Header struct {
	Name                string
	Version             string
	Sort                string
	UsePresetVocabulary bool
	ImportTables        []string
}

// PrimaryHeader describes the main dictionary of scheme. It imports the
// words dictionary and enables the preset vocabulary.
func PrimaryHeader(scheme, version string) Header {
	return Header{
		Name:                PrimaryName(scheme),
		Version:             version,
		Sort:                sortOriginal,
		UsePresetVocabulary: true,
		ImportTables:        []string{WordsName(scheme)},
	}
}

// WordsHeader describes the words-only dictionary of scheme.
func WordsHeader(scheme, version string) Header {
	return Header{
		Name:    WordsName(scheme),
		Version: version,
		Sort:    sortOriginal,
	}
}

// Unspaced derives the unspaced header from a primary header: the import
// directives are dropped and the dictionary is renamed.
func (h Header) Unspaced() Header {
	h.Name = UnspacedName(h.Name)
	h.ImportTables = nil
	return h
}

// Render returns the header text, comment banner and YAML document markers
// included. The version is always double-quoted.
func (h Header) Render() (string, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value *yaml.Node) {
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, value)
	}

	add("name", strNode(h.Name))
	add("version", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: h.Version, Style: yaml.DoubleQuotedStyle})
	add("sort", strNode(h.Sort))
	if h.UsePresetVocabulary {
		add("use_preset_vocabulary", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(true)})
	}
	if len(h.ImportTables) > 0 {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, t := range h.ImportTables {
			seq.Content = append(seq.Content, strNode(t))
		}
		add("import_tables", seq)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Rime dictionary: %s\n", h.Name)
	buf.WriteString("# encoding: utf-8\n")
	buf.WriteString("#\n")
	buf.WriteString("# Generated by rime-dict-builder. Do not edit.\n")
	buf.WriteString("\n---\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("encode header %s: %w", h.Name, err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode header %s: %w", h.Name, err)
	}

	buf.WriteString("...\n\n")
	return buf.String(), nil
}

func strNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
