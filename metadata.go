package nftlayers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Attribute is one {trait_type, value} pair of a metadata record.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Metadata is the JSON record written next to each image.
type Metadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
	Palette     []string    `json:"palette,omitempty"`
}

// MetadataOptions controls the text fields of generated records.
type MetadataOptions struct {
	NamePrefix   string
	Description  string
	ImageBaseURI string
}

func DefaultMetadataOptions() MetadataOptions {
	return MetadataOptions{
		NamePrefix:   "NFT",
		Description:  "Unique auto-generated NFT",
		ImageBaseURI: "ipfs://bafybeie4quiuijoxfxrunqy2ltamw5bhoynjuolnq25fcg6scdflfx5soi",
	}
}

// TraitValue strips the file extension from a trait file name.
func TraitValue(trait string) string {
	return strings.TrimSuffix(trait, filepath.Ext(trait))
}

// NewMetadata builds the record for artifact id. Attributes follow the
// combination order one to one.
func NewMetadata(id int, combo Combination, opt MetadataOptions) Metadata {
	attrs := make([]Attribute, 0, len(combo))
	for _, s := range combo {
		attrs = append(attrs, Attribute{TraitType: s.Category, Value: TraitValue(s.Trait)})
	}
	return Metadata{
		Name:        fmt.Sprintf("%s #%d", opt.NamePrefix, id),
		Description: opt.Description,
		Image:       fmt.Sprintf("%s/%d.png", strings.TrimSuffix(opt.ImageBaseURI, "/"), id),
		Attributes:  attrs,
	}
}

// WriteMetadata writes m as indented JSON to path.
func WriteMetadata(path string, m Metadata) error {
	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadMetadata reads one record written by WriteMetadata.
func ReadMetadata(path string) (Metadata, error) {
	var m Metadata
	data, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}
