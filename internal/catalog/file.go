package catalog

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dari/internal/domain"
)

// File reads listings from a YAML document of the form
//
//	listings:
//	  - id: NAI-APT-001
//	    title: ...
type File struct{ Path string }

type fileDoc struct {
	Listings []domain.Listing `yaml:"listings"`
}

func (f File) LoadListings(context.Context) ([]domain.Listing, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	return DecodeYAML(b)
}

// DecodeYAML rejects unknown keys so typos in a catalog surface at startup.
func DecodeYAML(b []byte) ([]domain.Listing, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	var doc fileDoc
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return doc.Listings, nil
}

// EncodeYAML writes listings in the format DecodeYAML reads.
func EncodeYAML(ls []domain.Listing) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fileDoc{Listings: ls}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
