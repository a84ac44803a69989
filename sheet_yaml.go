package relrect

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// sheetDoc is the on-disk form of a sheet.
type sheetDoc struct {
	Items []itemDoc `yaml:"items"`
}

type itemDoc struct {
	Name string `yaml:"name,omitempty"`
	Rect string `yaml:"rect"`
}

// LoadSheet reads a sheet document and builds a Sheet, adding and applying
// items in document order. Items listed earlier are resolvable by later ones.
func LoadSheet(r io.Reader) (*Sheet, error) {
	var doc sheetDoc
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding sheet: %w", err)
	}

	sheet := NewSheet()
	for i, item := range doc.Items {
		rect, err := ParseRectangle(item.Rect)
		if err != nil {
			return nil, fmt.Errorf("item %d (%s): %w", i, item.Name, err)
		}
		if _, err := sheet.Add(item.Name, rect); err != nil {
			return nil, err
		}
	}
	return sheet, nil
}

// LoadSheetFile reads a sheet document from a file.
func LoadSheetFile(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadSheet(f)
}

// Save writes the sheet back out as a document, items in insertion order with
// their current symbolic rectangles. Load(Save(s)) reproduces structurally
// equal rectangles.
func (s *Sheet) Save(w io.Writer) error {
	doc := sheetDoc{Items: make([]itemDoc, 0, len(s.order))}
	for _, item := range s.Items() {
		doc.Items = append(doc.Items, itemDoc{
			Name: item.Name(),
			Rect: item.Rectangle().String(),
		})
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&doc)
}

// SaveFile writes the sheet document to a file.
func (s *Sheet) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.Save(f)
}
