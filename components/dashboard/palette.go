package dashboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	paletteVersionV1 = "1"
	// PaletteVersion exposes the current palette document version for tooling.
	PaletteVersion = paletteVersionV1
)

// PaletteEntry is one widget type offered by the "Add Widget" palette.
type PaletteEntry struct {
	Kind        WidgetKind `json:"type" yaml:"type"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Icon        string     `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// PaletteDocument is the YAML form of a palette override file.
type PaletteDocument struct {
	Version string         `json:"version" yaml:"version"`
	Name    string         `json:"name,omitempty" yaml:"name,omitempty"`
	Widgets []PaletteEntry `json:"widgets" yaml:"widgets"`
	Source  string         `json:"-" yaml:"-"`
}

// Palette holds the entries offered to users, one per widget kind.
type Palette struct {
	mu      sync.RWMutex
	entries map[WidgetKind]PaletteEntry
}

// NewPalette builds a palette seeded with DefaultPalette.
func NewPalette() *Palette {
	p := &Palette{entries: make(map[WidgetKind]PaletteEntry)}
	for _, entry := range DefaultPalette() {
		_ = p.Register(entry)
	}
	return p
}

// Register adds or replaces the entry for its kind.
func (p *Palette) Register(entry PaletteEntry) error {
	if !entry.Kind.Known() {
		return fmt.Errorf("%w: %q", ErrUnknownWidgetKind, entry.Kind)
	}
	if entry.Name == "" {
		return fmt.Errorf("dashboard: palette entry %s is missing a name", entry.Kind)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[entry.Kind] = entry
	return nil
}

// Entry returns the palette entry for kind.
func (p *Palette) Entry(kind WidgetKind) (PaletteEntry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	entry, ok := p.entries[kind]
	return entry, ok
}

// Entries returns the palette in kind order.
func (p *Palette) Entries() []PaletteEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]PaletteEntry, 0, len(p.entries))
	for _, kind := range knownKinds {
		if entry, ok := p.entries[kind]; ok {
			out = append(out, entry)
		}
	}
	return out
}

// LoadPaletteFile reads a palette document from disk and registers its entries.
func (p *Palette) LoadPaletteFile(path string) (*PaletteDocument, error) {
	doc, err := ReadPalette(path)
	if err != nil {
		return nil, err
	}
	if err := p.LoadPaletteDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadPaletteDocument registers every entry of a decoded document.
func (p *Palette) LoadPaletteDocument(doc *PaletteDocument) error {
	if doc == nil {
		return errors.New("dashboard: palette document is nil")
	}
	for _, entry := range doc.Widgets {
		if err := p.Register(entry); err != nil {
			return fmt.Errorf("dashboard: register palette entry from %s: %w", doc.Source, err)
		}
	}
	return nil
}

// ReadPalette loads a palette document without registering it.
func ReadPalette(path string) (*PaletteDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open palette %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodePalette(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: decode palette %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodePalette reads a palette document from any reader.
func DecodePalette(r io.Reader) (*PaletteDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc PaletteDocument
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("dashboard: palette is empty")
		}
		return nil, fmt.Errorf("dashboard: parse palette: %w", err)
	}
	if doc.Version == "" {
		doc.Version = paletteVersionV1
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// EncodePalette writes doc as YAML.
func EncodePalette(w io.Writer, doc *PaletteDocument) error {
	if doc == nil {
		return errors.New("dashboard: palette document is nil")
	}
	if doc.Version == "" {
		doc.Version = paletteVersionV1
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("dashboard: encode palette: %w", err)
	}
	return encoder.Close()
}

// Validate ensures the document only names supported kinds, each once.
func (doc *PaletteDocument) Validate() error {
	if doc.Version != paletteVersionV1 {
		return fmt.Errorf("dashboard: unsupported palette version %q", doc.Version)
	}
	seen := make(map[WidgetKind]struct{}, len(doc.Widgets))
	for idx, entry := range doc.Widgets {
		if entry.Kind == "" {
			return fmt.Errorf("dashboard: palette entry at index %d is missing type", idx)
		}
		if !entry.Kind.Known() {
			return fmt.Errorf("%w: palette entry %q", ErrUnknownWidgetKind, entry.Kind)
		}
		if entry.Name == "" {
			return fmt.Errorf("dashboard: palette entry %s missing name", entry.Kind)
		}
		if _, exists := seen[entry.Kind]; exists {
			return fmt.Errorf("dashboard: palette duplicates widget type %s", entry.Kind)
		}
		seen[entry.Kind] = struct{}{}
	}
	return nil
}
