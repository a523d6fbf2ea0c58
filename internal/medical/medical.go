// Package medical is the directory of designated medical institutions used
// to prefill the medical step.
package medical

import (
	_ "embed"
	"os"
	"strings"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/rosai-assist/rosai/internal/errors"
	"github.com/rosai-assist/rosai/internal/logging"
)

//go:embed data/institutions.json
var embeddedCatalog []byte

// Institution is one directory record.
type Institution struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PostalCode string `json:"postalCode"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	Region     string `json:"region"`
	Type       string `json:"type"`
}

// PostalCodeParts splits the postal code into the 3-digit and 4-digit
// segments of the form.
func (i Institution) PostalCodeParts() (string, string) {
	if first, second, ok := strings.Cut(i.PostalCode, "-"); ok {
		return first, second
	}
	if len(i.PostalCode) == 7 {
		return i.PostalCode[:3], i.PostalCode[3:]
	}
	return i.PostalCode, ""
}

// PhoneParts splits the phone number on hyphens into at most three parts.
func (i Institution) PhoneParts() []string {
	return strings.SplitN(i.Phone, "-", 3)
}

// Source reads the raw catalog.
type Source func() ([]byte, error)

// EmbeddedSource returns the catalog compiled into the binary.
func EmbeddedSource() Source {
	return func() ([]byte, error) { return embeddedCatalog, nil }
}

// FileSource reads the catalog from path on every load.
func FileSource(path string) Source {
	return func() ([]byte, error) {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read catalog %s", path)
		}
		return raw, nil
	}
}

// BytesSource serves a fixed catalog.
func BytesSource(b []byte) Source {
	return func() ([]byte, error) { return b, nil }
}

// Directory loads the catalog once and answers queries from memory.
type Directory struct {
	source Source
	logger *logging.Logger

	mu   sync.Mutex
	data []Institution
}

// NewDirectory returns an unloaded directory.
func NewDirectory(source Source, logger *logging.Logger) *Directory {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Directory{source: source, logger: logger.WithComponent("medical")}
}

// Load reads the catalog if it is not already loaded. A failed load leaves
// the directory unloaded so the next call retries.
func (d *Directory) Load() ([]Institution, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.load()
}

func (d *Directory) load() ([]Institution, error) {
	if d.data != nil {
		return d.data, nil
	}

	raw, err := d.source()
	if err != nil {
		d.logger.Error("failed to read institution catalog", "error", err.Error())
		return nil, errors.NewLookupError("medical", errors.LookupNetwork, err)
	}

	var data []Institution
	if err := json.Unmarshal(raw, &data); err != nil {
		d.logger.Error("failed to decode institution catalog", "error", err.Error())
		return nil, errors.NewLookupError("medical", errors.LookupNetwork, errors.Wrap(err, "decode catalog"))
	}
	if data == nil {
		data = []Institution{}
	}

	d.data = data
	d.logger.Info("institution catalog loaded", "count", len(data))
	return d.data, nil
}

// IsLoaded reports whether the catalog is in memory.
func (d *Directory) IsLoaded() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.data != nil
}

// ClearCache drops the loaded catalog so the next query reloads it.
func (d *Directory) ClearCache() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.data = nil
}

func (d *Directory) filter(match func(Institution) bool) ([]Institution, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := d.load()
	if err != nil {
		return nil, err
	}
	out := []Institution{}
	for _, inst := range data {
		if match(inst) {
			out = append(out, inst)
		}
	}
	return out, nil
}

// Search returns institutions whose name, address, region or type contains
// query, ignoring case. A blank query matches nothing.
func (d *Directory) Search(query string) ([]Institution, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		if _, err := d.Load(); err != nil {
			return nil, err
		}
		return []Institution{}, nil
	}

	return d.filter(func(i Institution) bool {
		for _, field := range []string{i.Name, i.Address, i.Region, i.Type} {
			if strings.Contains(strings.ToLower(field), q) {
				return true
			}
		}
		return false
	})
}

// ByID returns the institution with id.
func (d *Directory) ByID(id string) (Institution, error) {
	found, err := d.filter(func(i Institution) bool { return i.ID == id })
	if err != nil {
		return Institution{}, err
	}
	if len(found) == 0 {
		return Institution{}, errors.NewNotFoundError("institution", id)
	}
	return found[0], nil
}

// FilterByRegion returns institutions in region exactly.
func (d *Directory) FilterByRegion(region string) ([]Institution, error) {
	return d.filter(func(i Institution) bool { return i.Region == region })
}

// FilterByType returns institutions of kind exactly.
func (d *Directory) FilterByType(kind string) ([]Institution, error) {
	return d.filter(func(i Institution) bool { return i.Type == kind })
}
