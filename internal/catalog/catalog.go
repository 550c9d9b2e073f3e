// Package catalog ships the built-in certificate-type catalog used to seed
// a fresh installation, with an escape hatch for site-specific yaml files.
package catalog

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/traincore/certassist/internal/model"
)

//go:embed certificate_types.yaml
var catalogYAML []byte

type catalogFile struct {
	CertificateTypes []entry `yaml:"certificate_types"`
}

type entry struct {
	Name           string `yaml:"name"`
	Description    string `yaml:"description"`
	Issuer         string `yaml:"issuer"`
	ValidityMonths int    `yaml:"validity_months"`
}

// Load returns the embedded catalog.
func Load() ([]model.CertificateType, error) {
	return Parse(catalogYAML)
}

// LoadFile reads a catalog from a yaml file on disk, for sites that
// maintain their own certificate list.
func LoadFile(path string) ([]model.CertificateType, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", path)
	}
	return Parse(raw)
}

func Parse(raw []byte) ([]model.CertificateType, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, eris.Wrap(err, "catalog: parse yaml")
	}
	if len(f.CertificateTypes) == 0 {
		return nil, eris.New("catalog: no certificate types defined")
	}

	types := make([]model.CertificateType, 0, len(f.CertificateTypes))
	for _, e := range f.CertificateTypes {
		if e.Name == "" {
			return nil, eris.New("catalog: certificate type without a name")
		}
		types = append(types, model.CertificateType{
			Name:           e.Name,
			Description:    e.Description,
			Issuer:         e.Issuer,
			ValidityMonths: e.ValidityMonths,
		})
	}
	return types, nil
}
