package report

import (
	"fmt"

	"github.com/pyarchinit/archweb/internal/errors"
	"github.com/pyarchinit/archweb/internal/media"
)

// EntityKind is the closed set of record kinds the assembler can report on.
// All entity-specific branching lives here; renderers and the media
// resolver stay entity-agnostic.
type EntityKind string

const (
	KindSite      EntityKind = "sites"
	KindStratUnit EntityKind = "us"
	KindMaterial  EntityKind = "materiali"
	KindPottery   EntityKind = "pottery"
)

// KindFromString parses the URL path segment naming an entity kind.
func KindFromString(s string) (EntityKind, error) {
	switch EntityKind(s) {
	case KindSite, KindStratUnit, KindMaterial, KindPottery:
		return EntityKind(s), nil
	default:
		return "", errors.Newf("unknown entity kind: %q", s).
			Component("report").
			Category(errors.CategoryValidation).
			Build()
	}
}

// MediaEntityType maps an entity kind to the storage server's entity type.
func (k EntityKind) MediaEntityType() media.EntityType {
	switch k {
	case KindSite:
		return media.EntitySite
	case KindStratUnit:
		return media.EntityStratUnit
	case KindMaterial:
		return media.EntityMaterial
	case KindPottery:
		return media.EntityPottery
	default:
		return ""
	}
}

// Title returns the human-readable document title for this kind, scoped to
// a site when one is given.
func (k EntityKind) Title(sito string) string {
	var base string
	switch k {
	case KindSite:
		base = "Siti Archeologici"
	case KindStratUnit:
		base = "Unità Stratigrafiche"
	case KindMaterial:
		base = "Inventario Materiali"
	case KindPottery:
		base = "Ceramica"
	default:
		base = string(k)
	}
	if sito == "" {
		return fmt.Sprintf("%s - Tutti i siti", base)
	}
	return fmt.Sprintf("%s - %s", base, sito)
}

func (k EntityKind) columns() []Column {
	switch k {
	case KindSite:
		return []Column{
			{Name: "Sito", Type: TypeString},
			{Name: "Nazione", Type: TypeString},
			{Name: "Regione", Type: TypeString},
			{Name: "Comune", Type: TypeString},
			{Name: "Provincia", Type: TypeString},
			{Name: "Definizione", Type: TypeString},
			{Name: "Descrizione", Type: TypeString},
		}
	case KindStratUnit:
		return []Column{
			{Name: "Sito", Type: TypeString},
			{Name: "Area", Type: TypeString},
			{Name: "US", Type: TypeString},
			{Name: "Def. Stratigrafica", Type: TypeString},
			{Name: "Def. Interpretativa", Type: TypeString},
			{Name: "Periodo", Type: TypeString},
			{Name: "Fase", Type: TypeString},
			{Name: "Datazione", Type: TypeString},
			{Name: "Descrizione", Type: TypeString},
			{Name: "Interpretazione", Type: TypeString},
		}
	case KindMaterial:
		return []Column{
			{Name: "Sito", Type: TypeString},
			{Name: "N. Inventario", Type: TypeNumber},
			{Name: "Tipo", Type: TypeString},
			{Name: "Definizione", Type: TypeString},
			{Name: "Area", Type: TypeString},
			{Name: "US", Type: TypeString},
			{Name: "N. Cassa", Type: TypeNumber},
			{Name: "Luogo Conserv.", Type: TypeString},
			{Name: "Stato Conserv.", Type: TypeString},
			{Name: "Datazione", Type: TypeString},
			{Name: "Tot. Framm.", Type: TypeNumber},
			{Name: "Peso (g)", Type: TypeNumber},
		}
	case KindPottery:
		return []Column{
			{Name: "Sito", Type: TypeString},
			{Name: "Area", Type: TypeString},
			{Name: "US", Type: TypeString},
			{Name: "ID Number", Type: TypeNumber},
			{Name: "Box", Type: TypeNumber},
			{Name: "Fabric", Type: TypeString},
			{Name: "Material", Type: TypeString},
			{Name: "Form", Type: TypeString},
			{Name: "Ware", Type: TypeString},
			{Name: "Munsell", Type: TypeString},
			{Name: "Qty", Type: TypeNumber},
		}
	default:
		return nil
	}
}
