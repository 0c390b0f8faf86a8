// Package media resolves the media objects the storage server associates
// with excavation entities. The storage server is an independent system;
// associations are looked up per request and cached only briefly.
package media

import "fmt"

// EntityType identifies the kind of record a media object is attached to.
// Values match the entity_type column of the storage server's association
// table.
type EntityType string

const (
	EntitySite      EntityType = "SITE"
	EntityStratUnit EntityType = "US"
	EntityMaterial  EntityType = "INVENTARIO_MATERIALI"
	EntityPottery   EntityType = "POTTERY"
)

// Valid reports whether the entity type is one of the known kinds.
func (t EntityType) Valid() bool {
	switch t {
	case EntitySite, EntityStratUnit, EntityMaterial, EntityPottery:
		return true
	default:
		return false
	}
}

// EntityRef names one record on the relational side.
type EntityRef struct {
	Type EntityType
	ID   int
}

// CacheKey returns the stable cache key for this reference.
func (r EntityRef) CacheKey() string {
	return fmt.Sprintf("%s:%d", r.Type, r.ID)
}

// Descriptor is a resolved pointer into the storage server's namespace.
// It is valid only as long as the storage server honors the path.
type Descriptor struct {
	MediaID      int        `json:"id_media"`
	EntityType   EntityType `json:"entity_type"`
	EntityID     int        `json:"entity_id"`
	Filename     string     `json:"media_filename"`
	MimeType     string     `json:"mediatype"`
	URL          string     `json:"url"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
}

// Warning records one degraded lookup in a batch resolution.
type Warning struct {
	Ref EntityRef `json:"ref"`
	Err string    `json:"error"`
}
