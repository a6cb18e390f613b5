package domain

// Metadata is an arbitrary JSON document kept in the content-addressed store.
type Metadata map[string]any

// Defaults returned when a property's metadata cannot be resolved.
const (
	DefaultMetadataName        = "Unknown Property"
	DefaultMetadataDescription = "No metadata available"
	DefaultMetadataImage       = "https://via.placeholder.com/400x300?text=No+Image"
)

// DefaultMetadata returns a fresh placeholder document.
func DefaultMetadata() Metadata {
	return Metadata{
		"name":        DefaultMetadataName,
		"description": DefaultMetadataDescription,
		"image":       DefaultMetadataImage,
	}
}
