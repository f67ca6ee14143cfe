package types

// JSONMap is a free-form JSON object persisted through GORM's json serializer.
type JSONMap map[string]any
