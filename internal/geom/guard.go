package geom

var geoJSONTypes = map[string]bool{
	TypeFeatureCollection:  true,
	TypeFeature:            true,
	TypePoint:              true,
	TypeMultiPoint:         true,
	TypeLineString:         true,
	TypeMultiLineString:    true,
	TypePolygon:            true,
	TypeMultiPolygon:       true,
	TypeGeometryCollection: true,
}

// IsGeoJSON reports whether a decoded JSON value plausibly is GeoJSON:
// a non-nil object whose "type" is one of the nine GeoJSON type tags.
// Coordinates and nested members are not inspected.
func IsGeoJSON(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok || obj == nil {
		return false
	}
	t, ok := obj["type"].(string)
	return ok && geoJSONTypes[t]
}

// AsDocument returns v as a Document when IsGeoJSON(v) holds.
func AsDocument(v any) (Document, bool) {
	if !IsGeoJSON(v) {
		return Document{}, false
	}
	obj := v.(map[string]any)
	return Document{Type: obj["type"].(string), Value: obj}, true
}
