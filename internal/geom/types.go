package geom

// GeoJSON root type tags accepted by IsGeoJSON.
const (
	TypeFeatureCollection  = "FeatureCollection"
	TypeFeature            = "Feature"
	TypePoint              = "Point"
	TypeMultiPoint         = "MultiPoint"
	TypeLineString         = "LineString"
	TypeMultiLineString    = "MultiLineString"
	TypePolygon            = "Polygon"
	TypeMultiPolygon       = "MultiPolygon"
	TypeGeometryCollection = "GeometryCollection"
)

// Document is a decoded JSON value that passed the type guard.
// Nothing below the root type tag has been checked yet.
type Document struct {
	Type  string
	Value map[string]any
}
