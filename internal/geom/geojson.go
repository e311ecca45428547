package geom

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrInvalidGeometry is returned when a geometry object cannot be turned into shapes.
var ErrInvalidGeometry = errors.New("invalid GeoJSON object")

// Collect walks a Document and builds a feature collection of orb geometries.
// Features with a null geometry and collection members carrying nothing to draw
// are skipped. Nested collections are walked. Anything else that cannot be drawn
// (missing features or coordinates, malformed positions, untyped or unknown
// objects) fails the whole document.
func Collect(doc Document) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()

	parsePoint := func(v any) (orb.Point, error) {
		a, ok := v.([]any)
		if !ok || len(a) < 2 {
			return orb.Point{}, fmt.Errorf("%w: position must be an array of at least two numbers", ErrInvalidGeometry)
		}
		lon, lok := a[0].(float64)
		lat, aok := a[1].(float64)
		if !lok || !aok {
			return orb.Point{}, fmt.Errorf("%w: invalid position (%v, %v)", ErrInvalidGeometry, a[0], a[1])
		}
		return orb.Point{lon, lat}, nil
	}
	parseArray := func(v any) ([]any, error) {
		arr, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: coordinates must be an array", ErrInvalidGeometry)
		}
		return arr, nil
	}
	parsePoints := func(v any) ([]orb.Point, error) {
		arr, err := parseArray(v)
		if err != nil {
			return nil, err
		}
		pts := make([]orb.Point, 0, len(arr))
		for _, el := range arr {
			pt, err := parsePoint(el)
			if err != nil {
				return nil, err
			}
			pts = append(pts, pt)
		}
		return pts, nil
	}
	parsePolygon := func(v any) (orb.Polygon, error) {
		arr, err := parseArray(v)
		if err != nil {
			return nil, err
		}
		poly := make(orb.Polygon, 0, len(arr))
		for _, ring := range arr {
			pts, err := parsePoints(ring)
			if err != nil {
				return nil, err
			}
			poly = append(poly, orb.Ring(pts))
		}
		return poly, nil
	}

	var walkGeom func(g map[string]any) (orb.Geometry, error)
	walkGeom = func(g map[string]any) (orb.Geometry, error) {
		gt, _ := g["type"].(string)
		if gt == TypeGeometryCollection {
			arr, ok := g["geometries"].([]any)
			if !ok {
				return nil, fmt.Errorf("%w: geometries must be an array", ErrInvalidGeometry)
			}
			col := make(orb.Collection, 0, len(arr))
			for _, el := range arr {
				sub, ok := el.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("%w: geometry must be an object", ErrInvalidGeometry)
				}
				sg, err := walkGeom(sub)
				if err != nil {
					return nil, err
				}
				col = append(col, sg)
			}
			return col, nil
		}
		coords, ok := g["coordinates"]
		if !ok || coords == nil {
			return nil, fmt.Errorf("%w: %s without coordinates", ErrInvalidGeometry, gt)
		}
		switch gt {
		case TypePoint:
			return parsePoint(coords)
		case TypeMultiPoint:
			pts, err := parsePoints(coords)
			return orb.MultiPoint(pts), err
		case TypeLineString:
			pts, err := parsePoints(coords)
			return orb.LineString(pts), err
		case TypeMultiLineString:
			arr, err := parseArray(coords)
			if err != nil {
				return nil, err
			}
			mls := make(orb.MultiLineString, 0, len(arr))
			for _, el := range arr {
				pts, err := parsePoints(el)
				if err != nil {
					return nil, err
				}
				mls = append(mls, orb.LineString(pts))
			}
			return mls, nil
		case TypePolygon:
			return parsePolygon(coords)
		case TypeMultiPolygon:
			arr, err := parseArray(coords)
			if err != nil {
				return nil, err
			}
			mp := make(orb.MultiPolygon, 0, len(arr))
			for _, el := range arr {
				poly, err := parsePolygon(el)
				if err != nil {
					return nil, err
				}
				mp = append(mp, poly)
			}
			return mp, nil
		}
		return nil, fmt.Errorf("%w: unsupported type %q", ErrInvalidGeometry, gt)
	}

	addFeature := func(fm map[string]any) error {
		raw := fm["geometry"]
		if raw == nil {
			return nil
		}
		g, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: geometry must be an object", ErrInvalidGeometry)
		}
		geometry, err := walkGeom(g)
		if err != nil {
			return err
		}
		f := geojson.NewFeature(geometry)
		if id, ok := fm["id"]; ok {
			f.ID = id
		}
		if props, ok := fm["properties"].(map[string]any); ok {
			f.Properties = geojson.Properties(props)
		}
		fc.Append(f)
		return nil
	}

	// an item inside features is walked when it carries any of these members
	drawable := func(m map[string]any) bool {
		for _, k := range []string{"features", "geometry", "geometries", "coordinates"} {
			if m[k] != nil {
				return true
			}
		}
		return false
	}

	var addObject func(m map[string]any) error
	addCollection := func(raw any) error {
		fs, ok := raw.([]any)
		if !ok {
			return fmt.Errorf("%w: features must be an array", ErrInvalidGeometry)
		}
		for i, f := range fs {
			fm, ok := f.(map[string]any)
			if !ok {
				return fmt.Errorf("%w: feature %d is not an object", ErrInvalidGeometry, i)
			}
			if !drawable(fm) {
				continue
			}
			if err := addObject(fm); err != nil {
				return fmt.Errorf("feature %d: %w", i, err)
			}
		}
		return nil
	}
	addObject = func(m map[string]any) error {
		if fs := m["features"]; fs != nil {
			return addCollection(fs)
		}
		switch t, _ := m["type"].(string); t {
		case TypeFeatureCollection:
			return fmt.Errorf("%w: FeatureCollection without features", ErrInvalidGeometry)
		case TypeFeature:
			return addFeature(m)
		case "":
			return fmt.Errorf("%w: object without a type", ErrInvalidGeometry)
		}
		// bare geometries are allowed inside features
		return addFeature(map[string]any{"geometry": m})
	}

	if err := addObject(doc.Value); err != nil {
		return nil, err
	}
	return fc, nil
}
