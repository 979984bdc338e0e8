package geometry

import (
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/models"
)

// DealMap renders the located deals as GeoJSON points. With coverage set, a
// convex hull is added for every city holding at least three located deals.
func DealMap(deals []models.Deal, coverage bool) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	byCity := make(map[string][]orb.Point)
	scores := make(map[string][]int)

	var all orb.MultiPoint
	for _, deal := range deals {
		if !deal.HasLocation() {
			continue
		}
		p := orb.Point{*deal.Longitude, *deal.Latitude}
		all = append(all, p)

		feature := geojson.NewFeature(p)
		feature.ID = deal.ID
		feature.Properties = geojson.Properties{
			"id":           deal.ID,
			"name":         deal.Name,
			"city":         deal.City,
			"strategy":     deal.Strategy,
			"score":        deal.Score,
			"grade":        deal.Grade,
			"cash_on_cash": deal.Result.Metrics.CashOnCashReturn,
			"cap_rate":     deal.Result.Metrics.CapRate,
		}
		fc.Append(feature)

		city := strings.TrimSpace(deal.City)
		if city == "" {
			continue
		}
		byCity[city] = append(byCity[city], p)
		scores[city] = append(scores[city], deal.Score)
	}

	if len(all) > 0 {
		fc.BBox = geojson.NewBBox(all.Bound())
	}
	if !coverage {
		return fc
	}

	cities := make([]string, 0, len(byCity))
	for city := range byCity {
		cities = append(cities, city)
	}
	sort.Strings(cities)

	for _, city := range cities {
		hull := convexHull(byCity[city])
		if hull == nil {
			continue
		}
		centroid, area := planar.CentroidArea(orb.Polygon{hull})

		feature := geojson.NewFeature(orb.Polygon{hull})
		feature.Properties = geojson.Properties{
			"city":          city,
			"deal_count":    len(byCity[city]),
			"average_score": average(scores[city]),
			"centroid":      []float64{centroid[0], centroid[1]},
			"area":          area,
			"geometry_type": "hull",
		}
		fc.Append(feature)
	}

	return fc
}

// convexHull returns the closed counter-clockwise hull of points, or nil when
// the points do not span an area.
func convexHull(points []orb.Point) orb.Ring {
	pts := make([]orb.Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})

	// Drop duplicates
	unique := pts[:0]
	for i, p := range pts {
		if i == 0 || !p.Equal(pts[i-1]) {
			unique = append(unique, p)
		}
	}
	pts = unique
	if len(pts) < 3 {
		return nil
	}

	// Monotone chain
	hull := make([]orb.Point, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// Collinear input collapses to a line
	if len(hull) < 4 {
		return nil
	}
	return orb.Ring(hull)
}

func cross(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

func average(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum int
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
