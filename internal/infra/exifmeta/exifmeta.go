// Package exifmeta pulls GPS coordinates out of photo metadata.
package exifmeta

import (
	"io"

	"github.com/rwcarlsen/goexif/exif"
)

// Location is a decimal-degree coordinate pair.
type Location struct {
	Latitude  float64
	Longitude float64
}

// FromImage reads the GPS tags of a JPEG. Images without EXIF data or
// without GPS tags yield nil rather than an error; field photos taken
// with location services off are the normal case, not a failure.
func FromImage(r io.Reader) *Location {
	x, err := exif.Decode(r)
	if err != nil {
		return nil
	}
	lat, ok := coordinate(x, exif.GPSLatitude, exif.GPSLatitudeRef)
	if !ok {
		return nil
	}
	lon, ok := coordinate(x, exif.GPSLongitude, exif.GPSLongitudeRef)
	if !ok {
		return nil
	}
	return &Location{Latitude: lat, Longitude: lon}
}

func coordinate(x *exif.Exif, field, refField exif.FieldName) (float64, bool) {
	tag, err := x.Get(field)
	if err != nil {
		return 0, false
	}
	parts := make([]float64, 3)
	for i := range parts {
		rat, err := tag.Rat(i)
		if err != nil {
			return 0, false
		}
		parts[i], _ = rat.Float64()
	}
	refTag, err := x.Get(refField)
	if err != nil {
		return 0, false
	}
	ref, err := refTag.StringVal()
	if err != nil {
		return 0, false
	}
	return dmsToDecimal(parts[0], parts[1], parts[2], ref), true
}

// dmsToDecimal converts degrees/minutes/seconds to decimal degrees.
// Southern and western references are negative.
func dmsToDecimal(deg, min, sec float64, ref string) float64 {
	dd := deg + min/60 + sec/3600
	if ref == "S" || ref == "W" {
		return -dd
	}
	return dd
}
