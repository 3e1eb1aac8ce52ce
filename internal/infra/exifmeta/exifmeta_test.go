package exifmeta

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDMSToDecimal(t *testing.T) {
	cases := []struct {
		name string
		deg  float64
		min  float64
		sec  float64
		ref  string
		want float64
	}{
		{"north latitude", 17, 7, 58.2, "N", 17.1328},
		{"east longitude", 78, 12, 17.3, "E", 78.2048},
		{"south latitude", 17, 7, 58.2, "S", -17.1328},
		{"west longitude", 78, 12, 17.3, "W", -78.2048},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.InDelta(t, c.want, dmsToDecimal(c.deg, c.min, c.sec, c.ref), 1e-4)
		})
	}
}

func TestFromImageReadsGPSTags(t *testing.T) {
	loc := FromImage(bytes.NewReader(gpsTIFF(t, true)))
	require.NotNil(t, loc)
	require.InDelta(t, 17.125, loc.Latitude, 1e-4)
	require.InDelta(t, 78.25, loc.Longitude, 1e-4)
}

func TestFromImageMissingRefTags(t *testing.T) {
	// GPS rationals without GPSLatitudeRef/GPSLongitudeRef are incomplete;
	// the hemisphere sign cannot be known, so no location is reported.
	require.Nil(t, FromImage(bytes.NewReader(gpsTIFF(t, false))))
}

func TestFromImageWithoutExif(t *testing.T) {
	// A bare JPEG header carries no EXIF segment.
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x04, 0x00, 0x00, 0xFF, 0xD9}
	require.Nil(t, FromImage(bytes.NewReader(jpeg)))
}

func TestFromImageGarbage(t *testing.T) {
	require.Nil(t, FromImage(bytes.NewReader([]byte("not an image"))))
}

// gpsTIFF builds a minimal little-endian TIFF whose IFD0 points at a GPS
// sub-IFD holding 17°7'30"N 78°15'0"E as rational triples. When withRefs
// is false the hemisphere reference tags are left out.
func gpsTIFF(t *testing.T, withRefs bool) []byte {
	t.Helper()

	var buf bytes.Buffer
	le := binary.LittleEndian
	put16 := func(v uint16) { require.NoError(t, binary.Write(&buf, le, v)) }
	put32 := func(v uint32) { require.NoError(t, binary.Write(&buf, le, v)) }

	// Header and IFD0 with a single GPSInfo pointer entry.
	buf.WriteString("II")
	put16(42)
	put32(8)
	gpsOff := uint32(8 + 2 + 12 + 4)
	put16(1)
	put16(0x8825) // GPSInfo sub-IFD pointer
	put16(4)      // LONG
	put32(1)
	put32(gpsOff)
	put32(0)

	type entry struct {
		tag, typ uint16
		count    uint32
		value    [4]byte
	}
	rational := func(dms [3][2]uint32) []byte {
		var data bytes.Buffer
		for _, r := range dms {
			require.NoError(t, binary.Write(&data, le, r[0]))
			require.NoError(t, binary.Write(&data, le, r[1]))
		}
		return data.Bytes()
	}
	lat := rational([3][2]uint32{{17, 1}, {7, 1}, {30, 1}})
	lon := rational([3][2]uint32{{78, 1}, {15, 1}, {0, 1}})

	entries := []entry{}
	if withRefs {
		entries = append(entries,
			entry{tag: 0x0001, typ: 2, count: 2, value: [4]byte{'N'}},
			entry{tag: 0x0003, typ: 2, count: 2, value: [4]byte{'E'}},
		)
	}
	dataOff := gpsOff + 2 + uint32(len(entries)+2)*12 + 4
	var latOff [4]byte
	le.PutUint32(latOff[:], dataOff)
	var lonOff [4]byte
	le.PutUint32(lonOff[:], dataOff+uint32(len(lat)))
	entries = append(entries,
		entry{tag: 0x0002, typ: 5, count: 3, value: latOff},
		entry{tag: 0x0004, typ: 5, count: 3, value: lonOff},
	)

	put16(uint16(len(entries)))
	for _, e := range entries {
		put16(e.tag)
		put16(e.typ)
		put32(e.count)
		buf.Write(e.value[:])
	}
	put32(0)
	buf.Write(lat)
	buf.Write(lon)
	return buf.Bytes()
}
