// Package tzif decodes the TZif time zone information format described in
// RFC 8536 into a header and a filtered data block.
// https://datatracker.ietf.org/doc/html/rfc8536
//
// Every array in the data block is read through a retention predicate:
// elements that fail it are consumed but not kept, so the decoded slices can
// be shorter than the counts announced by the header.
package tzif

import "fmt"

// Version is the format version of a TZif header, 1 through 4.
// In V1 blocks time values are 32bit (four-octets) and in V2 upwards they are
// 64bit (eight-octets).
type Version int

const (
	// V1 files contain only the version 1 header and data block.
	V1 Version = 1
	// V2 files contain the version 1 header and data block, a version 2+
	// header and data block, and a footer.
	V2 Version = 2
	// V3 files are shaped like V2 but the footer TZ string may use the
	// extensions of RFC 8536 section 3.3.1.
	V3 Version = 3
	// V4 is not specified in RFC 8536 but in tzfile(5): the first leap
	// second record may truncate the table and the last may denote its
	// expiration.
	V4 Version = 4
)

// Marker returns the octet that identifies v in a header.
func (v Version) Marker() byte {
	switch v {
	case V1:
		return 0x00
	case V2:
		return '2'
	case V3:
		return '3'
	case V4:
		return '4'
	}
	return 0xff
}

func (v Version) String() string {
	switch v {
	case V1, V2, V3, V4:
		return fmt.Sprintf("V%d (0x%02x)", int(v), v.Marker())
	default:
		return fmt.Sprintf("<undefined version (%d)>", int(v))
	}
}

// timeSize is the width of transition times and leap second occurrences in
// a block of this version.
func (v Version) timeSize() int {
	if v > V1 {
		return 8
	}
	return 4
}

func versionFromMarker(b byte) (Version, error) {
	switch b {
	case 0x00:
		return V1, nil
	case '2':
		return V2, nil
	case '3':
		return V3, nil
	case '4':
		return V4, nil
	}
	return 0, fmt.Errorf("%w: 0x%02x", ErrBadVersion, b)
}

// Magic is the four-octet ASCII sequence "TZif" (0x54 0x5A 0x69 0x66),
// which identifies the file as utilizing the Time Zone Information Format.
var Magic = [4]byte{'T', 'Z', 'i', 'f'}

// HeaderSize is the encoded size of a header: magic, version, 15 reserved
// octets and six four-octet counts. It does not depend on the counts.
const HeaderSize = 4 + 1 + 15 + 6*4

// Header is the header of a TZif file.
//
//	+---------------+---+
//	|  magic    (4) |ver|
//	+---------------+---+---------------------------------------+
//	|           [unused - reserved for future use] (15)         |
//	+---------------+---------------+---------------+-----------+
//	|  isutcnt  (4) |  isstdcnt (4) |  leapcnt  (4) |
//	+---------------+---------------+---------------+
//	|  timecnt  (4) |  typecnt  (4) |  charcnt  (4) |
//	+---------------+---------------+---------------+
type Header struct {
	Version Version

	// Isutcnt is the number of UT/local indicators in the data block.
	Isutcnt uint32
	// Isstdcnt is the number of standard/wall indicators in the data block.
	Isstdcnt uint32
	// Leapcnt is the number of leap second records announced by the file.
	Leapcnt uint32
	// Timecnt is the number of transition times and transition types.
	Timecnt uint32
	// Typecnt is the number of local time type records. It also bounds the
	// number of leap second records read from the block.
	Typecnt uint32
	// Charcnt is the number of time zone designation octets, including the
	// trailing NUL.
	Charcnt uint32
}

// DataBlock is the retained content of one TZif data block.
//
//	+---------------------------------------------------------+
//	|  transition times          (timecnt x TIME_SIZE)        |
//	+---------------------------------------------------------+
//	|  transition types          (timecnt)                    |
//	+---------------------------------------------------------+
//	|  local time type records   (typecnt x 6)                |
//	+---------------------------------------------------------+
//	|  time zone designations    (charcnt)                    |
//	+---------------------------------------------------------+
//	|  leap-second records       (typecnt x (TIME_SIZE + 4))  |
//	+---------------------------------------------------------+
//	|  standard/wall indicators  (isstdcnt)                   |
//	+---------------------------------------------------------+
//	|  UT/local indicators       (isutcnt)                    |
//	+---------------------------------------------------------+
type DataBlock struct {
	// TransitionTimes holds transition times greater than -2**59.
	TransitionTimes []int64
	// TransitionTypes holds type indices less than typecnt-1.
	TransitionTypes []uint8
	// LocalTimeTypes holds records with a plausible offset and a DST flag
	// of 0 or 1.
	LocalTimeTypes []LocalTimeType
	// TimeZoneDesignations holds designation octets less than typecnt-1.
	TimeZoneDesignations []byte
	// LeapSeconds holds records at least 2419199 seconds after the
	// previously retained one. The first record is always retained.
	LeapSeconds []LeapSecond
	// StandardWallIndicators holds indicators equal to 0 or 1.
	StandardWallIndicators []uint8
	// UTLocalIndicators holds indicators equal to 0 or 1.
	UTLocalIndicators []uint8
}

// LocalTimeType is a local time type record.
//
//	+---------------+---+---+
//	|  utoff (4)    |dst|idx|
//	+---------------+---+---+
type LocalTimeType struct {
	// Utoff is the number of seconds added to UT to get local time.
	Utoff int32
	// Dst is 1 if the type is daylight saving time, 0 otherwise.
	Dst uint8
	// Idx indexes the time zone designation octets.
	Idx uint8
}

// IsDST reports whether the record describes daylight saving time.
func (t LocalTimeType) IsDST() bool { return t.Dst == 1 }

// localTimeTypeSize is the encoded size of a LocalTimeType.
const localTimeTypeSize = 4 + 1 + 1

// LeapSecond is a leap second record.
//
//	+---------------+---------------+
//	|  occur (4|8)  |  corr (4)     |
//	+---------------+---------------+
type LeapSecond struct {
	// Occur is the UNIX leap time at which the correction occurs.
	Occur int64
	// Corr is the value of LEAPCORR on or after the occurrence.
	Corr int32
}

// Footer is the newline-enclosed TZ string following a version 2+ block.
type Footer struct {
	TZString []byte
}

// File is a fully decoded TZif file.
type File struct {
	Version Version

	// V1Header and V1Data hold the first, version-1-shaped block. For
	// version 1 files they equal Header and Data.
	V1Header Header
	V1Data   DataBlock

	// Header and Data hold the authoritative block.
	Header Header
	Data   DataBlock
	Footer Footer
}
