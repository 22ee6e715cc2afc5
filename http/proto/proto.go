package proto

import "strconv"

// Version is the protocol version as it was sent by the client. Both components are
// kept as-is, so HTTP/1.2 or HTTP/3.7 are representable even though nobody speaks them.
type Version struct {
	Major, Minor uint16
}

var (
	HTTP10 = Version{Major: 1, Minor: 0}
	HTTP11 = Version{Major: 1, Minor: 1}
)

// String returns the version as it'd appear in the request line, e.g. HTTP/1.1
func (v Version) String() string {
	return string(v.AppendTo(make([]byte, 0, len("HTTP/x.x"))))
}

func (v Version) AppendTo(buff []byte) []byte {
	buff = append(buff, "HTTP/"...)
	buff = strconv.AppendUint(buff, uint64(v.Major), 10)
	buff = append(buff, '.')

	return strconv.AppendUint(buff, uint64(v.Minor), 10)
}

// AtLeast reports whether the version is equal or newer than the passed one.
func (v Version) AtLeast(major, minor uint16) bool {
	return v.Major > major || (v.Major == major && v.Minor >= minor)
}
