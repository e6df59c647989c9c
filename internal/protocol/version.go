package protocol

import "fmt"

// VersionNumber is a version number as int
type VersionNumber uint32

// The version numbers, making grepping easier
const (
	// VersionDraft18 is IETF QUIC draft-18
	VersionDraft18 VersionNumber = 0xff000000 + 18
	// VersionWhatever is for when the version doesn't matter
	VersionWhatever VersionNumber = 0
)

// SupportedVersions lists the versions that the endpoint supports,
// in sorted descending order of preference.
var SupportedVersions = []VersionNumber{VersionDraft18}

// IsSupportedVersion returns true if the server supports this version
func IsSupportedVersion(supported []VersionNumber, v VersionNumber) bool {
	for _, t := range supported {
		if t == v {
			return true
		}
	}
	return false
}

func (vn VersionNumber) String() string {
	switch vn {
	case VersionWhatever:
		return "whatever"
	case VersionDraft18:
		return "QUIC draft-18"
	default:
		return fmt.Sprintf("%#x", uint32(vn))
	}
}
