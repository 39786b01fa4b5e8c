package id

import "github.com/teris-io/shortid"

// ShortId returns a url-safe short id, falling back to a dashless uuid.
func ShortId() string {
	sid, err := shortid.Generate()
	if err != nil {
		return GetUUIDWithoutDashes()
	}
	return sid
}
