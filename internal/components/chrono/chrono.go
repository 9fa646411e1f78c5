package chrono

import (
	"time"
	_ "time/tzdata"
)

// API is the source of wall-clock time for anything that records timestamps.
type API interface {
	Now() time.Time
	Location() *time.Location
}

type StandardImpl struct {
	location *time.Location
}

// NewStandardImpl returns the system clock in the given IANA zone, an empty
// name means the machine's local zone.
func NewStandardImpl(name string) (StandardImpl, error) {
	if name == "" {
		return StandardImpl{location: time.Local}, nil
	}
	location, err := time.LoadLocation(name)
	if err != nil {
		return StandardImpl{}, err
	}
	return StandardImpl{location: location}, nil
}

func (s StandardImpl) Now() time.Time {
	return time.Now().In(s.location)
}

func (s StandardImpl) Location() *time.Location {
	return s.location
}

// FixedImpl always returns the same instant.
type FixedImpl struct {
	At time.Time
}

func (f FixedImpl) Now() time.Time {
	return f.At
}

func (f FixedImpl) Location() *time.Location {
	return f.At.Location()
}

// IsoMicro is the layout crawl records are timestamped with, local time
// without an offset and with microsecond precision. IsoSeconds is used
// instead when the microsecond part is zero.
const (
	IsoMicro   = "2006-01-02T15:04:05.000000"
	IsoSeconds = "2006-01-02T15:04:05"
)

func Timestamp(c API) string {
	now := c.Now()
	if now.Nanosecond()/int(time.Microsecond) == 0 {
		return now.Format(IsoSeconds)
	}
	return now.Format(IsoMicro)
}
