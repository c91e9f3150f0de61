package reservation

import "time"

// Clock supplies the current time.  Expiry decisions compare against
// Clock.Now, so tests inject a fixed clock instead of sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns a Clock backed by time.Now in UTC.
func SystemClock() Clock { return systemClock{} }
