package invoice

import "time"

func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

func (i *Issuer) WithIDs(newID func() string) *Issuer {
	i.newID = newID
	return i
}
