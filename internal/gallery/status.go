package gallery

// Status is the outcome of a gallery fetch. It is one of Pending, Failed
// or Ready; consumers switch on the concrete type.
type Status interface {
	isStatus()
}

// Pending means a request for the query is in flight.
type Pending struct{}

// Failed carries the error of the last request for the query.
type Failed struct {
	Err error
}

// Ready carries the normalized images. Images may be empty.
type Ready struct {
	Images []Image
}

func (Pending) isStatus() {}
func (Failed) isStatus()  {}
func (Ready) isStatus()   {}

// StatusName returns "pending", "failed" or "ready".
func StatusName(s Status) string {
	switch s.(type) {
	case Pending:
		return "pending"
	case Failed:
		return "failed"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}
