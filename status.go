package inferra

// Status is the lifecycle state of a prediction or training.
type Status string

const (
	Starting   Status = "starting"
	Processing Status = "processing"
	Succeeded  Status = "succeeded"
	Failed     Status = "failed"
	Canceled   Status = "canceled"
)

func (s Status) String() string {
	return string(s)
}

// Terminated reports whether the status is terminal: no further
// transition will occur.
func (s Status) Terminated() bool {
	return s == Succeeded || s == Failed || s == Canceled
}
