package eventsource

// Status is reported to the Observer on every ready state change. Err is the
// stream error that caused the change, nil for changes made by a successful
// connection or by Close.
type Status struct {
	Err        error
	ReadyState ReadyState
}
