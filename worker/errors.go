package worker

// ErrNoLights defines configuration without any light.
type ErrNoLights struct {
}

// Error formats output.
func (*ErrNoLights) Error() string {
	return "no lights are configured"
}
