package core

// Frame is a raw outbound payload, already encoded.
type Frame []byte

// SignalConnection abstracts the messaging transport of one endpoint.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
