package scpisock

import "sync/atomic"

// ConnState represents the lifecycle of the TCP connection to the device.
type ConnState uint32

const (
	// DisconnectedState indicates no socket is open.
	DisconnectedState ConnState = iota
	// ConnectingState indicates a dial attempt is in flight.
	ConnectingState
	// ConnectedState indicates the socket is open and usable.
	ConnectedState
	// ClosingState indicates the socket is being torn down.
	ClosingState
)

// String returns string representation of the connection state.
func (s ConnState) String() string {
	switch s {
	case DisconnectedState:
		return "disconnected"
	case ConnectingState:
		return "connecting"
	case ConnectedState:
		return "connected"
	case ClosingState:
		return "closing"
	default:
		return "unknown"
	}
}

// AtomicConnState manages connection state transitions atomically.
//
// All transitions use compare-and-swap so that concurrent Open/Close calls
// resolve to exactly one winner.
type AtomicConnState struct {
	state atomic.Uint32
}

// Get returns the current connection state.
func (st *AtomicConnState) Get() ConnState {
	return ConnState(st.state.Load())
}

// String returns string representation of the current connection state.
func (st *AtomicConnState) String() string {
	return st.Get().String()
}

// IsConnected reports whether the socket is open and usable.
func (st *AtomicConnState) IsConnected() bool {
	return st.Get() == ConnectedState
}

// IsDisconnected reports whether no socket is open.
func (st *AtomicConnState) IsDisconnected() bool {
	return st.Get() == DisconnectedState
}

// ToConnecting transitions Disconnected -> Connecting.
func (st *AtomicConnState) ToConnecting() bool {
	return st.state.CompareAndSwap(uint32(DisconnectedState), uint32(ConnectingState))
}

// ToConnected transitions Connecting -> Connected.
func (st *AtomicConnState) ToConnected() bool {
	return st.state.CompareAndSwap(uint32(ConnectingState), uint32(ConnectedState))
}

// ToClosing transitions Connected or Connecting -> Closing.
func (st *AtomicConnState) ToClosing() bool {
	if st.state.CompareAndSwap(uint32(ConnectedState), uint32(ClosingState)) {
		return true
	}

	return st.state.CompareAndSwap(uint32(ConnectingState), uint32(ClosingState))
}

// ToDisconnected transitions Closing or Connecting -> Disconnected.
// It returns true if the state is already Disconnected.
func (st *AtomicConnState) ToDisconnected() bool {
	if st.IsDisconnected() {
		return true
	}
	if st.state.CompareAndSwap(uint32(ClosingState), uint32(DisconnectedState)) {
		return true
	}

	return st.state.CompareAndSwap(uint32(ConnectingState), uint32(DisconnectedState))
}
