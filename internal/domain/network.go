package domain

import "time"

type NetworkKind string

const (
	NetworkDevnet  NetworkKind = "devnet"
	NetworkTestnet NetworkKind = "testnet"
	NetworkMainnet NetworkKind = "mainnet"
	NetworkLocal   NetworkKind = "local"
	NetworkMock    NetworkKind = "mock"
)

// Endpoint is a named candidate backend the prober may select.
type Endpoint struct {
	Name string      `json:"name"`
	URL  string      `json:"url"`
	Kind NetworkKind `json:"kind"`
}

// ReachabilityStatus is a point-in-time network assessment. Every probe
// cycle produces a fresh value; a status is never partially mutated.
type ReachabilityStatus struct {
	Connected     bool          `json:"connected"`
	Endpoint      *Endpoint     `json:"endpoint,omitempty"`
	NetworkKind   NetworkKind   `json:"network_kind"`
	Latency       time.Duration `json:"latency_ns,omitempty"`
	LastCheckedAt time.Time     `json:"last_checked_at"`
	Error         string        `json:"error,omitempty"`
}

// MockStatus is the degraded status published when no candidate responds.
// Connected == false always pairs with the mock network and a nil endpoint.
func MockStatus(checkedAt time.Time, reason string) ReachabilityStatus {
	return ReachabilityStatus{
		Connected:     false,
		NetworkKind:   NetworkMock,
		LastCheckedAt: checkedAt,
		Error:         reason,
	}
}
