package domain

type BackendKind string

const (
	BackendNone            BackendKind = "none"
	BackendLocalSimulated  BackendKind = "local-simulated"
	BackendNativeExtension BackendKind = "native-extension"
	BackendBridgedProvider BackendKind = "bridged-provider"
)

func (k BackendKind) Connectable() bool {
	switch k {
	case BackendLocalSimulated, BackendNativeExtension, BackendBridgedProvider:
		return true
	}
	return false
}

// Session is the single active credential binding. Exactly one Session is
// active at a time; Kind == BackendNone implies an empty Identity and no
// account handles.
type Session struct {
	Kind           BackendKind `json:"kind"`
	Identity       string      `json:"identity"`
	AccountHandles []string    `json:"account_handles,omitempty"`
	// Balance is a decimal string, backend-local and advisory. It is only
	// authoritative for the local simulated backend.
	Balance string `json:"balance,omitempty"`
}

func EmptySession() Session {
	return Session{Kind: BackendNone}
}

func (s Session) Active() bool {
	return s.Kind != "" && s.Kind != BackendNone && s.Identity != ""
}

// IdentityBinding is delivered to the state binder whenever the active
// identity changes, including none -> identity and identity -> none.
type IdentityBinding struct {
	Previous string
	New      string
}
