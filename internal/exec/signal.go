package exec

import "time"

// Kind identifies the type of operator signal.
type Kind string

const (
	// KindCancel indicates the operator cancelled the call.
	KindCancel Kind = "cancel"
	// KindRetry indicates the operator wants the agent to retry the operation.
	KindRetry Kind = "retry"
	// KindBackground indicates the operation continues in the background and
	// the agent should check back later.
	KindBackground Kind = "background"
	// KindExpert indicates the operator wants the agent to stop and consult
	// an expert before continuing.
	KindExpert Kind = "expert"
	// KindCustom carries a free-form operator message.
	KindCustom Kind = "custom"
)

// Signal is an operator-issued message that terminates an in-flight tool
// call early. The underlying workspace operation is not stopped; only the
// protocol-level call is resolved.
type Signal struct {
	Kind      Kind
	Message   string
	Timestamp time.Time
}

// NewSignal creates a signal, filling in the default message for the kind
// when message is empty.
func NewSignal(kind Kind, message string) Signal {
	if message == "" {
		message = DefaultMessage(kind)
	}

	return Signal{
		Kind:      kind,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// DefaultMessage returns the default operator message for a signal kind.
func DefaultMessage(kind Kind) string {
	switch kind {
	case KindCancel:
		return "Operation was cancelled by user. Please acknowledge and proceed with next steps."
	case KindRetry:
		return "An error occurred in the workspace. Please retry the operation."
	case KindBackground:
		return "Long operation continues in background."
	case KindExpert:
		return "User requested to stop and consult with expert before continuing."
	case KindCustom:
		return ""
	default:
		return ""
	}
}
