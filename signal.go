package workspacemcp

import "github.com/wagiedev/workspace-mcp-go/internal/exec"

// SignalKind identifies the type of operator signal.
type SignalKind = exec.Kind

// Signal kinds an operator can deliver to a running tool call.
const (
	// SignalCancel indicates the operator cancelled the call.
	SignalCancel = exec.KindCancel
	// SignalRetry asks the agent to retry the operation.
	SignalRetry = exec.KindRetry
	// SignalBackground tells the agent the operation continues in the
	// background and should be checked later.
	SignalBackground = exec.KindBackground
	// SignalExpert asks the agent to stop and consult an expert.
	SignalExpert = exec.KindExpert
	// SignalCustom carries a free-form operator message.
	SignalCustom = exec.KindCustom
)

// DefaultSignalMessage returns the default operator message for a signal
// kind, used when the UI submits an empty message.
func DefaultSignalMessage(kind SignalKind) string {
	return exec.DefaultMessage(kind)
}
