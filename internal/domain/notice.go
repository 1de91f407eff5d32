package domain

// Severity of a user-facing notice. The values mirror the alert levels the
// frontend renders.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Notice is a one-shot user-facing message attached to a response. Notices
// are ephemeral and never persisted.
type Notice struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}
