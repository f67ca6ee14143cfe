package enums

// LogAction labels order change-log entries.
type LogAction string

const (
	LogActionCreated       LogAction = "created"
	LogActionUpdated       LogAction = "updated"
	LogActionStatusChanged LogAction = "status_changed"
)

// String implements fmt.Stringer.
func (a LogAction) String() string {
	return string(a)
}
