package enums

// ToastSeverity classifies a user-facing toast notification.
type ToastSeverity string

const (
	ToastSuccess ToastSeverity = "success"
	ToastError   ToastSeverity = "error"
	ToastInfo    ToastSeverity = "info"
)

// IsValid reports whether the value is a known ToastSeverity.
func (t ToastSeverity) IsValid() bool {
	switch t {
	case ToastSuccess, ToastError, ToastInfo:
		return true
	}
	return false
}
