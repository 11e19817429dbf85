package enums

import "fmt"

// ChangeOp is the row operation carried by a table change event.
type ChangeOp string

const (
	ChangeOpInsert ChangeOp = "INSERT"
	ChangeOpUpdate ChangeOp = "UPDATE"
	ChangeOpDelete ChangeOp = "DELETE"
)

// IsValid reports whether the value is a known ChangeOp.
func (c ChangeOp) IsValid() bool {
	switch c {
	case ChangeOpInsert, ChangeOpUpdate, ChangeOpDelete:
		return true
	}
	return false
}

// ParseChangeOp converts raw input into a ChangeOp.
func ParseChangeOp(value string) (ChangeOp, error) {
	switch ChangeOp(value) {
	case ChangeOpInsert:
		return ChangeOpInsert, nil
	case ChangeOpUpdate:
		return ChangeOpUpdate, nil
	case ChangeOpDelete:
		return ChangeOpDelete, nil
	}
	return "", fmt.Errorf("invalid change op %q", value)
}
