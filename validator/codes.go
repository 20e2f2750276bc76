package validator

import "fmt"

// Severity is the channel a finding is reported on
type Severity uint8

const (
	// SeverityError blocks downstream computation
	SeverityError Severity = iota
	// SeverityWarning is informative only
	SeverityWarning
)

// String returns the severity name
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", uint8(s))
	}
}

// Code identifies a cross-source finding. The set is closed: consumers switch on it.
type Code uint8

const (
	// CodeTimestampDrift is emitted when the two snapshots were taken too far apart
	CodeTimestampDrift Code = iota + 1
	// CodeStaleData is emitted for each snapshot older than the allowed data age
	CodeStaleData
	// CodeLowActivityCorrelation is emitted when the activity magnitudes diverge
	CodeLowActivityCorrelation
	// CodeUserCountDiscrepancy is emitted when the engaged user counts diverge
	CodeUserCountDiscrepancy
)

var codeNames = map[Code]string{
	CodeTimestampDrift:         "TIMESTAMP_DRIFT",
	CodeStaleData:              "STALE_DATA",
	CodeLowActivityCorrelation: "LOW_ACTIVITY_CORRELATION",
	CodeUserCountDiscrepancy:   "USER_COUNT_DISCREPANCY",
}

// AllCodes returns the full vocabulary in check order
func AllCodes() []Code {
	return []Code{
		CodeTimestampDrift,
		CodeStaleData,
		CodeLowActivityCorrelation,
		CodeUserCountDiscrepancy,
	}
}

// String returns the wire name of the code
func (c Code) String() string {
	name, ok := codeNames[c]
	if !ok {
		return fmt.Sprintf("Code(%d)", uint8(c))
	}

	return name
}

// Severity returns the channel the code is reported on
func (c Code) Severity() Severity {
	switch c {
	case CodeTimestampDrift, CodeStaleData:
		return SeverityError
	default:
		return SeverityWarning
	}
}

// IsValid returns true if the code belongs to the vocabulary
func (c Code) IsValid() bool {
	_, ok := codeNames[c]
	return ok
}

// ParseCode converts a wire name back into a Code
func ParseCode(name string) (Code, error) {
	for code, n := range codeNames {
		if n == name {
			return code, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownCode, name)
}

// MarshalText implements encoding.TextMarshaler
func (c Code) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCode, uint8(c))
	}

	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Code) UnmarshalText(text []byte) error {
	code, err := ParseCode(string(text))
	if err != nil {
		return err
	}

	*c = code
	return nil
}
