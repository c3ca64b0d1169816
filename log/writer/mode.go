package writer

import "fmt"

// Mode selects how a log file is rotated.
type Mode string

const (
	// ModeTime starts a new file every Rotation.Every and links Name.Ext to it.
	ModeTime Mode = "time"
	// ModeSize rolls the file over once it reaches Rotation.MaxSizeMB.
	ModeSize Mode = "size"
)

// UnmarshalText accepts "time", "size" or an empty value, which means time.
func (m *Mode) UnmarshalText(text []byte) error {
	switch v := Mode(text); v {
	case "":
		*m = ModeTime
	case ModeTime, ModeSize:
		*m = v
	default:
		return fmt.Errorf("writer: unknown rotation mode %q", v)
	}
	return nil
}
