package schedule

import "fmt"

// Kind is the calendar entry type. Stored in the "type" column.
type Kind string

const (
	KindService Kind = "service"
	KindMeeting Kind = "meeting"
	KindBreak   Kind = "break"
	KindOther   Kind = "other"
)

const DefaultReminderMinutes = 15

func Kinds() []Kind {
	return []Kind{KindService, KindMeeting, KindBreak, KindOther}
}

func (k Kind) Valid() bool {
	switch k {
	case KindService, KindMeeting, KindBreak, KindOther:
		return true
	}
	return false
}

func ParseKind(v string) (Kind, error) {
	k := Kind(v)
	if !k.Valid() {
		return "", fmt.Errorf("invalid schedule type %q", v)
	}
	return k, nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
