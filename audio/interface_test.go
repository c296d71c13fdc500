package audio

import (
	"errors"
	"testing"
)

func TestKindString(t *testing.T) {
	t.Parallel()

	cases := []struct {
		kind Kind
		want string
	}{
		{KindPlayback, "playback"},
		{KindRecording, "recording"},
		{KindBeep, "beep"},
		{Kind(99), "unknown"},
	}

	for _, c := range cases {
		if got := c.kind.String(); got != c.want {
			t.Errorf("Kind(%d).String() = %q, want %q", c.kind, got, c.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, kind := range []Kind{KindPlayback, KindRecording, KindBeep} {
		got, err := ParseKind(kind.String())
		if err != nil {
			t.Errorf("ParseKind(%q) error = %v, want nil", kind.String(), err)
		}
		if got != kind {
			t.Errorf("ParseKind(%q) = %v, want %v", kind.String(), got, kind)
		}
	}

	if _, err := ParseKind("siren"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKind(\"siren\") error = %v, want ErrUnknownKind", err)
	}
}
