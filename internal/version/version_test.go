package version

import "testing"

func TestString(t *testing.T) {
	oldV, oldC, oldB := Version, Commit, BuildTime
	defer func() { Version, Commit, BuildTime = oldV, oldC, oldB }()

	Version, Commit, BuildTime = "1.2.3", "abc1234", "2025-01-02T03:04:05Z"

	want := "quotecard 1.2.3 (abc1234) built 2025-01-02T03:04:05Z"
	if got := String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	info := Get()
	if info.Version != "1.2.3" || info.Commit != "abc1234" || info.BuildTime != "2025-01-02T03:04:05Z" {
		t.Errorf("Get() = %+v", info)
	}
}

func TestShortRev(t *testing.T) {
	tests := map[string]string{
		"":                                         "",
		"abc":                                      "abc",
		"0123456789abcdef0123456789abcdef01234567": "0123456",
	}
	for in, want := range tests {
		if got := shortRev(in); got != want {
			t.Errorf("shortRev(%q) = %q, want %q", in, got, want)
		}
	}
}
