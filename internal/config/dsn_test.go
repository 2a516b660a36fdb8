package config

import "testing"

func TestWithBinaryResultFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		enabled bool
		want    string
	}{
		{
			name:    "adds flag",
			raw:     "postgres://app:secret@db:5432/cricket_slots?sslmode=disable",
			enabled: true,
			want:    "postgres://app:secret@db:5432/cricket_slots?disable_prepared_binary_result=yes&sslmode=disable",
		},
		{
			name:    "explicit value wins",
			raw:     "postgres://app:secret@db:5432/cricket_slots?disable_prepared_binary_result=no",
			enabled: true,
			want:    "postgres://app:secret@db:5432/cricket_slots?disable_prepared_binary_result=no",
		},
		{
			name:    "disabled",
			raw:     "postgres://app:secret@db:5432/cricket_slots",
			enabled: false,
			want:    "postgres://app:secret@db:5432/cricket_slots",
		},
		{
			name:    "key value dsn untouched",
			raw:     "host=db dbname=cricket_slots sslmode=disable",
			enabled: true,
			want:    "host=db dbname=cricket_slots sslmode=disable",
		},
	}

	for _, tc := range tests {
		if got := WithBinaryResultFlag(tc.raw, tc.enabled); got != tc.want {
			t.Fatalf("%s: got=%q want=%q", tc.name, got, tc.want)
		}
	}
}

func TestDBNameFromDSN(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"postgres://app:secret@db:5432/cricket_slots?sslmode=disable": "cricket_slots",
		"host=db user=app dbname='slots_test' sslmode=disable":        "slots_test",
		"postgres://app@db:5432":                                      "",
		"":                                                            "",
	}
	for raw, want := range tests {
		if got := DBNameFromDSN(raw); got != want {
			t.Fatalf("db name %q got=%q want=%q", raw, got, want)
		}
	}
}

func TestConfigPostgresDSN(t *testing.T) {
	t.Parallel()

	cfg := Config{DBURL: " postgres://app@db:5432/cricket_slots ", DBDisablePreparedBinary: true}
	if got, want := cfg.PostgresDSN(), "postgres://app@db:5432/cricket_slots?disable_prepared_binary_result=yes"; got != want {
		t.Fatalf("unexpected dsn got=%q want=%q", got, want)
	}
}
