package placeholder

import "testing"

// ---------------------------------------------------------------------------
// Humanize
// ---------------------------------------------------------------------------

func TestHumanize(t *testing.T) {
	tests := []struct {
		name  string
		msgid string
		want  string
	}{
		{"no placeholders", "Hello world", "Hello world"},
		{"bare string", "Hi %s!", "Hi __item__!"},
		{"bare number", "%d items", "__number__ items"},
		{"named string", "Hello %(name)s", "Hello __name__"},
		{"named number", "Page %(count)d", "Page __count__"},
		{"name is lower-cased", "Hello %(Name)s", "Hello __name__"},
		{"mixed, order preserved", "Hello %(name)s, you have %d items\n", "Hello __name__, you have __number__ items\n"},
		{"adjacent", "%s%d", "__item____number__"},
		{"percent alone untouched", "100% done", "100% done"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Humanize(tc.msgid); got != tc.want {
				t.Errorf("Humanize(%q) = %q, want %q", tc.msgid, got, tc.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Restore / Fix
// ---------------------------------------------------------------------------

func TestRestore_PositionalReplacement(t *testing.T) {
	msgid := "Hello %(name)s, you have %d items"
	translation := "Hola __name__, tienes __number__ artículos"

	got, err := Restore(msgid, translation)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	want := "Hola %(name)s, tienes %d artículos"
	if got != want {
		t.Errorf("Restore = %q, want %q", got, want)
	}
}

func TestRestore_RepairsSurroundingWhitespace(t *testing.T) {
	// The service padded the token with extra spaces; the original had a
	// single space on each side.
	msgid := "Use %s here"
	translation := "Utilice  __item__  aquí"

	got, err := Restore(msgid, translation)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	want := "Utilice %s aquí"
	if got != want {
		t.Errorf("Restore = %q, want %q", got, want)
	}
}

func TestRestore_MoreTokensThanSpecifiersFails(t *testing.T) {
	_, err := Restore("Only %s", "__item__ and __number__")
	if err == nil {
		t.Fatal("expected error for extra tokens, got nil")
	}
}

func TestRestore_FewerTokensUnderConsumes(t *testing.T) {
	// The service dropped a token: the remaining specifier is simply not
	// restored, matching the lenient positional contract.
	got, err := Restore("%s and %d", "__item__ only")
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got != "%s only" {
		t.Errorf("Restore = %q, want %q", got, "%s only")
	}
}

func TestFix_RestoresNewlines(t *testing.T) {
	tests := []struct {
		name        string
		msgid       string
		translation string
		want        string
	}{
		{"lost trailing newline", "Hello %(name)s, you have %d items\n", "Hola __name__, tienes __number__ artículos", "Hola %(name)s, tienes %d artículos\n"},
		{"lost leading newline", "\nWarning: %s", "Achtung: __item__", "\nAchtung: %s"},
		{"newlines kept", "line\n", "Zeile\n", "Zeile\n"},
		{"no newline in source", "plain", "schlicht", "schlicht"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Fix(tc.msgid, tc.translation)
			if err != nil {
				t.Fatalf("Fix: %v", err)
			}
			if got != tc.want {
				t.Errorf("Fix = %q, want %q", got, tc.want)
			}
		})
	}
}

// Humanize then Fix with the untranslated text must reproduce the original
// exactly, placeholders and newline structure included.
func TestHumanizeFixRoundTrip(t *testing.T) {
	msgids := []string{
		"plain text",
		"Hi %s!",
		"%d files in %d directories",
		"Hello %(name)s, you have %d items\n",
		"\n%(user)s logged in at %(time)s\n",
		"  leading spaces %s  ",
		"%s%d",
		"",
	}
	for _, msgid := range msgids {
		got, err := Fix(msgid, Humanize(msgid))
		if err != nil {
			t.Errorf("round trip %q: %v", msgid, err)
			continue
		}
		if got != msgid {
			t.Errorf("round trip %q: got %q", msgid, got)
		}
	}
}
