package i18n

import "testing"

func clearLocaleEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		t.Setenv(env, "")
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "no environment falls back to en",
			env:  nil,
			want: "en",
		},
		{
			name: "LANG with encoding suffix",
			env:  map[string]string{"LANG": "ru_RU.UTF-8"},
			want: "ru_RU",
		},
		{
			name: "LANGUAGE beats LANG",
			env:  map[string]string{"LANGUAGE": "es", "LANG": "ru_RU.UTF-8"},
			want: "es",
		},
		{
			name: "LANGUAGE colon list takes first entry",
			env:  map[string]string{"LANGUAGE": "de_DE:en_US"},
			want: "de_DE",
		},
		{
			name: "LC_ALL beats LC_MESSAGES",
			env:  map[string]string{"LC_ALL": "fr_FR", "LC_MESSAGES": "it_IT"},
			want: "fr_FR",
		},
		{
			name: "C locale is skipped",
			env:  map[string]string{"LC_ALL": "C", "LANG": "pt_BR.UTF-8"},
			want: "pt_BR",
		},
		{
			name: "POSIX locale is skipped",
			env:  map[string]string{"LANG": "POSIX"},
			want: "en",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearLocaleEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if got := detectLanguage(); got != tc.want {
				t.Errorf("detectLanguage() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestT_PassthroughBeforeInit(t *testing.T) {
	saved := locale
	locale = nil
	defer func() { locale = saved }()

	if got := T("hello"); got != "hello" {
		t.Errorf("T = %q, want passthrough", got)
	}
	if got := N("one item", "many items", 1); got != "one item" {
		t.Errorf("N(1) = %q", got)
	}
	if got := N("one item", "many items", 3); got != "many items" {
		t.Errorf("N(3) = %q", got)
	}
}

func TestInit_LoadsEmbeddedCatalog(t *testing.T) {
	saved := locale
	defer func() { locale = saved }()

	Init("ru")
	if got := T("no stored API keys"); got == "" {
		t.Error("translation came back empty")
	}

	// Unknown language still yields a working passthrough locale.
	Init("tlh")
	if got := T("no stored API keys"); got != "no stored API keys" {
		t.Errorf("unknown language T = %q, want passthrough", got)
	}
}
