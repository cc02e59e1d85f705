package walker

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeCatalog creates an empty .po file under dir, creating parents.
func writeCatalog(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(""), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestFindCatalogs_LocaleFilter(t *testing.T) {
	root := t.TempDir()
	writeCatalog(t, filepath.Join(root, "locale", "fr", "LC_MESSAGES"), "django.po")
	writeCatalog(t, filepath.Join(root, "locale", "de", "LC_MESSAGES"), "django.po")

	w := &Walker{Root: root, Locales: []string{"fr"}}
	catalogs, err := w.FindCatalogs()
	if err != nil {
		t.Fatalf("FindCatalogs: %v", err)
	}

	if len(catalogs) != 1 {
		t.Fatalf("got %d catalogs, want 1", len(catalogs))
	}
	if catalogs[0].Lang != "fr" {
		t.Errorf("Lang = %q, want fr", catalogs[0].Lang)
	}
	if catalogs[0].Name != "django.po" {
		t.Errorf("Name = %q", catalogs[0].Name)
	}
}

func TestFindCatalogs_AllLocalesByDefault(t *testing.T) {
	root := t.TempDir()
	writeCatalog(t, filepath.Join(root, "locale", "fr", "LC_MESSAGES"), "django.po")
	writeCatalog(t, filepath.Join(root, "locale", "de", "LC_MESSAGES"), "django.po")

	w := &Walker{Root: root}
	catalogs, err := w.FindCatalogs()
	if err != nil {
		t.Fatalf("FindCatalogs: %v", err)
	}

	if len(catalogs) != 2 {
		t.Fatalf("got %d catalogs, want 2", len(catalogs))
	}
}

func TestFindCatalogs_Exclude(t *testing.T) {
	root := t.TempDir()
	writeCatalog(t, filepath.Join(root, "locale", "fr", "LC_MESSAGES"), "django.po")
	writeCatalog(t, filepath.Join(root, "locale", "de", "LC_MESSAGES"), "django.po")

	w := &Walker{Root: root, Exclude: []string{"de"}}
	catalogs, err := w.FindCatalogs()
	if err != nil {
		t.Fatalf("FindCatalogs: %v", err)
	}

	if len(catalogs) != 1 || catalogs[0].Lang != "fr" {
		t.Fatalf("got %v, want only fr", catalogs)
	}
}

func TestFindCatalogs_ConfLocaleConvention(t *testing.T) {
	root := t.TempDir()
	writeCatalog(t, filepath.Join(root, "conf", "locale", "ru", "LC_MESSAGES"), "django.po")

	w := &Walker{Root: root}
	catalogs, err := w.FindCatalogs()
	if err != nil {
		t.Fatalf("FindCatalogs: %v", err)
	}
	if len(catalogs) != 1 || catalogs[0].Lang != "ru" {
		t.Fatalf("got %v, want ru under conf/locale", catalogs)
	}
}

func TestFindCatalogs_NestedLocaleDirFoundByWalk(t *testing.T) {
	root := t.TempDir()
	// An app-level locale dir deep in the tree, the recursive-walk case.
	writeCatalog(t, filepath.Join(root, "apps", "shop", "locale", "pt_BR", "LC_MESSAGES"), "django.po")

	w := &Walker{Root: root}
	catalogs, err := w.FindCatalogs()
	if err != nil {
		t.Fatalf("FindCatalogs: %v", err)
	}
	if len(catalogs) != 1 || catalogs[0].Lang != "pt_BR" {
		t.Fatalf("got %v, want pt_BR from nested locale dir", catalogs)
	}
}

func TestFindCatalogs_ExtraPaths(t *testing.T) {
	root := t.TempDir()
	extra := filepath.Join(root, "shared-translations")
	writeCatalog(t, filepath.Join(extra, "nl", "LC_MESSAGES"), "messages.po")

	w := &Walker{Root: root, ExtraPaths: []string{extra}}
	catalogs, err := w.FindCatalogs()
	if err != nil {
		t.Fatalf("FindCatalogs: %v", err)
	}
	if len(catalogs) != 1 || catalogs[0].Lang != "nl" {
		t.Fatalf("got %v, want nl from extra path", catalogs)
	}
}

func TestFindCatalogs_NoLocaleDirsFails(t *testing.T) {
	root := t.TempDir()

	w := &Walker{Root: root}
	_, err := w.FindCatalogs()
	if !errors.Is(err, ErrNoLocaleDirs) {
		t.Fatalf("err = %v, want ErrNoLocaleDirs", err)
	}
}

func TestFindCatalogs_IgnoresNonPOFiles(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "locale", "fr", "LC_MESSAGES")
	writeCatalog(t, dir, "django.po")
	if err := os.WriteFile(filepath.Join(dir, "django.mo"), []byte(""), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	w := &Walker{Root: root}
	catalogs, err := w.FindCatalogs()
	if err != nil {
		t.Fatalf("FindCatalogs: %v", err)
	}
	if len(catalogs) != 1 {
		t.Fatalf("got %d catalogs, want 1 (mo file ignored)", len(catalogs))
	}
}

func TestLangFromDir(t *testing.T) {
	got := langFromDir(filepath.Join("locale", "pt_BR", "LC_MESSAGES"))
	if got != "pt_BR" {
		t.Errorf("langFromDir = %q, want pt_BR", got)
	}
}
