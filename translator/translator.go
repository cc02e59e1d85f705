// Package translator fills in missing translations in a PO catalog.
//
// Processing a file is a two-pass protocol over the same entry sequence:
// the first pass collects the humanized source strings for every entry that
// needs translation (one string for singular entries, two for plural ones),
// a single backend call translates the whole ordered list, and the second
// pass walks the entries again with the same predicate, consuming the
// translated list through a cursor. The positional contract between the two
// passes is what keeps translations attached to the right entries, so the
// cursor checks exhaustion in both directions instead of assuming it.
package translator

import (
	"context"
	"errors"
	"fmt"

	"github.com/autopo/autopo/backend"
	"github.com/autopo/autopo/placeholder"
	"github.com/autopo/autopo/pofile"
)

// ErrCursorExhausted is returned when re-application needs more translations
// than the backend returned.
var ErrCursorExhausted = errors.New("translation list exhausted")

// ErrCursorLeftover is returned when translations remain unconsumed after
// re-application, meaning the two passes disagreed about which entries need
// translation.
var ErrCursorLeftover = errors.New("unconsumed translations remain")

// Translator fills catalogs via a translation backend. Construct it with
// explicit options; it holds no ambient state.
type Translator struct {
	// Backend performs the actual translation calls.
	Backend backend.Backend
	// SourceLang is the language catalogs are authored in.
	SourceLang string
	// UntranslatedOnly skips entries that are already translated and not
	// obsolete (the --untranslated mode).
	UntranslatedOnly bool
	// SetFuzzy tags every updated entry with the fuzzy flag so translators
	// can review machine output.
	SetFuzzy bool
	// Logf, when set, receives progress messages.
	Logf func(format string, args ...any)
}

func (t *Translator) log(format string, args ...any) {
	if t.Logf != nil {
		t.Logf(format, args...)
	}
}

func (t *Translator) sourceLang() string {
	if t.SourceLang == "" {
		return "en"
	}
	return t.SourceLang
}

// NeedTranslate reports whether an entry is selected for translation.
//
// In untranslated-only mode an entry is skipped only when it is both fully
// translated and not obsolete. The formula keeps obsolete entries eligible
// even in that mode; long-standing behavior that review tooling depends on,
// preserved as is.
func (t *Translator) NeedTranslate(e *pofile.Entry) bool {
	return !t.UntranslatedOnly || !e.Translated() || !e.Obsolete
}

// TranslateFile loads the catalog at path, translates the entries that need
// it into targetLang with a single backend call, re-applies the results in
// order, and writes the catalog back to path.
func (t *Translator) TranslateFile(ctx context.Context, path, targetLang string) error {
	t.log("filling up translations for locale %q", targetLang)

	po, err := pofile.ParseFile(path)
	if err != nil {
		return err
	}

	texts := t.stringsToTranslate(po)
	if len(texts) == 0 {
		t.log("nothing to translate in %s", path)
		return nil
	}

	translated, err := t.Backend.Translate(ctx, texts, targetLang, t.sourceLang())
	if err != nil {
		return fmt.Errorf("translating %s: %w", path, err)
	}
	if len(translated) != len(texts) {
		return fmt.Errorf("%s: requested %d translations, got %d", path, len(texts), len(translated))
	}

	if err := t.updateTranslations(po, translated, po.Nplurals(targetLang)); err != nil {
		return fmt.Errorf("updating %s: %w", path, err)
	}

	if err := po.WriteFile(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// stringsToTranslate returns the humanized source strings for every entry
// selected by NeedTranslate, in catalog order: the msgid, then the
// msgid_plural when present.
func (t *Translator) stringsToTranslate(po *pofile.File) []string {
	var texts []string
	for _, e := range po.Entries {
		if !t.NeedTranslate(e) {
			continue
		}
		texts = append(texts, placeholder.Humanize(e.MsgID))
		if e.MsgIDPlural != "" {
			texts = append(texts, placeholder.Humanize(e.MsgIDPlural))
		}
	}
	return texts
}

// updateTranslations walks the catalog with the same predicate and order as
// stringsToTranslate, consuming translations positionally. Singular entries
// take one translation into MsgStr; plural entries take two, the first into
// plural slot 0 and the second into every other slot up to nplurals (slots
// are pre-created, so a freshly extracted catalog with no msgstr[N] lines
// still receives the plural translation).
func (t *Translator) updateTranslations(po *pofile.File, translated []string, nplurals int) error {
	cur := newCursor(translated)

	for _, e := range po.Entries {
		if !t.NeedTranslate(e) {
			continue
		}

		if e.MsgIDPlural != "" {
			raw, err := cur.next()
			if err != nil {
				return err
			}
			fixed, err := placeholder.Fix(e.MsgID, raw)
			if err != nil {
				return fmt.Errorf("msgid %q: %w", e.MsgID, err)
			}
			if e.MsgStrPlural == nil {
				e.MsgStrPlural = make(map[int]string)
			}
			for k := 0; k < nplurals; k++ {
				if _, ok := e.MsgStrPlural[k]; !ok {
					e.MsgStrPlural[k] = ""
				}
			}
			e.MsgStrPlural[0] = fixed

			raw, err = cur.next()
			if err != nil {
				return err
			}
			fixed, err = placeholder.Fix(e.MsgIDPlural, raw)
			if err != nil {
				return fmt.Errorf("msgid_plural %q: %w", e.MsgIDPlural, err)
			}
			for k := range e.MsgStrPlural {
				if k != 0 {
					e.MsgStrPlural[k] = fixed
				}
			}
		} else {
			raw, err := cur.next()
			if err != nil {
				return err
			}
			fixed, err := placeholder.Fix(e.MsgID, raw)
			if err != nil {
				return fmt.Errorf("msgid %q: %w", e.MsgID, err)
			}
			e.MsgStr = fixed
		}

		if t.SetFuzzy {
			e.AddFlag("fuzzy")
		}
	}

	if n := cur.remaining(); n > 0 {
		return fmt.Errorf("%w: %d of %d", ErrCursorLeftover, n, len(translated))
	}
	return nil
}

// cursor consumes a flat translation list one element at a time, turning
// misalignment between the extraction and update passes into explicit
// errors instead of silent corruption.
type cursor struct {
	items []string
	pos   int
}

func newCursor(items []string) *cursor {
	return &cursor{items: items}
}

func (c *cursor) next() (string, error) {
	if c.pos >= len(c.items) {
		return "", fmt.Errorf("%w after %d items", ErrCursorExhausted, c.pos)
	}
	s := c.items[c.pos]
	c.pos++
	return s, nil
}

func (c *cursor) remaining() int {
	return len(c.items) - c.pos
}
