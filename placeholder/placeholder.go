// Package placeholder shields printf-style format specifiers from machine
// translation.
//
// Translation services routinely mangle or drop tokens like %s, %d and
// %(name)s because they look like noise. Before a string is sent out, each
// specifier is rewritten into a word-like token the service will carry
// through untouched (Humanize); after translation the tokens are swapped
// back for the original specifiers together with the exact whitespace that
// surrounded them in the source string (Restore).
package placeholder

import (
	"fmt"
	"regexp"
	"strings"
)

// specifierPattern matches %(name)s, %(name)d, %s and %d. The first group
// captures the name of a named specifier, the second the conversion verb.
var specifierPattern = regexp.MustCompile(`%(?:\((\w+)\))?([sd])`)

// surroundedSpecifier captures a specifier together with the literal
// whitespace immediately before and after it.
var surroundedSpecifier = regexp.MustCompile(`(\s*)(%(?:\(\w+\))?[sd])(\s*)`)

// tokenPattern matches a humanized token with optional surrounding
// whitespace in translated text.
var tokenPattern = regexp.MustCompile(`(\s*)(__\w+?__)(\s*)`)

// Humanize rewrites every format specifier in msgid into a word-like token:
//
//	%(name)s, %(name)d -> __name__
//	%d                 -> __number__
//	%s                 -> __item__
//
// Literal text and the relative order of specifiers are preserved.
func Humanize(msgid string) string {
	return specifierPattern.ReplaceAllStringFunc(msgid, func(m string) string {
		groups := specifierPattern.FindStringSubmatch(m)
		name, verb := groups[1], groups[2]
		switch {
		case name != "":
			return "__" + strings.ToLower(name) + "__"
		case verb == "d":
			return "__number__"
		default:
			return "__item__"
		}
	})
}

// Restore replaces humanized tokens in translation with the original
// specifiers from msgid. Tokens and specifiers are matched positionally: the
// Nth token is replaced with the Nth specifier, and the whitespace around
// the token is replaced with the whitespace that surrounded that specifier
// in msgid (translation services love to insert or eat spaces next to
// tokens).
//
// A translation carrying more tokens than msgid had specifiers is reported
// as an error rather than silently misassigned. Fewer tokens leave the
// remaining specifiers unconsumed, matching what a dropped token looks like.
func Restore(msgid, translation string) (string, error) {
	originals := surroundedSpecifier.FindAllStringSubmatch(msgid, -1)

	matches := tokenPattern.FindAllStringSubmatchIndex(translation, -1)
	if len(matches) > len(originals) {
		return "", fmt.Errorf("translation has %d placeholder tokens, source %q has %d specifiers",
			len(matches), msgid, len(originals))
	}

	var out strings.Builder
	last := 0
	for i, m := range matches {
		out.WriteString(translation[last:m[0]])
		// originals[i] groups: [1]=leading ws, [2]=specifier, [3]=trailing ws
		out.WriteString(originals[i][1])
		out.WriteString(originals[i][2])
		out.WriteString(originals[i][3])
		last = m[1]
	}
	out.WriteString(translation[last:])

	return out.String(), nil
}

// Fix repairs translation-induced formatting loss: it restores a leading or
// trailing newline that msgid has but the translation lost, then restores
// the original format specifiers via Restore.
func Fix(msgid, translation string) (string, error) {
	if strings.HasPrefix(msgid, "\n") && !strings.HasPrefix(translation, "\n") {
		translation = "\n" + translation
	}
	if strings.HasSuffix(msgid, "\n") && !strings.HasSuffix(translation, "\n") {
		translation += "\n"
	}
	return Restore(msgid, translation)
}
