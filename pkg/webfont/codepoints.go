package webfont

import (
	"strconv"

	ierrors "github.com/matzehuels/iconfont/pkg/errors"
)

// AssignCodepoints maps every name to a code point. Explicit entries are
// kept as given; the rest receive consecutive values counting up from
// start, skipping values already taken and surrogates.
//
// An explicit entry is used whenever the name is present in explicit,
// so an explicit zero is rejected rather than treated as unset. Two
// names sharing one explicit code point are rejected too. Entries for
// names not in names produce no output, but their code points stay
// reserved so a removed icon's value is never handed to another one.
func AssignCodepoints(names []string, explicit map[string]rune, start rune) (map[string]rune, error) {
	if err := ierrors.ValidateCodepoint("start", start); err != nil {
		return nil, err
	}

	out := make(map[string]rune, len(names))
	owner := make(map[rune]string, len(explicit))
	for _, name := range names {
		cp, ok := explicit[name]
		if !ok {
			continue
		}
		if err := ierrors.ValidateCodepoint(name, cp); err != nil {
			return nil, err
		}
		if prev, taken := owner[cp]; taken && prev != name {
			return nil, ierrors.New(ierrors.ErrCodeInvalidCodepoint,
				"glyphs %q and %q share codepoint %#x", prev, name, cp)
		}
		owner[cp] = name
		out[name] = cp
	}

	for name, cp := range explicit {
		if _, taken := owner[cp]; !taken {
			owner[cp] = name
		}
	}

	next := start
	for _, name := range names {
		if _, ok := out[name]; ok {
			continue
		}
		for isReserved(next, owner) {
			next++
		}
		if next > ierrors.MaxCodepoint {
			return nil, ierrors.New(ierrors.ErrCodeInvalidCodepoint,
				"glyph %q: no code point left after %#x", name, start)
		}
		out[name] = next
		owner[next] = name
		next++
	}
	return out, nil
}

func isReserved(cp rune, owner map[rune]string) bool {
	if cp >= 0xD800 && cp <= 0xDFFF {
		return true
	}
	_, taken := owner[cp]
	return taken
}

// Hex formats a code point the way stylesheets escape it: lowercase
// hexadecimal without a prefix.
func Hex(cp rune) string {
	return strconv.FormatInt(int64(cp), 16)
}
