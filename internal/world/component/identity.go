package component

import "strings"

// Name is the display string plus a searchable keyword set (spec §3).
// Invariant: Display is non-empty; Keywords are lowercased.
type Name struct {
	Display  string
	Keywords []string
}

// NewName builds a Name, lowercasing keywords as the invariant requires.
func NewName(display string, keywords ...string) Name {
	kw := make([]string, len(keywords))
	for i, k := range keywords {
		kw[i] = strings.ToLower(k)
	}
	return Name{Display: display, Keywords: kw}
}

// Matches reports whether the given token (already lowercased by the
// caller) matches the display name or any keyword.
func (n Name) Matches(token string) bool {
	if strings.EqualFold(n.Display, token) {
		return true
	}
	for _, k := range n.Keywords {
		if k == token {
			return true
		}
	}
	return false
}

// Description is short + long prose shown by `look`.
type Description struct {
	Short string
	Long  string
}
