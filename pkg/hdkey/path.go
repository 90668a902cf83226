package hdkey

import (
	"fmt"
	"strconv"
	"strings"
)

// Path is an ordered derivation path. Hardened elements carry the
// HardenedKeyStart offset.
type Path []uint32

// ParsePath parses a path string such as "m/84'/1'/0'". The leading
// "m/" is optional and both ' and h mark hardened elements.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "m" || s == "" {
		return Path{}, nil
	}
	s = strings.TrimPrefix(s, "m/")

	parts := strings.Split(s, "/")
	path := make(Path, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("hdkey: empty path element in %q", s)
		}
		hardened := false
		if c := part[len(part)-1]; c == '\'' || c == 'h' || c == 'H' {
			hardened = true
			part = part[:len(part)-1]
		}
		index, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("hdkey: invalid path element %q: %w", part, err)
		}
		if index >= uint64(HardenedKeyStart) {
			return nil, fmt.Errorf("hdkey: path element %d out of range", index)
		}
		if hardened {
			index += uint64(HardenedKeyStart)
		}
		path = append(path, uint32(index))
	}
	return path, nil
}

// String renders the path with an "m/" prefix and ' hardened markers.
func (p Path) String() string {
	var sb strings.Builder
	sb.WriteString("m")
	for _, e := range p {
		sb.WriteByte('/')
		if e >= HardenedKeyStart {
			sb.WriteString(strconv.FormatUint(uint64(e-HardenedKeyStart), 10))
			sb.WriteByte('\'')
		} else {
			sb.WriteString(strconv.FormatUint(uint64(e), 10))
		}
	}
	return sb.String()
}

// Origin renders the path without the "m/" prefix, the form used
// inside descriptor key-origin brackets. An empty path yields "".
func (p Path) Origin() string {
	s := p.String()
	return strings.TrimPrefix(strings.TrimPrefix(s, "m/"), "m")
}

// Extend returns a new path with the given elements appended.
func (p Path) Extend(elements ...uint32) Path {
	out := make(Path, 0, len(p)+len(elements))
	out = append(out, p...)
	out = append(out, elements...)
	return out
}
