package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// resolvePath expands p and makes it absolute against base.
// Empty paths stay empty.
func resolvePath(p, base string) string {
	p = expandPath(p)
	if p == "" || filepath.IsAbs(p) || base == "" {
		return p
	}
	return filepath.Join(base, p)
}

// expandPath expands environment variables and a leading ~ in p.
// On Windows %VAR% references and ~\ prefixes are also understood.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		p = expandPercentVars(p)
	}
	return expandHome(p)
}

func expandHome(p string) string {
	rest, ok := strings.CutPrefix(p, "~")
	if !ok {
		return p
	}
	if rest != "" && rest[0] != '/' && !(runtime.GOOS == "windows" && rest[0] == '\\') {
		// ~user is left alone.
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if rest == "" {
		return home
	}
	return filepath.Join(home, rest[1:])
}

// expandPercentVars replaces %NAME% with the value of NAME. Unknown names
// and unpaired percent signs are kept as written.
func expandPercentVars(p string) string {
	var b strings.Builder
	for {
		before, after, found := strings.Cut(p, "%")
		b.WriteString(before)
		if !found {
			return b.String()
		}
		name, tail, closed := strings.Cut(after, "%")
		if !closed {
			b.WriteString("%" + after)
			return b.String()
		}
		if name == "" {
			// %% keeps one percent sign and rescans from the second.
			b.WriteByte('%')
			p = "%" + tail
			continue
		}
		if val, ok := os.LookupEnv(name); ok {
			b.WriteString(val)
		} else {
			b.WriteString("%" + name + "%")
		}
		p = tail
	}
}
