package runtimes

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	minorPattern = regexp.MustCompile(`(\d+)\.(\d+)`)
	majorPattern = regexp.MustCompile(`\d+`)
)

// CanonicalMinor reduces a version string to "major.minor" using the first two
// dot-separated numeric groups. It is idempotent: "3.11" stays "3.11".
func CanonicalMinor(version string) (string, bool) {
	m := minorPattern.FindStringSubmatch(version)
	if m == nil {
		return "", false
	}
	return trimZeros(m[1]) + "." + trimZeros(m[2]), true
}

// CanonicalMajor reduces a version string to its leading numeric group.
// "v20.10.0", "Node 20" and "20" all become "20".
func CanonicalMajor(version string) (string, bool) {
	m := majorPattern.FindString(version)
	if m == "" {
		return "", false
	}
	return trimZeros(m), true
}

func trimZeros(s string) string {
	n, err := strconv.Atoi(s)
	if err != nil {
		return s
	}
	return strconv.Itoa(n)
}

// CompareVersions orders two version strings numerically. It returns -1, 0 or 1.
func CompareVersions(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}

	pa, pb := numericParts(a), numericParts(b)
	for len(pa) < len(pb) {
		pa = append(pa, 0)
	}
	for len(pb) < len(pa) {
		pb = append(pb, 0)
	}
	for i := range pa {
		switch {
		case pa[i] > pb[i]:
			return 1
		case pa[i] < pb[i]:
			return -1
		}
	}
	return strings.Compare(a, b)
}

// SortDescending sorts versions newest first.
func SortDescending(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		return CompareVersions(versions[i], versions[j]) > 0
	})
}

func numericParts(version string) []int {
	var parts []int
	current := strings.Builder{}
	for _, r := range version {
		if r >= '0' && r <= '9' {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			val, _ := strconv.Atoi(current.String())
			parts = append(parts, val)
			current.Reset()
		}
	}
	if current.Len() > 0 {
		val, _ := strconv.Atoi(current.String())
		parts = append(parts, val)
	}
	return parts
}

// containsVersionToken reports whether output mentions token as a whole
// version: "3.1" does not match inside "3.12.0", but "3.12" does.
func containsVersionToken(output, token string) bool {
	if token == "" {
		return false
	}
	for offset := 0; offset < len(output); {
		idx := strings.Index(output[offset:], token)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(token)
		before := start == 0 || !isVersionByte(output[start-1])
		after := end == len(output) || !isDigit(output[end])
		if before && after {
			return true
		}
		offset = start + 1
	}
	return false
}

// hasVersionPrefix reports whether name starts with version at a component
// boundary, so "3.13.0" and "3.13-dev" match "3.13" but "3.130" does not.
func hasVersionPrefix(name, version string) bool {
	if version == "" || !strings.HasPrefix(name, version) {
		return false
	}
	return len(name) == len(version) || !isDigit(name[len(version)])
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isVersionByte(b byte) bool {
	return isDigit(b) || b == '.'
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// dedupe keeps the first occurrence of each value.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
