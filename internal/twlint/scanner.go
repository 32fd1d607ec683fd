package twlint

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// ClassString is one class attribute value found in a source file
type ClassString struct {
	Value    string       // "flex w-10 h-10"
	Location FileLocation // Column is the start of Value
	Tokens   []ClassToken // whitespace-separated classes
}

// Classes returns the class names in source order.
func (cs ClassString) Classes() []string {
	out := make([]string, len(cs.Tokens))
	for i, t := range cs.Tokens {
		out[i] = t.Class
	}
	return out
}

// column returns where class first appears, or the start of the string.
func (cs ClassString) column(class string) int {
	for _, t := range cs.Tokens {
		if t.Class == class {
			return t.Column
		}
	}
	return cs.Location.Column
}

// ClassToken is a single class with its 1-based column in the line
type ClassToken struct {
	Class  string
	Column int
}

// FileLocation tracks where a class string was found
type FileLocation struct {
	File   string
	Line   int
	Column int    // 1-based column
	Text   string // Full line content for source display
}

// ScanStats tracks file scanning statistics
type ScanStats struct {
	FilesDiscovered int // Total files found by glob patterns
	FilesScanned    int // Files actually scanned (after filtering)
	FilesSkipped    int // Files skipped due to filtering
}

// scanPattern captures a class string in group 1
type scanPattern struct {
	name  string
	regex *regexp.Regexp
}

var (
	// Ordered from most specific to least specific
	patterns = []scanPattern{
		{
			name:  "class attribute with double quotes",
			regex: regexp.MustCompile(`\bclass(?:Name)?="([^"]*)"`),
		},
		{
			name:  "class attribute with single quotes",
			regex: regexp.MustCompile(`\bclass(?:Name)?='([^']*)'`),
		},
		{
			name:  "class with string literal in braces",
			regex: regexp.MustCompile(`\bclass(?:Name)?=\{\s*"([^"]*)"`),
		},
		{
			name:  "templ.KV with string",
			regex: regexp.MustCompile(`templ\.KV\(\s*"([^"]*)"`),
		},
	}

	templClassesCall = regexp.MustCompile(`templ\.Classes\(`)

	// Comment patterns to skip
	commentPattern = regexp.MustCompile(`^\s*//`)

	// gitignore caching
	gitIgnoreCache *ignore.GitIgnore
	gitIgnoreOnce  sync.Once
)

// isTemplGenerated checks if a file is a templ-generated Go file
func isTemplGenerated(path string) bool {
	return strings.HasSuffix(path, "_templ.go") ||
		strings.HasSuffix(path, ".templ.go")
}

// loadGitIgnore loads the .gitignore file once. A missing file is fine.
func loadGitIgnore() *ignore.GitIgnore {
	gitIgnoreOnce.Do(func() {
		gi, err := ignore.CompileIgnoreFile(".gitignore")
		if err != nil {
			gitIgnoreCache = nil
			return
		}
		gitIgnoreCache = gi
	})
	return gitIgnoreCache
}

// shouldSkipFile skips templ-generated files and, for relative paths,
// anything the project .gitignore excludes.
func shouldSkipFile(path string) bool {
	if isTemplGenerated(path) {
		return true
	}

	if !filepath.IsAbs(path) {
		gi := loadGitIgnore()
		if gi != nil && gi.MatchesPath(path) {
			return true
		}
	}

	return false
}

// expandGlobPatterns expands glob patterns to unique regular files, in
// pattern order, and counts what was filtered.
func expandGlobPatterns(patterns []string) ([]string, ScanStats, error) {
	var allFiles []string
	seen := make(map[string]bool)
	stats := ScanStats{}

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, stats, fmt.Errorf("glob pattern %q: %w", pattern, err)
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true

			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			stats.FilesDiscovered++

			if shouldSkipFile(match) {
				stats.FilesSkipped++
				continue
			}
			allFiles = append(allFiles, match)
			stats.FilesScanned++
		}
	}

	return allFiles, stats, nil
}

// scanFile extracts every class string of a file
func scanFile(filePath string) ([]ClassString, error) {
	// #nosec G304 - paths come from configured glob patterns
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var found []ClassString
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		found = append(found, extractClassStrings(scanner.Text(), lineNum, filePath)...)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}

	return found, nil
}

// extractClassStrings finds class strings on one line, ordered by column.
func extractClassStrings(line string, lineNum int, file string) []ClassString {
	if commentPattern.MatchString(line) {
		return nil
	}

	var spans [][2]int
	for _, pattern := range patterns {
		for _, m := range pattern.regex.FindAllStringSubmatchIndex(line, -1) {
			if len(m) >= 4 && m[2] >= 0 {
				spans = append(spans, [2]int{m[2], m[3]})
			}
		}
	}
	spans = append(spans, templClassesLiterals(line)...)

	seen := make(map[int]bool)
	var out []ClassString
	for _, span := range sortSpans(spans) {
		if seen[span[0]] {
			continue
		}
		seen[span[0]] = true

		cs := newClassString(line, span[0], span[1])
		cs.Location.File = file
		cs.Location.Line = lineNum
		if len(cs.Tokens) > 0 {
			out = append(out, cs)
		}
	}
	return out
}

// templClassesLiterals returns the string literals passed directly to
// templ.Classes(...). Literals nested in other calls such as templ.KV are
// left to their own patterns.
func templClassesLiterals(line string) [][2]int {
	var spans [][2]int

	for _, loc := range templClassesCall.FindAllStringIndex(line, -1) {
		depth := 1
		for i := loc[1]; i < len(line) && depth > 0; i++ {
			switch line[i] {
			case '(':
				depth++
			case ')':
				depth--
			case '"':
				end := strings.IndexByte(line[i+1:], '"')
				if end < 0 {
					return spans
				}
				if depth == 1 {
					spans = append(spans, [2]int{i + 1, i + 1 + end})
				}
				i += end + 1
			}
		}
	}

	return spans
}

func sortSpans(spans [][2]int) [][2]int {
	sort.SliceStable(spans, func(i, j int) bool { return spans[i][0] < spans[j][0] })
	return spans
}

// newClassString tokenizes line[start:end] keeping each class's column.
func newClassString(line string, start, end int) ClassString {
	cs := ClassString{
		Value: line[start:end],
		Location: FileLocation{
			Column: start + 1,
			Text:   line,
		},
	}

	i := start
	for i < end {
		for i < end && isSpace(line[i]) {
			i++
		}
		j := i
		for j < end && !isSpace(line[j]) {
			j++
		}
		if j > i {
			cs.Tokens = append(cs.Tokens, ClassToken{Class: line[i:j], Column: i + 1})
		}
		i = j
	}

	return cs
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// GetRelativePath returns a relative path from the current working directory
func GetRelativePath(absPath string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return absPath
	}

	rel, err := filepath.Rel(cwd, absPath)
	if err != nil {
		return absPath
	}

	return rel
}
