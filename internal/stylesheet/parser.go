package stylesheet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"github.com/yacobolo/twlint/utility"
	"go.uber.org/zap"
)

// parserState maintains context while walking the token stream
type parserState struct {
	sheet   *Sheet
	atRules []string // enclosing condition at-rules, outermost first
	frames  []frame
	rules   int
}

// frame is one open block. Rulesets and at-rules nested inside a ruleset
// carry the owners their declarations belong to.
type frame struct {
	owners   []owner
	pushedAt bool
}

// owner is a class and the selector path its declarations are recorded under.
type owner struct {
	class string
	at    string // enclosing at-rule conditions, outermost first
	sel   string // selector with the class replaced by "&"
}

// path renders the selector path: at-rules first, then the selector.
func (o owner) path() string {
	if o.at == "" {
		return o.sel
	}
	return o.at + " " + o.sel
}

// statement collects the tokens between block delimiters.
type statement struct {
	buf   []byte
	colon int // offset of the first top-level colon, -1 if none
	depth int
}

func (st *statement) add(tt css.TokenType, data []byte) {
	switch tt {
	case css.LeftParenthesisToken, css.LeftBracketToken, css.FunctionToken:
		st.depth++
	case css.RightParenthesisToken, css.RightBracketToken:
		if st.depth > 0 {
			st.depth--
		}
	case css.ColonToken:
		if st.depth == 0 && st.colon < 0 {
			st.colon = len(st.buf)
		}
	}
	st.buf = append(st.buf, data...)
}

func (st *statement) reset() {
	st.buf = st.buf[:0]
	st.colon = -1
	st.depth = 0
}

// Parse parses compiled utility CSS into a Sheet.
func Parse(content string, config Config) (*Sheet, error) {
	sheet := newSheet(config)
	if err := sheet.add(content); err != nil {
		return nil, err
	}
	sheet.finish()
	return sheet, nil
}

// LoadFiles parses every file into one Sheet, in order. Unreadable or
// malformed files are logged and skipped; rule order continues across files.
func LoadFiles(files []string, config Config, logger *zap.Logger) (*Sheet, []string) {
	if logger == nil {
		logger = zap.NewNop()
	}

	sheet := newSheet(config)
	var warnings []string

	for _, file := range files {
		// #nosec G304 - path comes from trusted configuration
		content, err := os.ReadFile(file)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to read %s: %v", file, err))
			logger.Warn("skipping stylesheet", zap.String("file", file), zap.Error(err))
			continue
		}

		if err := sheet.add(string(content)); err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to parse %s: %v", file, err))
			logger.Warn("skipping stylesheet", zap.String("file", file), zap.Error(err))
			continue
		}
		logger.Debug("parsed stylesheet", zap.String("file", file))
	}

	sheet.finish()
	logger.Debug("stylesheet loaded",
		zap.Int("files", len(files)),
		zap.Int("classes", len(sheet.classes)),
		zap.Int("variants", len(sheet.variants)))

	return sheet, warnings
}

// add parses one stylesheet into a scratch copy and commits it only on success.
// Blocks are tracked by brace so nested rules and at-rules inside rulesets
// (as emitted by Tailwind v4) are walked like top-level ones.
func (s *Sheet) add(content string) error {
	scratch := s.clone()
	state := &parserState{sheet: scratch, rules: scratch.rules}

	lexer := css.NewLexer(parse.NewInputString(content))
	var st statement
	st.reset()

	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			if err := lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("parse css: %w", err)
			}
			break
		}

		switch tt {
		case css.CommentToken, css.CDOToken, css.CDCToken:
		case css.LeftBraceToken:
			state.open(string(st.buf))
			st.reset()
		case css.SemicolonToken:
			state.statement(&st)
			st.reset()
		case css.RightBraceToken:
			state.statement(&st)
			st.reset()
			state.pop()
		default:
			st.add(tt, text)
		}
	}

	s.classes = scratch.classes
	s.rules = state.rules
	return nil
}

// open starts an at-rule or ruleset block.
func (s *parserState) open(prelude string) {
	prelude = strings.TrimSpace(prelude)
	if strings.HasPrefix(prelude, "@") {
		end := strings.IndexFunc(prelude, func(r rune) bool {
			return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '('
		})
		if end < 0 {
			end = len(prelude)
		}
		s.beginAtRule(prelude[:end], prelude[end:])
		return
	}
	s.beginRuleset(prelude)
}

// statement handles a ";" or "}" terminated statement. Inside a ruleset it is
// a declaration; at-rule statements such as @import are ignored.
func (s *parserState) statement(st *statement) {
	text := strings.TrimSpace(string(st.buf))
	if text == "" || strings.HasPrefix(text, "@") || st.colon < 0 {
		return
	}
	s.declaration(string(st.buf[:st.colon]), string(st.buf[st.colon+1:]))
}

func (s *parserState) top() frame {
	if len(s.frames) == 0 {
		return frame{}
	}
	return s.frames[len(s.frames)-1]
}

func (s *parserState) pop() {
	n := len(s.frames)
	if n == 0 {
		return
	}
	if s.frames[n-1].pushedAt && len(s.atRules) > 0 {
		s.atRules = s.atRules[:len(s.atRules)-1]
	}
	s.frames = s.frames[:n-1]
}

// beginAtRule tracks conditional at-rules. Layers only affect cascade order
// and are not part of the selector path.
func (s *parserState) beginAtRule(name, params string) {
	name = strings.ToLower(name)
	parent := s.top()

	if name == "@layer" {
		s.frames = append(s.frames, frame{owners: parent.owners})
		return
	}

	cond := normalizeSpace(name + " " + params)
	s.atRules = append(s.atRules, cond)

	f := frame{pushedAt: true}
	for _, o := range parent.owners {
		at := cond
		if o.at != "" {
			at = o.at + " " + cond
		}
		f.owners = append(f.owners, s.sheet.own(owner{class: o.class, at: at, sel: o.sel}))
	}
	s.frames = append(s.frames, f)
}

// beginRuleset records every class in the selector list. The last top-level
// class of each selector owns the declarations; the others only become
// registered. Inside a ruleset, selectors are nested: "&" stands for the
// enclosing selector and is implied as an ancestor when missing.
func (s *parserState) beginRuleset(prelude string) {
	parent := s.top()

	var f frame
	for _, sel := range splitSelectorList(prelude) {
		sel = normalizeSpace(sel)
		if sel == "" {
			continue
		}
		refs := classRefs(sel)

		if len(parent.owners) > 0 {
			for _, ref := range refs {
				s.sheet.register(ref.name, s.rules)
			}
			if !strings.Contains(sel, "&") {
				sel = "& " + sel
			}
			for _, o := range parent.owners {
				nested := owner{class: o.class, at: o.at, sel: strings.ReplaceAll(sel, "&", o.sel)}
				f.owners = append(f.owners, s.sheet.own(nested))
			}
			continue
		}
		if len(refs) == 0 {
			continue
		}

		ownerIdx := len(refs) - 1
		for i := len(refs) - 1; i >= 0; i-- {
			if refs[i].depth == 0 {
				ownerIdx = i
				break
			}
		}

		for i, ref := range refs {
			if i != ownerIdx {
				s.sheet.register(ref.name, s.rules)
			}
		}

		ref := refs[ownerIdx]
		s.sheet.register(ref.name, s.rules)
		f.owners = append(f.owners, s.sheet.own(owner{
			class: ref.name,
			at:    strings.Join(s.atRules, " "),
			sel:   sel[:ref.start] + "&" + sel[ref.end:],
		}))
	}

	s.frames = append(s.frames, f)
	s.rules++
}

// splitSelectorList splits a selector list on commas outside parentheses,
// brackets and strings.
func splitSelectorList(prelude string) []string {
	var parts []string
	depth, start := 0, 0
	var quote byte

	for i := 0; i < len(prelude); i++ {
		c := prelude[i]
		switch {
		case c == '\\':
			i++
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			if depth > 0 {
				depth--
			}
		case c == ',' && depth == 0:
			parts = append(parts, prelude[start:i])
			start = i + 1
		}
	}
	return append(parts, prelude[start:])
}

// declaration attaches a declaration to every owner of the innermost block.
func (s *parserState) declaration(property, value string) {
	owners := s.top().owners
	if len(owners) == 0 {
		return
	}

	value = normalizeSpace(value)
	important := false
	compact := strings.ToLower(strings.ReplaceAll(value, " ", ""))
	if strings.HasSuffix(compact, "!important") {
		important = true
		idx := strings.LastIndex(value, "!")
		value = strings.TrimSpace(value[:idx])
	}

	decl := utility.Declaration{
		Property:  strings.ToLower(strings.TrimSpace(property)),
		Value:     value,
		Important: important,
	}

	for _, o := range owners {
		info := s.sheet.classes[o.class]
		path := o.path()
		info.props[path] = append(info.props[path], decl)
	}
}

// classRef locates one class selector inside a selector string.
type classRef struct {
	name       string
	start, end int
	depth      int // number of enclosing parentheses, as in :is(:where(.x))
}

// classRefs finds class selectors (".name") in a normalized selector,
// skipping anything inside attribute brackets.
func classRefs(sel string) []classRef {
	var refs []classRef
	brackets, parens := 0, 0

	for i := 0; i < len(sel); i++ {
		switch sel[i] {
		case '\\':
			i++
		case '[':
			brackets++
		case ']':
			if brackets > 0 {
				brackets--
			}
		case '(':
			parens++
		case ')':
			if parens > 0 {
				parens--
			}
		case '.':
			if brackets > 0 {
				continue
			}
			end := identEnd(sel, i+1)
			if end > i+1 {
				refs = append(refs, classRef{
					name:  unescapeIdent(sel[i+1 : end]),
					start: i,
					end:   end,
					depth: parens,
				})
				i = end - 1
			}
		}
	}

	return refs
}

// identEnd returns the end of a CSS identifier starting at i, honoring escapes.
func identEnd(s string, i int) int {
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			if !isHex(s[i+1]) {
				i += 2
				continue
			}
			j := i + 1
			for j < len(s) && j-i <= 6 && isHex(s[j]) {
				j++
			}
			// a hex escape may be terminated by a single space
			if j < len(s) && s[j] == ' ' {
				j++
			}
			i = j
		case c == '-' || c == '_' || c >= 0x80 ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'):
			i++
		default:
			return i
		}
	}
	return i
}

// unescapeIdent resolves CSS escapes such as "hover\:flex" and "\32 xl".
func unescapeIdent(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}

		j := i + 1
		for j < len(s) && j-i <= 6 && isHex(s[j]) {
			j++
		}
		if j == i+1 {
			b.WriteByte(s[j])
			i = j
			continue
		}

		var r rune
		for _, h := range s[i+1 : j] {
			r = r*16 + hexValue(byte(h))
		}
		b.WriteRune(r)
		if j < len(s) && s[j] == ' ' {
			j++
		}
		i = j - 1
	}
	return b.String()
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) rune {
	switch {
	case c >= '0' && c <= '9':
		return rune(c - '0')
	case c >= 'a' && c <= 'f':
		return rune(c-'a') + 10
	default:
		return rune(c-'A') + 10
	}
}

// normalizeSpace collapses whitespace runs and trims the ends.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
