package archieml

import (
	"regexp"
	"strings"
)

var (
	startKey      = regexp.MustCompile(`^\s*([A-Za-z0-9\-_.]+)[ \t\r]*:[ \t\r]*(.*)$`)
	commandKey    = regexp.MustCompile(`(?i)^\s*:[ \t\r]*(endskip|ignore|skip|end)`)
	arrayElement  = regexp.MustCompile(`^\s*\*[ \t\r]*(.*)$`)
	scopePattern  = regexp.MustCompile(`^\s*([\[{])[ \t\r]*([+.]*)[ \t\r]*([A-Za-z0-9\-_.]*)[ \t\r]*[\]}]`)
	escapedLine   = regexp.MustCompile(`(?m)^([ \t]*)\\`)
	leadingSpace  = regexp.MustCompile(`^\s*`)
	trailingSpace = regexp.MustCompile(`\s*$`)
)

// Array kinds tracked per open array scope.
const (
	arrayUnset = iota
	arraySimple
	arrayComplex
	arrayFreeform
)

// list is the mutable form of an array while parsing. It is replaced by a
// plain []any once the document is complete.
type list struct {
	items []any
}

func (l *list) push(v any) { l.items = append(l.items, v) }

type frame struct {
	array       *list
	arrayType   int
	firstKey    string
	hasFirstKey bool
	flags       string
	scope       map[string]any
}

func (f *frame) freeform() bool { return strings.Contains(f.flags, "+") }

type parser struct {
	data  map[string]any
	scope map[string]any
	stack []*frame

	// bufferKey is the key the next :end appends to; bufferArray is set
	// instead when the last value was a simple array element.
	bufferKey    string
	bufferArray  *list
	bufferString string

	skipping bool
	done     bool
}

// Unmarshal decodes an ArchieML document. It never fails on malformed markup:
// like the reference implementation, anything it does not understand is
// treated as ignorable text.
func Unmarshal(data []byte) (map[string]any, error) {
	p := &parser{data: map[string]any{}}
	p.scope = p.data

	for _, line := range splitLines(string(data)) {
		if p.done {
			break
		}
		p.parseLine(line)
	}
	p.flushBuffer()

	return finalize(p.data).(map[string]any), nil
}

// splitLines splits s after every line terminator, keeping the terminators.
func splitLines(s string) []string {
	var lines []string
	for len(s) > 0 {
		i := strings.IndexAny(s, "\r\n")
		if i < 0 {
			lines = append(lines, s)
			break
		}
		end := i + 1
		if s[i] == '\r' && end < len(s) && s[end] == '\n' {
			end++
		}
		lines = append(lines, s[:end])
		s = s[end:]
	}
	return lines
}

func (p *parser) current() *frame {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

func (p *parser) parseLine(line string) {
	content := strings.TrimRight(line, "\r\n")
	terminator := line[len(content):]
	fr := p.current()

	if m := commandKey.FindStringSubmatch(content); m != nil {
		p.parseCommand(strings.ToLower(m[1]))
		return
	}
	if p.skipping {
		p.parseText(line)
		return
	}
	if m := startKey.FindStringSubmatch(content); m != nil && (fr == nil || fr.arrayType != arraySimple) {
		p.parseStartKey(m[1], m[2]+terminator)
		return
	}
	if m := arrayElement.FindStringSubmatch(content); m != nil && fr != nil && fr.array != nil &&
		fr.arrayType != arrayComplex && fr.arrayType != arrayFreeform && !fr.freeform() {
		p.parseArrayElement(m[1] + terminator)
		return
	}
	if m := scopePattern.FindStringSubmatch(content); m != nil {
		p.parseScope(m[1], m[2], m[3])
		return
	}
	p.parseText(line)
}

func (p *parser) parseCommand(cmd string) {
	if p.skipping && cmd != "endskip" && cmd != "ignore" {
		p.flushBuffer()
		return
	}
	switch cmd {
	case "end":
		if p.bufferKey != "" || p.bufferArray != nil {
			p.flushInto(false)
		}
		return
	case "ignore":
		p.done = true
	case "skip":
		p.skipping = true
	case "endskip":
		p.skipping = false
	}
	p.flushBuffer()
}

func (p *parser) parseStartKey(key, rest string) {
	p.flushBuffer()
	p.incrementArrayElement(key)
	if fr := p.current(); fr != nil && fr.freeform() {
		key = "value"
	}
	p.bufferKey = key
	p.bufferString = rest
	p.flushInto(true)
}

func (p *parser) parseArrayElement(value string) {
	p.flushBuffer()
	fr := p.current()
	if fr.arrayType == arrayUnset {
		fr.arrayType = arraySimple
	}
	fr.array.push("")
	p.bufferArray = fr.array
	p.bufferString = value
	p.flushInto(true)
}

func (p *parser) parseText(text string) {
	fr := p.current()
	if !p.skipping && fr != nil && fr.array != nil && fr.freeform() && strings.TrimSpace(text) != "" {
		fr.array.push(map[string]any{"type": "text", "value": strings.TrimSpace(text)})
		return
	}
	p.bufferString += text
}

func (p *parser) parseScope(bracket, flags, key string) {
	p.flushBuffer()

	if key == "" {
		if n := len(p.stack); n > 0 {
			last := p.stack[n-1]
			p.stack = p.stack[:n-1]
			p.scope = last.scope
			if p.scope == nil {
				p.scope = p.data
			}
		} else {
			p.scope = p.data
		}
		return
	}

	parent := p.current()
	nesting := strings.Contains(flags, ".")
	keyScope := p.data
	if nesting {
		p.incrementArrayElement(key)
		if parent != nil {
			keyScope = p.scope
		}
	} else {
		p.scope = p.data
		p.stack = nil
	}

	inFreeform := parent != nil && parent.freeform() && nesting
	target := key
	if !inFreeform {
		bits := strings.Split(key, ".")
		for _, b := range bits[:len(bits)-1] {
			keyScope = childObject(keyScope, b)
		}
		target = bits[len(bits)-1]
	} else {
		target = "value"
	}

	fr := &frame{flags: flags, scope: p.scope}
	switch bracket {
	case "[":
		fr.array = &list{}
		if strings.Contains(flags, "+") {
			fr.arrayType = arrayFreeform
		}
		keyScope[target] = fr.array
	case "{":
		obj, ok := keyScope[target].(map[string]any)
		if !ok || inFreeform {
			obj = map[string]any{}
			keyScope[target] = obj
		}
		p.scope = obj
	}

	if nesting {
		p.stack = append(p.stack, fr)
	} else {
		p.stack = []*frame{fr}
	}
}

// incrementArrayElement starts a new object in the enclosing array when key
// is the first key seen in it, or repeats that first key.
func (p *parser) incrementArrayElement(key string) {
	fr := p.current()
	if fr == nil || fr.array == nil {
		return
	}
	if fr.arrayType == arrayUnset {
		fr.arrayType = arrayComplex
	}
	if fr.arrayType == arraySimple {
		return
	}
	if !fr.hasFirstKey || fr.firstKey == key {
		p.scope = map[string]any{}
		fr.array.push(p.scope)
	}
	if fr.freeform() {
		p.scope["type"] = key
		return
	}
	if !fr.hasFirstKey {
		fr.firstKey = key
		fr.hasFirstKey = true
	}
}

func (p *parser) flushBuffer() string {
	s := p.bufferString
	p.bufferString = ""
	p.bufferKey = ""
	p.bufferArray = nil
	return s
}

// flushInto writes the buffered text into the buffered key or array element.
// With replace the buffer holds the first line of a value; otherwise it holds
// the lines collected up to an :end command.
func (p *parser) flushInto(replace bool) {
	key, array := p.bufferKey, p.bufferArray

	var value string
	if replace {
		value = leadingSpace.ReplaceAllString(p.bufferString, "")
		p.bufferString = trailingSpace.FindString(value)
	} else {
		value = escapedLine.ReplaceAllString(p.flushBuffer(), "$1")
	}
	value = strings.TrimRightFunc(value, isSpace)

	if array != nil {
		items := array.items
		last, _ := items[len(items)-1].(string)
		if replace {
			last = ""
		}
		items[len(items)-1] = last + value
		return
	}

	bits := strings.Split(key, ".")
	scope := p.scope
	for _, b := range bits[:len(bits)-1] {
		scope = childObject(scope, b)
	}
	leaf := bits[len(bits)-1]
	existing, _ := scope[leaf].(string)
	if replace {
		existing = ""
	}
	scope[leaf] = existing + value
}

// childObject returns m[key] as an object, replacing any non-object value.
func childObject(m map[string]any, key string) map[string]any {
	if child, ok := m[key].(map[string]any); ok {
		return child
	}
	child := map[string]any{}
	m[key] = child
	return child
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// finalize replaces every *list with a plain []any.
func finalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = finalize(child)
		}
		return t
	case *list:
		out := make([]any, len(t.items))
		for i, child := range t.items {
			out[i] = finalize(child)
		}
		return out
	default:
		return v
	}
}
