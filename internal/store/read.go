package store

import (
	"bufio"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Leaders recognized at the start of a line.
const (
	LeaderFile    = '@'
	LeaderKey     = '>'
	LeaderValue   = '='
	LeaderContext = '<'

	// leaderNone is what an empty line classifies as. It is never legal.
	leaderNone = ' '
)

// classifyLine splits a raw line into its leader and the remainder with trailing
// whitespace removed.
func classifyLine(line string) (rune, string) {
	if line == "" {
		return leaderNone, ""
	}
	leader, size := utf8.DecodeRuneInString(line)
	return leader, strings.TrimRightFunc(line[size:], unicode.IsSpace)
}

// parseState is the parser's position relative to the annotation grammar.
type parseState int

const (
	stateStart    parseState = iota // nothing read yet
	stateBoundary                   // after '@' or '<': between annotations
	stateKey                        // after '>'
	stateValue                      // after '='
)

// transition returns the state reached by reading leader in state s.
// ok is false when the leader is unknown or not allowed here.
func transition(s parseState, leader rune) (next parseState, ok bool) {
	switch leader {
	case LeaderFile, LeaderKey:
		if s != stateStart && s != stateBoundary {
			return s, false
		}
		if leader == LeaderKey {
			return stateKey, true
		}
		return stateBoundary, true
	case LeaderValue:
		if s != stateKey && s != stateValue {
			return s, false
		}
		return stateValue, true
	case LeaderContext:
		if s != stateKey && s != stateValue {
			return s, false
		}
		return stateBoundary, true
	}
	return s, false
}

// acceptsEOF reports whether input may end in state s. Ending after '>' or '='
// would drop an unterminated annotation.
func (s parseState) acceptsEOF() bool {
	return s == stateStart || s == stateBoundary
}

// parser accumulates the Store while lines are fed to it.
type parser struct {
	store *Store
	state parseState

	inFile bool
	file   string

	key        string
	value      strings.Builder
	valueLines int
}

func (p *parser) feed(lineNo int, line string) error {
	leader, rest := classifyLine(line)
	next, ok := transition(p.state, leader)
	if !ok {
		return &ParseError{Line: lineNo, Leader: leader}
	}

	switch leader {
	case LeaderFile:
		// A repeated header starts the section over.
		p.store.files[rest] = Container{}
		p.file = rest
		p.inFile = true
	case LeaderKey:
		p.key = rest
		p.value.Reset()
		p.valueLines = 0
	case LeaderValue:
		if p.valueLines > 0 {
			p.value.WriteByte('\n')
		}
		p.value.WriteString(rest)
		p.valueLines++
	case LeaderContext:
		a := Annotation{Key: p.key, Value: p.value.String(), Context: rest}
		if p.inFile {
			p.store.files[p.file] = append(p.store.files[p.file], a)
		} else {
			p.store.dir = append(p.store.dir, a)
		}
	}

	p.state = next
	return nil
}

// Parse reads an annotation file from r.
//
// The whole input must be well formed. On any error no Store is returned: a
// malformed line yields a *ParseError, a failing reader an *IOError.
func Parse(r io.Reader) (*Store, error) {
	p := &parser{store: New()}
	br := bufio.NewReader(r)

	// Lines have no length limit: anything WriteTo produces must read back.
	lineNo := 0
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, &IOError{Op: "read", Err: err}
		}
		if line == "" && err == io.EOF {
			break
		}
		lineNo++
		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if ferr := p.feed(lineNo, line); ferr != nil {
			return nil, ferr
		}
		if err == io.EOF {
			break
		}
	}

	if !p.state.acceptsEOF() {
		return nil, &ParseError{Line: lineNo + 1, Leader: leaderNone}
	}
	return p.store, nil
}

// ParseString is Parse over an in-memory document.
func ParseString(s string) (*Store, error) {
	return Parse(strings.NewReader(s))
}
