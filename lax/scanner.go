package lax

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scanner turns source text into tokens in a single pass. A Scanner is
// single-use; create a new one per source.
type Scanner struct {
	input string

	start   int
	current int
	line    int

	tokens []Token
	errs   []*Error
	done   bool
}

func NewScanner(input string) *Scanner {
	return &Scanner{input: input, line: 1}
}

// Scan tokenizes source. The token slice always ends with exactly one EOF
// token, even when err is non-nil.
func Scan(source string) ([]Token, error) {
	return NewScanner(source).ScanTokens()
}

// ScanTokens scans the whole input. Lexical faults do not stop the scan;
// only the most recent one is returned. Use Errors for the full list.
func (s *Scanner) ScanTokens() ([]Token, error) {
	if !s.done {
		for !s.isAtEnd() {
			s.start = s.current
			if err := s.scanToken(); err != nil {
				s.errs = append(s.errs, err)
			}
		}
		s.tokens = append(s.tokens, Token{Type: EOF, Line: s.line})
		s.done = true
	}
	if len(s.errs) > 0 {
		return s.tokens, s.errs[len(s.errs)-1]
	}
	return s.tokens, nil
}

// Errors returns every lexical fault recorded so far, in source order.
func (s *Scanner) Errors() []*Error {
	return append([]*Error(nil), s.errs...)
}

func (s *Scanner) scanToken() *Error {
	r := s.advance()
	switch r {
	case '(':
		s.addToken(LeftParen, nil)
	case ')':
		s.addToken(RightParen, nil)
	case '{':
		s.addToken(LeftBrace, nil)
	case '}':
		s.addToken(RightBrace, nil)
	case ',':
		s.addToken(Comma, nil)
	case '.':
		s.addToken(Dot, nil)
	case '-':
		s.addToken(Minus, nil)
	case '+':
		s.addToken(Plus, nil)
	case ';':
		s.addToken(Semicolon, nil)
	case '*':
		s.addToken(Star, nil)
	case '!':
		switch {
		case s.match('='):
			s.addToken(BangEqual, nil)
		case s.matchWord("in"):
			s.addToken(BangIn, nil)
		default:
			s.addToken(Bang, nil)
		}
	case '=':
		if s.match('=') {
			s.addToken(EqualEqual, nil)
		} else {
			s.addToken(Equal, nil)
		}
	case '>':
		if s.match('=') {
			s.addToken(GreaterEqual, nil)
		} else {
			s.addToken(Greater, nil)
		}
	case '<':
		if s.match('=') {
			s.addToken(LessEqual, nil)
		} else {
			s.addToken(Less, nil)
		}
	case '/':
		switch {
		case s.match('/'):
			s.skipLineComment()
		case s.match('*'):
			return s.skipBlockComment()
		default:
			s.addToken(Slash, nil)
		}
	case ' ', '\r', '\t':
	case '\n':
		s.line++
	case '"':
		return s.scanString()
	default:
		switch {
		case isDigit(r):
			s.scanNumber()
		case isIdentifierStart(r):
			s.scanIdentifier()
		default:
			return newError(LexicalError, s.line, "unexpected character %q", r)
		}
	}
	return nil
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.input)
}

func (s *Scanner) advance() rune {
	r, w := utf8.DecodeRuneInString(s.input[s.current:])
	s.current += w
	return r
}

func (s *Scanner) peek() rune {
	if s.isAtEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.input[s.current:])
	return r
}

func (s *Scanner) peekNext() rune {
	if s.isAtEnd() {
		return 0
	}
	_, w := utf8.DecodeRuneInString(s.input[s.current:])
	if s.current+w >= len(s.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.input[s.current+w:])
	return r
}

func (s *Scanner) match(expected rune) bool {
	if s.isAtEnd() || s.peek() != expected {
		return false
	}
	s.advance()
	return true
}

// matchWord consumes word when it follows immediately and is not the start
// of a longer identifier.
func (s *Scanner) matchWord(word string) bool {
	rest := s.input[s.current:]
	if !strings.HasPrefix(rest, word) {
		return false
	}
	if len(rest) > len(word) {
		next, _ := utf8.DecodeRuneInString(rest[len(word):])
		if isIdentifierRune(next) {
			return false
		}
	}
	s.current += len(word)
	return true
}

func (s *Scanner) addToken(tt TokenType, literal *Value) {
	s.tokens = append(s.tokens, Token{
		Type:    tt,
		Lexeme:  s.input[s.start:s.current],
		Literal: literal,
		Line:    s.line,
	})
}

func (s *Scanner) skipLineComment() {
	for !s.isAtEnd() && s.peek() != '\n' {
		s.advance()
	}
}

func (s *Scanner) skipBlockComment() *Error {
	depth := 1
	for depth > 0 {
		if s.isAtEnd() {
			return newError(LexicalError, s.line, "unterminated block comment")
		}
		r := s.advance()
		switch {
		case r == '\n':
			s.line++
		case r == '/' && s.match('*'):
			depth++
		case r == '*' && s.match('/'):
			depth--
		}
	}
	return nil
}

// scanString takes everything up to the closing quote verbatim; escape
// sequences are not interpreted.
func (s *Scanner) scanString() *Error {
	for !s.isAtEnd() && s.peek() != '"' {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.isAtEnd() {
		return newError(LexicalError, s.line, "unterminated string")
	}
	s.advance()

	value := NewString(s.input[s.start+1 : s.current-1])
	s.addToken(String, &value)
	return nil
}

func (s *Scanner) scanNumber() {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	// The lexeme is always well formed, so the only possible error is
	// ErrRange, in which case f is already ±Inf.
	f, _ := strconv.ParseFloat(s.input[s.start:s.current], 64)
	value := NewNumber(f)
	s.addToken(Number, &value)
}

func (s *Scanner) scanIdentifier() {
	for isIdentifierRune(s.peek()) {
		s.advance()
	}
	s.addToken(lookupIdent(s.input[s.start:s.current]), nil)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
