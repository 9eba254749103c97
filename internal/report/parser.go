// SPDX-License-Identifier: MPL-2.0

package report

import (
	"bufio"
	"io"
	"iter"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultMaxLineLength caps a single report line (1 MiB).
const DefaultMaxLineLength = 1 << 20

const utf8BOM = "\uFEFF"

type (
	// Parser streams records out of a report. A Parser is single-pass: once
	// the reader is drained, further iteration yields nothing.
	Parser struct {
		sc      *bufio.Scanner
		grammar Grammar
		logger  *log.Logger
		line    int
		skipped int
		done    bool
	}

	// Option configures a Parser.
	Option func(*parserOptions)

	parserOptions struct {
		grammar Grammar
		logger  *log.Logger
		maxLine int
	}
)

// WithGrammar replaces the default LineGrammar.
func WithGrammar(g Grammar) Option {
	return func(o *parserOptions) { o.grammar = g }
}

// WithLogger sets the logger used for skipped-line traces.
func WithLogger(logger *log.Logger) Option {
	return func(o *parserOptions) { o.logger = logger }
}

// WithMaxLineLength overrides DefaultMaxLineLength.
func WithMaxLineLength(n int) Option {
	return func(o *parserOptions) { o.maxLine = n }
}

// NewParser creates a Parser reading from r. Nothing is read until the
// sequence returned by Records is ranged over.
func NewParser(r io.Reader, opts ...Option) *Parser {
	o := parserOptions{grammar: LineGrammar{}, maxLine: DefaultMaxLineLength}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, min(64*1024, o.maxLine)), o.maxLine)

	return &Parser{sc: sc, grammar: o.grammar, logger: o.logger}
}

// Parse is shorthand for NewParser(r, opts...).Records().
func Parse(r io.Reader, opts ...Option) iter.Seq2[PackageRecord, error] {
	return NewParser(r, opts...).Records()
}

// Records returns the lazy record sequence. Each step yields either a
// record and a nil error, or a zero record and a *ParseError; an error is
// always the last element.
func (p *Parser) Records() iter.Seq2[PackageRecord, error] {
	return func(yield func(PackageRecord, error) bool) {
		if p.done {
			return
		}
		for p.sc.Scan() {
			p.line++
			text := strings.TrimSuffix(p.sc.Text(), "\r")
			if p.line == 1 {
				text = strings.TrimPrefix(text, utf8BOM)
			}

			rec, kind, err := p.grammar.Decode(text)
			if err != nil {
				p.done = true
				yield(PackageRecord{}, &ParseError{Line: p.line, Content: text, Cause: err})
				return
			}
			switch kind {
			case KindData:
				rec.Line = p.line
				if !yield(rec, nil) {
					return
				}
			case KindOther:
				p.skipped++
				p.logger.Debug("skipping non-data report line", "line", p.line, "content", text)
			}
		}

		p.done = true
		if err := p.sc.Err(); err != nil {
			yield(PackageRecord{}, &ParseError{Line: p.line + 1, Cause: err})
		}
	}
}

// Lines returns the number of lines read so far.
func (p *Parser) Lines() int { return p.line }

// Skipped returns the number of non-data lines (KindOther) skipped so far.
func (p *Parser) Skipped() int { return p.skipped }
