//
// Copyright (c) 2011-2019 Canonical Ltd
// Copyright (c) 2006-2010 Kirill Simonov
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package yaml implements a bidirectional event-based YAML 1.1/1.2
// engine: a parser that turns a byte stream into tokens, events, or
// composed documents, and a symmetric emitter that turns events or
// documents back into well-formed YAML bytes.
package yaml

import (
	"io"
	"math"

	"github.com/djoezeke/myyaml/internal/document"
	"github.com/djoezeke/myyaml/internal/emitter"
	"github.com/djoezeke/myyaml/internal/parserc"
	"github.com/djoezeke/myyaml/internal/yamlh"
)

// Core value types, re-exported from the internal packages so callers
// never import them directly.
type (
	Mark  = yamlh.Position
	Token = yamlh.YamlToken
	Event = yamlh.Event
	Error = yamlh.Error

	Document = document.Document
	Node     = document.Node
	NodeKind = document.Kind
	Pair     = document.Pair

	VersionDirective = yamlh.VersionDirective
	TagDirective     = yamlh.TagDirective
)

type ErrorType = yamlh.ErrorType

// Error kinds, one per engine layer. An Error's Type tells which layer
// failed; errors are navigable with errors.As.
const (
	NoError       = yamlh.NO_ERROR
	MemoryError   = yamlh.MEMORY_ERROR
	ReaderError   = yamlh.READER_ERROR
	ScannerError  = yamlh.SCANNER_ERROR
	ParserError   = yamlh.PARSER_ERROR
	ComposerError = yamlh.COMPOSER_ERROR
	WriterError   = yamlh.WRITER_ERROR
	EmitterError  = yamlh.EMITTER_ERROR
)

type TokenType = yamlh.TokenType

// Token types.
const (
	NoToken                 = yamlh.NO_TOKEN
	StreamStartToken        = yamlh.STREAM_START_TOKEN
	StreamEndToken          = yamlh.STREAM_END_TOKEN
	VersionDirectiveToken   = yamlh.VERSION_DIRECTIVE_TOKEN
	TagDirectiveToken       = yamlh.TAG_DIRECTIVE_TOKEN
	DocumentStartToken      = yamlh.DOCUMENT_START_TOKEN
	DocumentEndToken        = yamlh.DOCUMENT_END_TOKEN
	BlockSequenceStartToken = yamlh.BLOCK_SEQUENCE_START_TOKEN
	BlockMappingStartToken  = yamlh.BLOCK_MAPPING_START_TOKEN
	BlockEndToken           = yamlh.BLOCK_END_TOKEN
	FlowSequenceStartToken  = yamlh.FLOW_SEQUENCE_START_TOKEN
	FlowSequenceEndToken    = yamlh.FLOW_SEQUENCE_END_TOKEN
	FlowMappingStartToken   = yamlh.FLOW_MAPPING_START_TOKEN
	FlowMappingEndToken     = yamlh.FLOW_MAPPING_END_TOKEN
	BlockEntryToken         = yamlh.BLOCK_ENTRY_TOKEN
	FlowEntryToken          = yamlh.FLOW_ENTRY_TOKEN
	KeyToken                = yamlh.KEY_TOKEN
	ValueToken              = yamlh.VALUE_TOKEN
	AliasToken              = yamlh.ALIAS_TOKEN
	AnchorToken             = yamlh.ANCHOR_TOKEN
	TagToken                = yamlh.TAG_TOKEN
	ScalarToken             = yamlh.SCALAR_TOKEN
)

type EventType = yamlh.EventType

// Event types.
const (
	NoEvent            = yamlh.NO_EVENT
	StreamStartEvent   = yamlh.STREAM_START_EVENT
	StreamEndEvent     = yamlh.STREAM_END_EVENT
	DocumentStartEvent = yamlh.DOCUMENT_START_EVENT
	DocumentEndEvent   = yamlh.DOCUMENT_END_EVENT
	AliasEvent         = yamlh.ALIAS_EVENT
	ScalarEvent        = yamlh.SCALAR_EVENT
	SequenceStartEvent = yamlh.SEQUENCE_START_EVENT
	SequenceEndEvent   = yamlh.SEQUENCE_END_EVENT
	MappingStartEvent  = yamlh.MAPPING_START_EVENT
	MappingEndEvent    = yamlh.MAPPING_END_EVENT
)

// Node kinds.
const (
	ScalarNode   = document.ScalarNode
	SequenceNode = document.SequenceNode
	MappingNode  = document.MappingNode
)

type Encoding = yamlh.Encoding

// Stream encodings. AnyEncoding triggers BOM detection on input and
// defaults to UTF-8 on output.
const (
	AnyEncoding     = yamlh.ANY_ENCODING
	UTF8Encoding    = yamlh.UTF8_ENCODING
	UTF16LEEncoding = yamlh.UTF16LE_ENCODING
	UTF16BEEncoding = yamlh.UTF16BE_ENCODING
)

type Break = yamlh.Break

// Line break styles.
const (
	AnyBreak  = yamlh.ANY_BREAK
	CRBreak   = yamlh.CR_BREAK
	LNBreak   = yamlh.LN_BREAK
	CRLNBreak = yamlh.CRLN_BREAK
)

type ScalarStyle = yamlh.YamlScalarStyle

// Scalar styles.
const (
	AnyScalarStyle          = yamlh.ANY_SCALAR_STYLE
	PlainScalarStyle        = yamlh.PLAIN_SCALAR_STYLE
	SingleQuotedScalarStyle = yamlh.SINGLE_QUOTED_SCALAR_STYLE
	DoubleQuotedScalarStyle = yamlh.DOUBLE_QUOTED_SCALAR_STYLE
	LiteralScalarStyle      = yamlh.LITERAL_SCALAR_STYLE
	FoldedScalarStyle       = yamlh.FOLDED_SCALAR_STYLE
)

type SequenceStyle = yamlh.YamlSequenceStyle

// Sequence styles.
const (
	AnySequenceStyle   = yamlh.ANY_SEQUENCE_STYLE
	BlockSequenceStyle = yamlh.BLOCK_SEQUENCE_STYLE
	FlowSequenceStyle  = yamlh.FLOW_SEQUENCE_STYLE
)

type MappingStyle = yamlh.YamlMappingStyle

// Mapping styles.
const (
	AnyMappingStyle   = yamlh.ANY_MAPPING_STYLE
	BlockMappingStyle = yamlh.BLOCK_MAPPING_STYLE
	FlowMappingStyle  = yamlh.FLOW_MAPPING_STYLE
)

// NewDocument returns an empty document carrying the given directive
// context, ready for node construction with AddScalar and friends.
func NewDocument(version *VersionDirective, tagDirectives []TagDirective, startImplicit, endImplicit bool) *Document {
	return document.New(version, tagDirectives, startImplicit, endImplicit)
}

// A Parser pulls tokens, events, or whole composed documents from a
// single input stream. It must be given exactly one input via
// SetInputString or SetInputReader before the first pull.
//
// Errors are sticky: once any call fails, every subsequent call returns
// the stored error without doing further work.
type Parser struct {
	parser   *parserc.YamlParser
	composer *document.Composer
	err      error
}

func NewParser() *Parser {
	return &Parser{parser: parserc.New(nil)}
}

// SetInputString parses from the given byte slice. Inputs longer than
// half the int range are refused with a reader error.
func (p *Parser) SetInputString(input []byte) {
	if len(input) > math.MaxInt/2 {
		p.err = &Error{Type: yamlh.READER_ERROR, Problem: "input is too long"}
		return
	}
	if input == nil {
		input = []byte{}
	}
	p.parser.Input = input
}

// SetInputReader parses from the given reader. Short reads are allowed
// and coalesced.
func (p *Parser) SetInputReader(r io.Reader) {
	p.parser.Reader = r
}

// SetEncoding fixes the input encoding instead of detecting it from a
// byte order mark.
func (p *Parser) SetEncoding(encoding Encoding) {
	p.parser.Encoding = encoding
}

// SetMaxNestingLevel caps how deeply nodes may nest before parsing fails.
// The default is 1000.
func (p *Parser) SetMaxNestingLevel(depth int) {
	p.parser.MaxNestingLevel = depth
}

// Err returns the sticky error of the handle, if any.
func (p *Parser) Err() error {
	return p.err
}

// Scan pulls the next token. After the STREAM-END token has been
// delivered, further calls return an empty token.
func (p *Parser) Scan() (*Token, error) {
	if p.err != nil {
		return nil, p.err
	}
	token, err := parserc.Scan(p.parser)
	if err != nil {
		p.err = err
		return nil, err
	}
	return token, nil
}

// Parse pulls the next event. After the STREAM-END event has been
// delivered, further calls return an empty event.
func (p *Parser) Parse() (*Event, error) {
	if p.err != nil {
		return nil, p.err
	}
	event, err := parserc.Parse(p.parser)
	if err != nil {
		p.err = err
		return nil, err
	}
	return event, nil
}

// Load composes the next document from the stream. It returns io.EOF
// once the stream is exhausted.
func (p *Parser) Load() (*Document, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.composer == nil {
		p.composer = document.NewComposer(p.parser)
	}
	doc, err := p.composer.Compose()
	if err != nil {
		p.err = err
		return nil, err
	}
	if doc == nil {
		return nil, io.EOF
	}
	return doc, nil
}

// An Emitter accepts events, or whole documents via Dump, and writes
// YAML bytes to its sink.
//
// Errors are sticky: once any call fails, every subsequent call returns
// the stored error without doing further work.
type Emitter struct {
	emitter *emitter.Emitter
	opened  bool
	err     error
}

func NewEmitter(w io.Writer) *Emitter {
	e := emitter.New(w)
	e.SetWidth(80)
	return &Emitter{emitter: e}
}

// SetEncoding sets the output encoding. UTF-16LE and UTF-16BE output is
// preceded by a byte order mark; UTF-8 output never is.
func (e *Emitter) SetEncoding(encoding Encoding) {
	e.emitter.SetEncoding(encoding)
}

// SetCanonical forces the canonical (fully flow, fully quoted, fully
// tagged) output form.
func (e *Emitter) SetCanonical(canonical bool) {
	e.emitter.SetCanonical(canonical)
}

// SetIndent sets the indentation increment. Values outside [2, 9] fall
// back to 2.
func (e *Emitter) SetIndent(spaces int) {
	if spaces < 2 || spaces > 9 {
		spaces = 2
	}
	e.emitter.SetIndent(spaces)
}

// SetWidth sets the preferred line width. A negative value means
// unlimited; the default is 80.
func (e *Emitter) SetWidth(width int) {
	e.emitter.SetWidth(width)
}

// SetUnicode controls whether non-ASCII characters may be written
// unescaped in double-quoted scalars.
func (e *Emitter) SetUnicode(unicode bool) {
	e.emitter.SetUnicode(unicode)
}

// SetLineBreak sets the line break style. The default is LNBreak.
func (e *Emitter) SetLineBreak(lineBreak Break) {
	e.emitter.SetLineBreak(lineBreak)
}

// Err returns the sticky error of the handle, if any.
func (e *Emitter) Err() error {
	return e.err
}

// Emit consumes one event. The handle takes ownership of the event and
// of all strings it carries.
func (e *Emitter) Emit(event *Event) error {
	if e.err != nil {
		return e.err
	}
	if event.Type == yamlh.STREAM_START_EVENT {
		e.opened = true
	}
	err := e.emitter.Emit(event, event.Type == yamlh.STREAM_END_EVENT)
	if err != nil {
		e.err = err
	}
	return err
}

// Open starts the output stream, emitting STREAM-START. Dump calls it
// implicitly if needed.
func (e *Emitter) Open() error {
	if e.err != nil {
		return e.err
	}
	if err := e.emitter.Open(); err != nil {
		e.err = err
		return err
	}
	e.opened = true
	return nil
}

// Close ends the output stream, emitting STREAM-END if necessary, and
// flushes buffered bytes to the sink.
func (e *Emitter) Close() error {
	if e.err != nil {
		return e.err
	}
	if err := e.emitter.Close(); err != nil {
		e.err = err
		return err
	}
	return nil
}

// Flush pushes buffered output bytes to the sink, re-encoding them to
// the output encoding first if necessary.
func (e *Emitter) Flush() error {
	if e.err != nil {
		return e.err
	}
	if err := e.emitter.Flush(); err != nil {
		e.err = err
		return err
	}
	return nil
}
