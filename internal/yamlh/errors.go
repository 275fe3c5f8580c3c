package yamlh

import "strconv"

// Error is the single error type shared by every layer of the engine:
// reader, scanner, parser, composer, writer, and emitter. Only Type and
// Problem are guaranteed to be set; Context/marks are filled in where the
// producing layer has them available.
type Error struct {
	Type        ErrorType
	Problem     string
	ProblemMark Position
	Context     string
	ContextMark Position
}

func (e *Error) Error() string {
	s := "yaml: "
	if e.Context != "" {
		s += e.Context + " at line " + strconv.Itoa(e.ContextMark.Line+1) +
			", column " + strconv.Itoa(e.ContextMark.Column+1) + ": "
	}
	s += e.Problem
	if e.ProblemMark.Line != 0 || e.ProblemMark.Column != 0 {
		s += " at line " + strconv.Itoa(e.ProblemMark.Line+1) +
			", column " + strconv.Itoa(e.ProblemMark.Column+1)
	}
	return s
}

func newError(typ ErrorType, problem string, problemMark Position, context string, contextMark Position) *Error {
	return &Error{
		Type:        typ,
		Problem:     problem,
		ProblemMark: problemMark,
		Context:     context,
		ContextMark: contextMark,
	}
}

func NewReaderError(problem string, mark Position) *Error {
	return newError(READER_ERROR, problem, mark, "", Position{})
}

func NewScannerError(context string, contextMark Position, problem string, problemMark Position) *Error {
	return newError(SCANNER_ERROR, problem, problemMark, context, contextMark)
}

func NewParserError(context string, contextMark Position, problem string, problemMark Position) *Error {
	return newError(PARSER_ERROR, problem, problemMark, context, contextMark)
}

func NewComposerError(context string, contextMark Position, problem string, problemMark Position) *Error {
	return newError(COMPOSER_ERROR, problem, problemMark, context, contextMark)
}

func NewWriterError(problem string) *Error {
	return newError(WRITER_ERROR, problem, Position{}, "", Position{})
}

func NewEmitterError(problem string) *Error {
	return newError(EMITTER_ERROR, problem, Position{}, "", Position{})
}
