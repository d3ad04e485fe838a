package parser

import "io"

// Parser defines a generic interface for parsing list pages into items
type Parser[T any] interface {
	ParseHtml(body io.Reader) ([]T, error)
}

// SingleResultParser defines a generic interface for parsing a page into one record
type SingleResultParser[T any] interface {
	ParseHtml(body io.Reader) (T, error)
}
