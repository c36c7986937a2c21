package fixtures

import (
	htmltemplate "html/template"
	"text/template"
)

type Box[T any] struct {
	V T
}

type Inner struct {
	N int
}

type Wrapped struct {
	Inner
	M int
}

type Pages struct {
	Text *template.Template
	HTML *htmltemplate.Template
	Tags map[string][]byte
}
