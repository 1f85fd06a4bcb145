package registry

// schema constrains registry documents. Tag names follow the lexer's tag
// name charset and every flag defaults to false.
const schema = `
tags?: close({
	[=~"^[a-zA-Z._]+$"]: close({
		block:      bool | *false
		seekable:   bool | *false
		selfClosed: bool | *false
		noNewLine:  bool | *false
	})
})
`
