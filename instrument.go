package fetchtripper

import "github.com/cognusion/go-sequence"

// seq mints a short correlation id per top-level Request, tagging debug
// and timing lines so concurrent fetches can be told apart.
var seq = sequence.New(0)
