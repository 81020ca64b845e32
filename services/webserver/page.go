package webserver

import _ "embed"

// indexPage is the reservoir dashboard. It polls /api/data and greys out
// cards whose status is not ok, so stale or faulted readings are visibly
// distinct from fresh ones.
//
//go:embed index.html
var indexPage []byte
