//go:build !go_json

// Package json selects the JSON engine used for request bodies and response
// decoding. Build with -tags go_json to switch to github.com/goccy/go-json.
package json

import "encoding/json"

// Marshal and Unmarshal are bound to encoding/json.
var (
	Marshal   = json.Marshal
	Unmarshal = json.Unmarshal
)
