//go:build go_json

package json

import json "github.com/goccy/go-json"

// Marshal and Unmarshal are bound to goccy/go-json.
var (
	Marshal   = json.Marshal
	Unmarshal = json.Unmarshal
)
