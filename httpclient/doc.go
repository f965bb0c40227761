// Package httpclient is the plain HTTP backend: a shareable Client over
// net/http and a fluent RequestBuilder that accumulates a request and sends it.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.example.com",
//	    Timeout: 30 * time.Second,
//	})
//
//	resp, err := client.Get("/users/123").
//	    Header("Accept", "application/json").
//	    BearerAuth(token).
//	    Send(ctx)
//
// Configuration methods never fail on their own. The first construction
// problem (bad URL, invalid header, unencodable body) is recorded and returned
// by Build or Send as an *Error of KindBuilder; later calls are ignored.
//
// Responses are returned as the native *http.Response whatever the status
// code. Use ErrorForStatus to turn 4xx/5xx into an error and DecodeJSON to
// read a JSON body.
//
// Build tags: nojson removes JSON helpers, nomultipart removes multipart
// bodies, go_json switches the JSON engine to goccy/go-json.
package httpclient
