// Package apiconnect wires the api messages to Connect handlers and clients.
package apiconnect

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// codec encodes plain Go messages as JSON. It registers under the name
// "json" so it replaces Connect's protojson codec on both ends.
type codec struct{}

func (codec) Name() string { return "json" }

func (codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (codec) Unmarshal(data []byte, msg any) error {
	return json.Unmarshal(data, msg)
}

// handlerOptions puts the JSON codec ahead of caller options.
func handlerOptions(opts []connect.HandlerOption) connect.HandlerOption {
	return connect.WithHandlerOptions(append([]connect.HandlerOption{connect.WithCodec(codec{})}, opts...)...)
}

func clientOptions(opts []connect.ClientOption) connect.ClientOption {
	return connect.WithClientOptions(append([]connect.ClientOption{connect.WithCodec(codec{})}, opts...)...)
}

// route serves each procedure with its handler and 404s everything else
// under the service path.
func route(servicePath string, handlers map[string]http.Handler) (string, http.Handler) {
	return servicePath, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok && strings.HasPrefix(r.URL.Path, servicePath) {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// unary builds a Connect handler for one procedure.
func unary[Req, Res any](procedure string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opt connect.HandlerOption) http.Handler {
	return connect.NewUnaryHandler(procedure, fn, opt)
}

// call builds a Connect client for one procedure.
func call[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opt connect.ClientOption) *connect.Client[Req, Res] {
	return connect.NewClient[Req, Res](httpClient, strings.TrimRight(baseURL, "/")+procedure, opt)
}
