// Package api describes the backend endpoints the client consumes.
//
// Each endpoint is an Endpoint value: how to build the physical request, how
// to decode the response, and an optional effect run after success. Calls go
// through a transport.Doer, normally the re-authenticating pipeline.
package api

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dmitrijs2005/jobportal/internal/client/transport"
)

// Envelope is the {success, data} wrapper of every auth and vacancy payload.
type Envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

type Endpoint[Req, Resp any] struct {
	Build func(Req) *transport.Request
	// Decode defaults to unwrapping Envelope[Resp].
	Decode func(*transport.Request, *transport.Response) (Resp, error)
	// After runs on success only.
	After func(ctx context.Context, req Req, resp Resp)
	// Finally runs after every call, successful or not.
	Finally func(ctx context.Context)
}

// Call performs the endpoint against d.
func (e *Endpoint[Req, Resp]) Call(ctx context.Context, d transport.Doer, in Req) (Resp, error) {
	var zero Resp
	if e.Finally != nil {
		defer e.Finally(ctx)
	}

	req := e.Build(in)
	resp, err := d.Do(ctx, req)
	if err != nil {
		return zero, err
	}

	decode := e.Decode
	if decode == nil {
		decode = decodeEnvelope[Resp]
	}
	out, err := decode(req, resp)
	if err != nil {
		return zero, err
	}

	if e.After != nil {
		e.After(ctx, in, out)
	}
	return out, nil
}

var errNotSuccessful = errors.New("success=false")

func decodeEnvelope[T any](req *transport.Request, resp *transport.Response) (T, error) {
	var env Envelope[T]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return env.Data, transport.Malformed(req, resp.StatusCode, err)
	}
	if !env.Success {
		return env.Data, transport.Malformed(req, resp.StatusCode, errNotSuccessful)
	}
	return env.Data, nil
}

// decodeAck accepts {success: true} with or without data.
func decodeAck(req *transport.Request, resp *transport.Response) (struct{}, error) {
	var ack struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(resp.Body, &ack); err != nil {
		return struct{}{}, transport.Malformed(req, resp.StatusCode, err)
	}
	if !ack.Success {
		return struct{}{}, transport.Malformed(req, resp.StatusCode, errNotSuccessful)
	}
	return struct{}{}, nil
}

// decodeJSON decodes a bare payload without the envelope.
func decodeJSON[T any](req *transport.Request, resp *transport.Response) (T, error) {
	var out T
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, transport.Malformed(req, resp.StatusCode, err)
	}
	return out, nil
}

// validated wraps a decoder with a shape check on the decoded value.
func validated[T any](decode func(*transport.Request, *transport.Response) (T, error), check func(T) error) func(*transport.Request, *transport.Response) (T, error) {
	return func(req *transport.Request, resp *transport.Response) (T, error) {
		out, err := decode(req, resp)
		if err != nil {
			return out, err
		}
		if err := check(out); err != nil {
			var zero T
			return zero, transport.Malformed(req, resp.StatusCode, err)
		}
		return out, nil
	}
}
