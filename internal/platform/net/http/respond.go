// Package http provides the chi-backed router seam and JSON envelope responses
package http

import (
	"encoding/json"
	"fmt"
	stdhttp "net/http"

	pnet "bottlescan/internal/platform/net"
)

// Envelope is the standard response body for all JSON endpoints
type Envelope = pnet.Wire

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondOK writes a 200 envelope with data
func RespondOK(w stdhttp.ResponseWriter, r *stdhttp.Request, data any) {
	st, env := pnet.OK(data, pnet.RequestID(r.Context()))
	JSON(w, st, env)
}

// RespondError maps err into an envelope and writes it
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	st, env := pnet.Error(err, pnet.RequestID(r.Context()))
	JSON(w, st, env)
}

// Attachment is a non-enveloped download body
type Attachment struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Response is a functional response object for return-style handlers
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
}

// Handle adapts a Response-returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	reqID := pnet.RequestID(r.Context())

	switch body := resp.Body.(type) {
	case error:
		st, env := pnet.Error(body, reqID)
		JSON(w, st, env)
	case Attachment:
		w.Header().Set("Content-Type", body.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", body.Filename))
		w.WriteHeader(status)
		_, _ = w.Write(body.Body)
	default:
		if status == stdhttp.StatusNoContent {
			w.WriteHeader(status)
			return
		}
		st, env := pnet.Reply(status, body, reqID)
		JSON(w, st, env)
	}
}

// OK returns a 200 response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Created returns a 201 response
func Created(data any) Response { return Response{Status: stdhttp.StatusCreated, Body: data} }

// NoContent returns a 204 response
func NoContent() Response { return Response{Status: stdhttp.StatusNoContent} }

// Error returns a response whose status and envelope derive from err
func Error(err error) Response { return Response{Body: err} }

// Download returns a 200 attachment response
func Download(filename, contentType string, body []byte) Response {
	return Response{Status: stdhttp.StatusOK, Body: Attachment{Filename: filename, ContentType: contentType, Body: body}}
}
