package client

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/naveenspark/webook/pkg/domain"
)

// NoData is the payload type of message-only responses.
type NoData struct{}

// Result is a decoded backend envelope together with the HTTP status it
// arrived with. Bindings return a Result for every status; callers decide
// what counts as failure, or call Err.
type Result[T any] struct {
	Status int
	Code   int
	Msg    string
	Data   T
}

// OK reports a 2xx status with business code 0.
func (r *Result[T]) OK() bool {
	return r.Status >= http.StatusOK && r.Status < http.StatusMultipleChoices && r.Code == domain.CodeSuccess
}

// Err returns nil when OK, otherwise an *APIError describing the response.
func (r *Result[T]) Err() error {
	if r.OK() {
		return nil
	}
	msg := r.Msg
	if msg == "" {
		msg = http.StatusText(r.Status)
	}
	return &APIError{StatusCode: r.Status, Code: r.Code, Message: msg}
}

func decodeResult[T any](resp *Response) (*Result[T], error) {
	var env domain.Envelope
	if err := resp.Decode(&env); err != nil {
		return nil, err
	}
	res := &Result[T]{Status: resp.Status, Code: env.Code, Msg: env.Msg}
	if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		if err := json.Unmarshal(env.Data, &res.Data); err != nil {
			return nil, &DecodeError{StatusCode: resp.Status, Err: err}
		}
	}
	return res, nil
}
