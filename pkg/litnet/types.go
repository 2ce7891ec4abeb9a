package litnet

import (
	"encoding/json"
	"maps"
	"net/http"
	"net/url"
)

// Query parameter names understood by the API.
const (
	ParamDeviceID  = "device_id"
	ParamUserToken = "user_token"
)

// Params holds query parameters by name.
type Params map[string]string

// Merge returns a new Params with the receiver's values overridden per key by
// override. Neither input is modified.
func (p Params) Merge(override Params) Params {
	merged := make(Params, len(p)+len(override))
	maps.Copy(merged, p)
	maps.Copy(merged, override)

	return merged
}

// Clone returns a copy of the parameters.
func (p Params) Clone() Params {
	return p.Merge(nil)
}

// Values converts the parameters into url.Values.
func (p Params) Values() url.Values {
	values := make(url.Values, len(p))
	for key, value := range p {
		values.Set(key, value)
	}

	return values
}

// Record is a decoded JSON object returned by the API, passed through
// unchanged.
type Record map[string]any

// AuthState is the authorization state of a session.
type AuthState int

const (
	// Unauthorized sessions carry only the device id.
	Unauthorized AuthState = iota
	// Authorized sessions carry the token obtained from registration.
	Authorized
)

// String implements fmt.Stringer.
func (s AuthState) String() string {
	switch s {
	case Unauthorized:
		return "unauthorized"
	case Authorized:
		return "authorized"
	default:
		return "unknown"
	}
}

// Response is a successful (2xx) HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Decode decodes the body as a JSON object.
func (r *Response) Decode() (Record, error) {
	var record Record

	err := json.Unmarshal(r.Body, &record)
	if err != nil {
		return nil, &DecodeError{Body: r.Body, Err: err}
	}

	if record == nil {
		return nil, &DecodeError{Body: r.Body, Err: ErrNotAnObject}
	}

	return record, nil
}
