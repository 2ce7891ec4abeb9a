package litnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_Merge(t *testing.T) {
	defaults := Params{ParamDeviceID: "dev", ParamUserToken: "A"}

	merged := defaults.Merge(Params{ParamUserToken: "B", "extra": "1"})

	assert.Equal(t, Params{ParamDeviceID: "dev", ParamUserToken: "B", "extra": "1"}, merged)
	assert.Equal(t, "A", defaults[ParamUserToken], "defaults must not be modified")
}

func TestParams_MergeNil(t *testing.T) {
	var empty Params

	assert.Equal(t, Params{}, empty.Merge(nil))
	assert.Equal(t, Params{"a": "1"}, Params{"a": "1"}.Clone())
}

func TestParams_Values(t *testing.T) {
	values := Params{ParamDeviceID: "dev", ParamUserToken: ""}.Values()

	assert.Equal(t, "dev", values.Get(ParamDeviceID))

	token, present := values[ParamUserToken]
	require.True(t, present)
	assert.Equal(t, []string{""}, token)
	assert.Equal(t, "device_id=dev&user_token=", values.Encode())
}

func TestAuthState_String(t *testing.T) {
	assert.Equal(t, "unauthorized", Unauthorized.String())
	assert.Equal(t, "authorized", Authorized.String())
	assert.Equal(t, "unknown", AuthState(9).String())
}

func TestResponse_Decode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    Record
		wantErr bool
	}{
		{name: "object", body: `{"id": 42, "title": "X"}`, want: Record{"id": float64(42), "title": "X"}},
		{name: "nested", body: `{"book":{"authors":["a"]}}`, want: Record{"book": map[string]any{"authors": []any{"a"}}}},
		{name: "array", body: `[]`, wantErr: true},
		{name: "null", body: `null`, wantErr: true},
		{name: "garbage", body: `<html>`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := (&Response{StatusCode: 200, Body: []byte(tt.body)}).Decode()
			if tt.wantErr {
				decodeErr := &DecodeError{}
				require.ErrorAs(t, err, &decodeErr)
				assert.Nil(t, record)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, record)
		})
	}
}
