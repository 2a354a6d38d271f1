package proto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestGetString(t *testing.T) {
	s := NewStrings(map[string]string{FieldUsername: "alice"})
	s.Fields["n"] = structpb.NewNumberValue(3)

	assert.Equal(t, "alice", GetString(s, FieldUsername))
	assert.Equal(t, "", GetString(s, "missing"))
	assert.Equal(t, "", GetString(s, "n"))
	assert.Equal(t, "", GetString(nil, FieldUsername))
}

type sample struct {
	ID      string `json:"id"`
	IsAdmin bool   `json:"isAdmin"`
	Exp     int64  `json:"exp"`
	Email   string `json:"email,omitempty"`
}

func TestValueConversion_UsesJSONTags(t *testing.T) {
	in := sample{ID: "a1", IsAdmin: true, Exp: 1772366400}

	v, err := ToValue(in)
	require.NoError(t, err)
	fields := v.GetStructValue().GetFields()
	assert.Equal(t, "a1", fields["id"].GetStringValue())
	assert.True(t, fields["isAdmin"].GetBoolValue())
	assert.NotContains(t, fields, "email")

	var out sample
	require.NoError(t, FromValue(v, &out))
	assert.Equal(t, in, out)
}

func TestServiceDesc(t *testing.T) {
	assert.Equal(t, "quotevote.auth.v1.AuthService", AuthService_ServiceDesc.ServiceName)
	names := make([]string, 0, len(AuthService_ServiceDesc.Methods))
	for _, m := range AuthService_ServiceDesc.Methods {
		names = append(names, m.MethodName)
	}
	assert.Equal(t, []string{"CreateGuestUser", "Register", "Login", "Authenticate", "Refresh", "VerifyToken"}, names)
	assert.Equal(t, "/quotevote.auth.v1.AuthService/VerifyToken", AuthService_VerifyToken_FullMethodName)
}
