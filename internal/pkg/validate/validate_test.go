package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unibuy/unibuy-api/internal/domain"
)

func validCreateRequest() domain.CreateUserRequest {
	return domain.CreateUserRequest{
		Email:      "jane.doe@uniport.edu.ng",
		Password:   "Str0ngPass",
		FirstName:  "Jane",
		LastName:   "Doe",
		University: domain.UniversityUniport,
	}
}

func TestStruct_ValidRequest(t *testing.T) {
	req := validCreateRequest()
	require.NoError(t, Struct(&req))
}

func TestStruct_SchoolEmailSuffixes(t *testing.T) {
	cases := []struct {
		email string
		ok    bool
	}{
		{"a@mit.edu", true},
		{"a@uniport.edu.ng", true},
		{"A@RSU.EDU.NG", true}, // suffix check is case-insensitive
		{"a@gmail.com", false},
		{"a@edu.org", false},
		{"a@university.ac.uk", false},
	}
	for _, tc := range cases {
		req := validCreateRequest()
		req.Email = tc.email
		err := Struct(&req)
		if tc.ok {
			assert.NoError(t, err, tc.email)
		} else {
			require.Error(t, err, tc.email)
			assert.True(t, errors.Is(err, domain.ErrValidation))
		}
	}
}

func TestStruct_PasswordStrength(t *testing.T) {
	cases := []struct {
		pw string
		ok bool
	}{
		{"Str0ngPass", true},
		{"Sh0rt", false},        // too short
		{"alllower123", false},  // no uppercase
		{"NoDigitsHere", false}, // no digit
		{"UPPER1234", true},
		{"Pä55wör", false}, // 7 characters even though it is 9 bytes
		{"Päss0wör", true}, // 8 characters, multibyte
	}
	for _, tc := range cases {
		req := validCreateRequest()
		req.Password = tc.pw
		err := Struct(&req)
		if tc.ok {
			assert.NoError(t, err, tc.pw)
		} else {
			assert.Error(t, err, tc.pw)
		}
	}
}

func TestStruct_UniversityEnum(t *testing.T) {
	req := validCreateRequest()
	req.University = domain.UniversityRSU
	assert.NoError(t, Struct(&req))

	req.University = "Rivers State University" // partial match is not enough
	require.Error(t, Struct(&req))

	req.University = "University of Lagos"
	require.Error(t, Struct(&req))
}

func TestStruct_FieldErrorsPerField(t *testing.T) {
	req := domain.CreateUserRequest{
		Email:      "not-a-school@gmail.com",
		Password:   "weak",
		University: "Hogwarts",
	}
	err := Struct(&req)
	require.Error(t, err)

	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	fields := map[string]string{}
	for _, e := range fe {
		fields[e.Field] = e.Message
	}
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "university")
	assert.Contains(t, fields, "firstname") // required
	assert.Contains(t, fields["password"], "8 characters")
}

func TestStruct_UpdateRequestOptionalFields(t *testing.T) {
	// All-nil update passes; the rules only fire on present values.
	req := domain.UpdateUserRequest{}
	require.NoError(t, Struct(&req))

	bad := "someone@gmail.com"
	req.Email = &bad
	require.Error(t, Struct(&req))

	good := "someone@rsu.edu.ng"
	req.Email = &good
	require.NoError(t, Struct(&req))
}

func TestFieldErrors_ErrorString(t *testing.T) {
	fe := FieldErrors{
		{Field: "email", Message: "is required"},
		{Field: "password", Message: "too weak"},
	}
	assert.Equal(t, "email: is required; password: too weak", fe.Error())
}
