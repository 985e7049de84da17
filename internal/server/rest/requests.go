package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Each endpoint has its own request type; unknown fields are rejected, so a
// profile update cannot smuggle in email, password, userType or
// profileCompleted.

type registerRequest struct {
	Email    string `json:"email" binding:"max=254"`
	Password string `json:"password" binding:"max=128"`
	UserType string `json:"userType" binding:"omitempty,oneof=volunteer organization"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"max=254"`
	Password string `json:"password" binding:"max=128"`
}

type profileRequest struct {
	FirstName      *string  `json:"firstName" binding:"omitempty,max=100"`
	LastName       *string  `json:"lastName" binding:"omitempty,max=100"`
	Location       *string  `json:"location" binding:"omitempty,max=200"`
	City           *string  `json:"city" binding:"omitempty,max=100"`
	Skills         []string `json:"skills" binding:"omitempty,max=50,dive,max=100"`
	Interests      []string `json:"interests" binding:"omitempty,max=50,dive,max=100"`
	Specialization *string  `json:"specialization" binding:"omitempty,max=200"`
	Availability   *string  `json:"availability" binding:"omitempty,max=200"`
	Bio            *string  `json:"bio" binding:"omitempty,max=2000"`
}

type createOpportunityRequest struct {
	Title          string   `json:"title" binding:"max=200"`
	Description    string   `json:"description" binding:"max=10000"`
	Location       string   `json:"location" binding:"max=200"`
	SkillsRequired []string `json:"skillsRequired" binding:"omitempty,max=50,dive,max=100"`
	Commitment     string   `json:"commitment" binding:"max=200"`
	Status         string   `json:"status" binding:"omitempty,oneof=open closed draft"`
}

type applyRequest struct {
	Message string `json:"message" binding:"max=2000"`
}

func init() {
	binding.EnableDecoderDisallowUnknownFields = true
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// badRequest is a decoding failure whose message goes to the client as is.
type badRequest string

func (e badRequest) Error() string { return string(e) }

func badRequestf(format string, args ...any) error {
	return badRequest(fmt.Sprintf(format, args...))
}

// errBodyTooLarge marks a body cut off by http.MaxBytesReader.
var errBodyTooLarge = errors.New("request body too large")

// bindStrict binds a single JSON object into dst through gin's JSON binding
// with unknown fields disallowed. An empty body binds as {} and is still
// validated. Trailing data after the object is rejected.
func bindStrict(c *gin.Context, dst any) error {
	err := c.ShouldBindBodyWith(dst, binding.JSON)

	var mbe *http.MaxBytesError
	switch {
	case err == nil:
	case errors.As(err, &mbe):
		return errBodyTooLarge
	case errors.Is(err, io.EOF):
		if err := binding.Validator.ValidateStruct(dst); err != nil {
			return validationMessage(err)
		}
		return nil
	default:
		return requestError(err, cachedBody(c), dst)
	}

	if body := cachedBody(c); len(body) > 0 && !json.Valid(body) {
		return badRequest("Invalid request body")
	}
	return nil
}

func cachedBody(c *gin.Context) []byte {
	if v, ok := c.Get(gin.BodyBytesKey); ok {
		if body, ok := v.([]byte); ok {
			return body
		}
	}
	return nil
}

func requestError(err error, body []byte, dst any) error {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		return validationMessage(err)
	}
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return badRequestf("Invalid value for %s", ute.Field)
	}
	if name, ok := unknownField(body, dst); ok {
		return badRequestf("Unknown field %q", name)
	}
	return badRequest("Invalid request body")
}

// unknownField reports the first top-level key of body, in sorted order,
// that dst has no field for. Keys match case-insensitively, as in
// encoding/json.
func unknownField(body []byte, dst any) (string, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", false
	}

	t := reflect.TypeOf(dst)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return "", false
	}
	known := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name := jsonFieldName(t.Field(i)); name != "" {
			known[strings.ToLower(name)] = true
		}
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !known[strings.ToLower(k)] {
			return k, true
		}
	}
	return "", false
}

func validationMessage(err error) error {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		switch fe.Tag() {
		case "max":
			return badRequestf("%s is too long", fe.Field())
		case "oneof":
			return badRequestf("%s must be one of: %s", fe.Field(), fe.Param())
		}
		return badRequestf("Invalid value for %s", fe.Field())
	}
	return badRequest("Invalid request body")
}

// bind decodes the request into dst and writes the 400/413 response itself
// when that fails.
func bind(c *gin.Context, dst any) bool {
	if err := bindStrict(c, dst); err != nil {
		if errors.Is(err, errBodyTooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return false
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
