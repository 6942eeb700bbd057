package validation

import (
	"encoding/json"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	AboutMe  string `json:"about_me" binding:"aboutme"`
}

func TestToDetails(t *testing.T) {
	Init()

	err := binding.Validator.ValidateStruct(&registerRequest{
		Username: "has space",
		Email:    "nope",
		Password: "short",
	})
	details := ToDetails(err)
	assert.Equal(t, "must be 1 to 64 characters without spaces or slashes", details["username"])
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "min length 8", details["password"])
	assert.NotContains(t, details, "about_me")
}

func TestToDetailsJSONErrors(t *testing.T) {
	var v map[string]any
	err := json.Unmarshal([]byte("{"), &v)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
	assert.Nil(t, ToDetails(nil))
}
