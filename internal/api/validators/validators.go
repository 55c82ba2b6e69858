package validators

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// New returns the shared validator instance.
func New() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
	})
	return instance
}

// MsgNameRequired is also used when a name is blank after trimming.
const MsgNameRequired = "Name is required and must be a non-empty string"

var messages = map[string]string{
	"Name.required":   MsgNameRequired,
	"Name.max":        "Name must be less than 100 characters",
	"Description.max": "Description must be less than 1000 characters",
}

// Message turns a validation failure into the client-facing message of its
// first failing field.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
}
