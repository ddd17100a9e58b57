package leads

import (
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/adbroadcast/website-backend/pkg/errors"
)

const (
	msgNameRequired    = "Name is required."
	msgEmailInvalid    = "A valid email address is required."
	msgMessageRequired = "Message is required."
)

var validate = validator.New()

type rule struct {
	field   string
	value   string
	tag     string
	message string
}

func nameRule(s Submission) rule {
	return rule{field: "name", value: s.Name, tag: "required", message: msgNameRequired}
}

func emailRule(s Submission) rule {
	return rule{field: "email", value: s.Email, tag: "required,email", message: msgEmailInvalid}
}

func messageRule(s Submission) rule {
	return rule{field: "message", value: s.Message, tag: "required", message: msgMessageRequired}
}

// check runs every rule and joins all violations into one unprocessable
// error whose message lists them in order.
func check(rules ...rule) error {
	var messages []string
	details := map[string]string{}
	for _, r := range rules {
		if err := validate.Var(r.value, r.tag); err != nil {
			messages = append(messages, r.message)
			details[r.field] = r.message
		}
	}
	if len(messages) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeUnprocessable, strings.Join(messages, " ")).WithDetails(details)
}

// ValidateShopRequest requires a name and a syntactically valid email.
func ValidateShopRequest(s Submission) error {
	return check(nameRule(s), emailRule(s))
}

// ValidateContact additionally requires a message body.
func ValidateContact(s Submission) error {
	return check(nameRule(s), emailRule(s), messageRule(s))
}
