package http

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxConditionBytes bounds condition text accepted over the wire.
const MaxConditionBytes = 4096

// validate is the validator instance for request bodies.
var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("stmname", validateName)
}

// validateName accepts non-blank names without the "|" used in transition keys.
func validateName(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return strings.TrimSpace(s) != "" && !strings.Contains(s, "|")
}

// StateRequest is the body of POST /models/{id}/states.
type StateRequest struct {
	Name string `json:"name" validate:"required,stmname,max=256"`
}

// RenameRequest is the body of PUT /models/{id}/states/{name}.
type RenameRequest struct {
	Name string `json:"name" validate:"required,stmname,max=256"`
}

// TransitionRequest is the body of POST and PUT /models/{id}/transitions.
type TransitionRequest struct {
	Name      string `json:"name" validate:"max=256"`
	Condition string `json:"condition" validate:"max=4096"`
	From      string `json:"from" validate:"required,stmname"`
	To        string `json:"to" validate:"required,stmname"`
}

// InputRequest is the body of PUT /models/{id}/inputs/{name}.
type InputRequest struct {
	Value string `json:"value" validate:"required,max=64"`
}

// ConditionRequest is the body of POST /models/{id}/evaluate and /synthesize.
// For synthesize, From and To may name a transition instead.
type ConditionRequest struct {
	Condition string `json:"condition" validate:"required_without=From,max=4096"`
	From      string `json:"from" validate:"required_with=To"`
	To        string `json:"to" validate:"required_with=From"`
}

// RunRequest is the body of POST /models/{id}/run.
type RunRequest struct {
	Start    string `json:"start" validate:"required"`
	MaxSteps int    `json:"max_steps" validate:"gte=0,lte=10000"`
}
