package models

import (
	"encoding/json"
	"strings"

	"github.com/nonso-e/contestbk-go/errors"
)

// Stage is a node in the withdrawal verification graph. It is owned by the
// server; clients only ever read it back and react to it.
type Stage uint8

const (
	Preview_Stage Stage = iota
	Activation_Stage
	Tax_Stage
	Insurance_Stage
	Verification_Stage
	Security_Stage
	Access_Stage
)

func (s Stage) String() string {
	switch s {
	case Preview_Stage:
		return "preview"
	case Activation_Stage:
		return "activation"
	case Tax_Stage:
		return "tax"
	case Insurance_Stage:
		return "insurance"
	case Verification_Stage:
		return "verification"
	case Security_Stage:
		return "security"
	case Access_Stage:
		return "access"
	default:
		panic("unreachable")
	}
}

// Terminal reports whether no further evidence or codes apply.
func (s Stage) Terminal() bool {
	return s == Access_Stage
}

func ParseStage(input string) (Stage, error) {
	switch strings.ToLower(input) {
	case "preview":
		return Preview_Stage, nil
	case "activation":
		return Activation_Stage, nil
	case "tax":
		return Tax_Stage, nil
	case "insurance":
		return Insurance_Stage, nil
	case "verification":
		return Verification_Stage, nil
	case "security":
		return Security_Stage, nil
	case "access":
		return Access_Stage, nil
	default:
		return 0, errors.NewValidationError("invalid withdrawal stage")
	}
}

func (s *Stage) UnmarshalJSON(input []byte) error {
	if s == nil {
		s = new(Stage)
	}
	strInput := string(input)
	strInput = strings.Trim(strInput, `"`)
	stage, err := ParseStage(strInput)
	if err != nil {
		return err
	}
	*s = stage
	return nil
}

func (s Stage) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
