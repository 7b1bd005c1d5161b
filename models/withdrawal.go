package models

import "time"

type Withdrawal struct {
	ID        string         `json:"id"`
	AccountID string         `json:"-"`
	Ref       string         `json:"reference"`
	Method    string         `json:"method"`
	Details   *MethodDetails `json:"details"`
	Amount    float64        `json:"amount"`
	Stage     Stage          `json:"stage"`
	// AwaitingCode is set once the stage's evidence has been accepted and the
	// withdrawal is parked until the operator issues a code.
	AwaitingCode bool       `json:"awaiting_code"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	DoneAt       *time.Time `json:"done_at,omitempty"`
}

// MethodDetails holds the payout-method specific fields, frozen at preview
// creation. Only the fields for the chosen method are populated.
type MethodDetails struct {
	// crypto
	Crypto        *string `json:"crypto,omitempty"`
	WalletAddress *string `json:"wallet_address,omitempty"`

	// bank (usa)
	BankName           *string `json:"bank_name,omitempty"`
	BankAddress        *string `json:"bank_address,omitempty"`
	RoutingNumber      *string `json:"routing_number,omitempty"`
	AccountType        *string `json:"account_type,omitempty"`
	BeneficiaryAddress *string `json:"beneficiary_address,omitempty"`

	// bank (canada)
	TransitNumber     *string `json:"transit_number,omitempty"`
	InstitutionNumber *string `json:"institution_number,omitempty"`

	// bank (shared)
	AccountNumber   *string `json:"account_number,omitempty"`
	BeneficiaryName *string `json:"beneficiary_name,omitempty"`
}
