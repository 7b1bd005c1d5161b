package requests

type SubmitEvidenceRequest struct {
	WithdrawalID string  `query:"withdrawalId" validate:"required"`
	Stage        string  `query:"stage" validate:"required,oneof=activation tax insurance verification security"`
	Amount       float64 `query:"amount"`
	CardsCount   int     `query:"cardsCount"`

	// Cards is populated by the handler from the multipart file parts.
	Cards []*EvidenceCardTuple `query:"-" json:"-"`
}

// EvidenceCardTuple is one credential pair extracted from the multipart
// submission. A tuple is only accepted when both the pin and the image are
// present.
type EvidenceCardTuple struct {
	CardType  string
	Pin       string
	ImageName string
	ImageSize int64
}
