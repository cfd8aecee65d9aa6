package payment_verification

import "github.com/julinotmonth/outtthelook/internal/domain"

// SubmitProofRequest загрузка подтверждения оплаты (ссылка на файл или номер транзакции)
type SubmitProofRequest struct {
	BookingID      int64
	ProofReference string
	Actor          domain.Actor
}

// VerifyRequest решение сотрудника по подтверждению оплаты
type VerifyRequest struct {
	BookingID int64
	Approve   bool
	Actor     domain.Actor
}
