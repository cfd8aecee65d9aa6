package payment_verification

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/julinotmonth/outtthelook/internal/domain"
)

func validateSubmitProof(req *SubmitProofRequest) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if !req.Actor.Role.IsValid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, req.Actor.Role)
	}

	if strings.TrimSpace(req.ProofReference) == "" {
		return fmt.Errorf("%w: proof reference is required", ErrInvalidInput)
	}

	if utf8.RuneCountInString(req.ProofReference) > domain.MaxProofReferenceLength {
		return fmt.Errorf("%w: proof reference must be at most %d characters", ErrInvalidInput, domain.MaxProofReferenceLength)
	}

	return nil
}

func validateVerify(req *VerifyRequest) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if !req.Actor.Role.IsStaff() {
		return ErrStaffOnly
	}

	return nil
}
