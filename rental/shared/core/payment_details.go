package core

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

var paymentValidator = validator.New(validator.WithRequiredStructEnabled())

// PaymentDetails are the card details a borrower must supply when reporting a loss.
// The card is not charged here; the details only have to be plausible.
type PaymentDetails struct {
	CardNumber  string `validate:"required,number,len=16"`
	CVC         string `validate:"required,number,len=3"`
	ExpiryMonth string `validate:"required,number,min=1,max=2"`
	ExpiryYear  string `validate:"required,number,len=4"`
}

// Validate checks the card details against the time of the report.
// The card is valid through the last day of its expiry month.
func (p PaymentDetails) Validate(at time.Time) error {
	if err := paymentValidator.Struct(p); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPaymentDetails, err)
	}

	month, _ := strconv.Atoi(p.ExpiryMonth)
	year, _ := strconv.Atoi(p.ExpiryYear)

	if month < 1 || month > 12 {
		return fmt.Errorf("%w: invalid expiry month", ErrInvalidPaymentDetails)
	}

	at = at.UTC()
	if year < at.Year() || (year == at.Year() && time.Month(month) < at.Month()) {
		return errors.Join(ErrInvalidPaymentDetails, errors.New("card has expired"))
	}

	return nil
}

// Last4 returns the last four digits of the card number, or "" if it is too short.
func (p PaymentDetails) Last4() string {
	if len(p.CardNumber) < 4 {
		return ""
	}

	return p.CardNumber[len(p.CardNumber)-4:]
}
