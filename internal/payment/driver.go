package payment

// Driver abstracts the external credit-purchase provider. The balance
// service only needs a synchronous charge: given a local reference, an
// amount in cents and the payer's phone number, the driver returns the
// provider-side reference or an error.
type Driver interface {
	// Name identifies the provider in payment and transaction records.
	Name() string

	// Charge executes the payment attempt. Implementations must not
	// mutate any local state; the caller records the outcome.
	Charge(reference string, amountCents int64, phoneNumber string) (externalRef string, err error)
}
