package resend

// Config holds Resend email provider configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	APIKey string `env:"RESEND_API_KEY"`

	// SenderEmail replaces the From address when set. The original sender is
	// then moved to Reply-To so answers still reach the user.
	// Resend only delivers from verified domains, which usually rules out
	// arbitrary user addresses.
	SenderEmail string `env:"RESEND_FROM_EMAIL"`
}
