package ses

// Config holds Amazon SES v2 configuration.
// Embed this in your app config for env parsing with caarlos0/env.
// Static credentials are optional; the default AWS credential chain is used otherwise.
type Config struct {
	Region          string `env:"SES_REGION" envDefault:"us-east-1"`
	AccessKeyID     string `env:"SES_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SES_SECRET_ACCESS_KEY"`

	// Endpoint overrides the regional SES endpoint, e.g. for LocalStack.
	Endpoint string `env:"SES_ENDPOINT"`

	// SenderEmail replaces the From address when set; the user becomes Reply-To.
	SenderEmail string `env:"SES_FROM_EMAIL"`
}
