package config

const EnvProduction = "production"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	Database    Database  `envPrefix:"DATABASE_"`
	Stripe      Stripe    `envPrefix:"STRIPE_"`
	Mail        Mail      `envPrefix:"MAIL_"`
	Admin       Admin     `envPrefix:"ADMIN_"`
	RateLimit   RateLimit `envPrefix:"CHECKOUT_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"` // mysql, sqlite
	URL    string `env:"URL" envDefault:"storefront.db"`
}

type Stripe struct {
	SecretKey     string `env:"SECRET_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
	Currency      string `env:"CURRENCY" envDefault:"usd"`
}

type Mail struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM" envDefault:"orders@localhost"`
}

type Admin struct {
	JWTSecret string   `env:"JWT_SECRET"`
	Emails    []string `env:"EMAILS" envSeparator:","`
}

type RateLimit struct {
	PerSecond float64 `env:"RATE_LIMIT" envDefault:"5"`
}

func (c *Config) IsProduction() bool {
	return c.Environment.Name == EnvProduction
}

// OfflineCheckoutEnabled reports whether checkout may bypass the payment
// gateway. Only ever true outside production with no gateway key set.
func (c *Config) OfflineCheckoutEnabled() bool {
	return !c.IsProduction() && c.Stripe.SecretKey == ""
}
