package configs

// Auth configures verification of bearer tokens issued by the identity
// service. The ledger only consumes identities; it never issues tokens.
type Auth struct {
	// JWTSecret is the HS256 key shared with the identity service.
	JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret"`
}
