package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.SessionSecret) < 32 {
		return fmt.Errorf("auth.session_secret must be at least 32 characters (got %d)", len(c.Auth.SessionSecret))
	}
	if len(c.Auth.FingerprintSalt) < 16 {
		return fmt.Errorf("auth.fingerprint_salt must be at least 16 characters (got %d)", len(c.Auth.FingerprintSalt))
	}
	if c.Auth.CodeBcryptCost < 4 || c.Auth.CodeBcryptCost > 31 {
		return fmt.Errorf("auth.code_bcrypt_cost must be between 4 and 31 (got %d)", c.Auth.CodeBcryptCost)
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be > 0 (got %v)", c.Auth.SessionTTL)
	}
	if c.Voting.RateLimitWindow <= 0 {
		return fmt.Errorf("voting.rate_limit_window must be > 0 (got %v)", c.Voting.RateLimitWindow)
	}
	if c.Voting.RateLimitMaxFailures < 1 {
		return fmt.Errorf("voting.rate_limit_max_failures must be >= 1 (got %d)", c.Voting.RateLimitMaxFailures)
	}
	return nil
}
