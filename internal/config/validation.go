package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/edgard/chatlens/internal/chatexport"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct constraints and that every grammar resolves.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if _, err := chatexport.ResolveGrammars(c.Parser.Grammars, c.Parser.CustomGrammars); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return nil
}

// ValidateBot checks the settings only the Telegram bot needs.
func (c *Config) ValidateBot() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("%w: telegram.token is required", ErrConfiguration)
	}
	return nil
}
