package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building so staging and
// production runs never share cache entries.
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" || environment == "test" {
		prefix = "staging"
	}

	return &KeyBuilder{prefix: prefix}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

func (kb *KeyBuilder) KeyChannelsAll() string {
	return kb.BuildKey(KeyChannelsAll)
}

func (kb *KeyBuilder) KeyChannelByID(channelID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyChannelByID, channelID))
}

func (kb *KeyBuilder) KeyReportResult(name string) string {
	return kb.BuildKey(fmt.Sprintf(KeyReportResult, name))
}

func (kb *KeyBuilder) KeyLastHarvestedAt(channelID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyLastHarvestedAt, channelID))
}
