package transcription

import (
	"github.com/ladlehq/ladle/internal/config"
)

// NewProvider creates a transcription provider from configuration, optionally
// wrapped with fallback logic.
func NewProvider(cfg config.TranscriptionConfig) TranscriptionProvider {
	var primary TranscriptionProvider

	switch ProviderType(cfg.Provider) {
	case ProviderRemote:
		primary = NewRemoteProvider(cfg.RemoteURL, cfg.RemoteAPIKey)
	default:
		// Default to the local whisper.cpp binary
		primary = NewWhisperCppProvider(cfg.WhisperBinary, cfg.WhisperModel)
	}

	if cfg.FallbackEnabled {
		var secondary TranscriptionProvider

		switch ProviderType(cfg.FallbackProvider) {
		case ProviderWhisperCpp:
			secondary = NewWhisperCppProvider(cfg.WhisperBinary, cfg.WhisperModel)
		default:
			secondary = NewRemoteProvider(cfg.RemoteURL, cfg.RemoteAPIKey)
		}

		return NewFallbackProvider(primary, secondary)
	}

	return primary
}
