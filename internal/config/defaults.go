package config

const (
	defaultStateDir             = "~/.local/share/safemedia"
	defaultLogDir               = "~/.local/share/safemedia/logs"
	defaultAPIBind              = "127.0.0.1:8374"
	defaultGeminiModel          = "gemini-2.5-flash"
	defaultGeminiTimeoutSeconds = 60
	defaultFFmpegBinary         = "ffmpeg"
	defaultWhisperXBinary       = "whisperx"
	defaultVoiceModel           = "small"
	defaultVoiceLanguage        = "en"
	defaultMaxUtteranceSeconds  = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Gemini: Gemini{
			Model:          defaultGeminiModel,
			TimeoutSeconds: defaultGeminiTimeoutSeconds,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
			APIBind:  defaultAPIBind,
		},
		Voice: Voice{
			Enabled:             true,
			FFmpegBinary:        defaultFFmpegBinary,
			WhisperXBinary:      defaultWhisperXBinary,
			Model:               defaultVoiceModel,
			Language:            defaultVoiceLanguage,
			MaxUtteranceSeconds: defaultMaxUtteranceSeconds,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
