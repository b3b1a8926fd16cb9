package config

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	ListenAddress   string
	Mode            string
	ShutdownTimeout string
}

// GatewayConfig represents the pipeline decision thresholds
type GatewayConfig struct {
	ImmediateThreshold float64
	QuickThreshold     float64
}

// ClassifierConfig represents the primary classifier configuration
type ClassifierConfig struct {
	Provider  string
	Endpoint  string
	ModelName string
}

// LLMConfig represents the configuration for the verdict generator provider
type LLMConfig struct {
	Provider string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// SessionsConfig represents the session store configuration
type SessionsConfig struct {
	Store       string
	SQLitePath  string
	MySQLDSN    string
	MaxAgeHours int
}

// SMTPConfig represents the SMTP ingress configuration
type SMTPConfig struct {
	Enabled          bool
	ListenAddress    string
	BlockSpam        bool
	RelayAddress     string
	SpamHeader       string
	ConfidenceHeader string
	PathHeader       string
}

// GetServer returns the HTTP server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress:   c.GetString("server.listen_address"),
		Mode:            c.GetString("server.mode"),
		ShutdownTimeout: c.GetString("server.shutdown_timeout"),
	}
}

// GetGateway returns the pipeline decision thresholds
func (c *Config) GetGateway() GatewayConfig {
	return GatewayConfig{
		ImmediateThreshold: c.GetFloat64("gateway.immediate_threshold"),
		QuickThreshold:     c.GetFloat64("gateway.quick_threshold"),
	}
}

// GetClassifier returns the primary classifier configuration
func (c *Config) GetClassifier() ClassifierConfig {
	return ClassifierConfig{
		Provider:  c.GetString("classifier.provider"),
		Endpoint:  c.GetString("classifier.endpoint"),
		ModelName: c.GetString("classifier.model_name"),
	}
}

// GetLLM returns the verdict generator provider configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetSessions returns the session store configuration
func (c *Config) GetSessions() SessionsConfig {
	return SessionsConfig{
		Store:       c.GetString("sessions.store"),
		SQLitePath:  c.GetString("sessions.sqlite_path"),
		MySQLDSN:    c.GetString("sessions.mysql_dsn"),
		MaxAgeHours: c.GetInt("sessions.max_age_hours"),
	}
}

// GetSMTP returns the SMTP ingress configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		Enabled:          c.GetBool("smtp.enabled"),
		ListenAddress:    c.GetString("smtp.listen_address"),
		BlockSpam:        c.GetBool("smtp.block_spam"),
		RelayAddress:     c.GetString("smtp.relay_address"),
		SpamHeader:       c.GetString("smtp.headers.spam"),
		ConfidenceHeader: c.GetString("smtp.headers.confidence"),
		PathHeader:       c.GetString("smtp.headers.path"),
	}
}
