package settings

// Typed views over the descriptor models. Field doc comments mirror the
// descriptors' Doc strings; the doc generator's sync check keeps them
// honest. These types are pure data: only the Validate hook may be declared
// on them.

// Settings is the root configuration of the bot platform.
type Settings struct {
	// Bot identity.
	Bot Bot `koanf:"bot"`

	// Persona and expression style.
	Personality Personality `koanf:"personality"`

	// Chat behavior.
	Chat Chat `koanf:"chat"`

	// Sticker behavior.
	Emoji Emoji `koanf:"emoji"`

	// API providers, referenced by model entries.
	Providers []Provider `koanf:"providers"`

	// Models available to tasks.
	Models []ModelInfo `koanf:"models"`

	// Per-task model selection settings, keyed by task name.
	Tasks map[string]Task `koanf:"tasks"`
}

// Bot identifies the bot account.
type Bot struct {
	// Platform the bot account lives on.
	Platform string `koanf:"platform"`

	// Account identifier on the platform.
	Account string `koanf:"account"`

	// Display name used in chat.
	Nickname string `koanf:"nickname"`

	// Alternative names the bot answers to.
	AliasNames []string `koanf:"alias_names"`
}

// Personality drives how the bot presents itself.
type Personality struct {
	// Persona description, identity and character traits. Keep it short.
	Persona string `koanf:"persona"`

	// Default expression style: tone, habits, register.
	ReplyStyle string `koanf:"reply_style"`

	// Alternative states that can randomly replace the persona.
	States []string `koanf:"states"`

	// Probability of replacing the persona with a random state, 0 to 1.
	StateProbability float64 `koanf:"state_probability"`
}

// TalkRule is a time-windowed talk frequency override for one chat.
type TalkRule struct {
	// Platform the rule applies to, empty for every platform.
	Platform string `koanf:"platform"`

	// Chat or user identifier the rule targets.
	ID string `koanf:"id"`

	// Stream kind, group or private.
	Kind string `koanf:"kind"`

	// Active window, formatted HH:MM-HH:MM.
	//
	// Windows may cross midnight.
	TimeRange string `koanf:"time_range"`

	// Talk frequency inside the window, 0 to 1.
	Value float64 `koanf:"value"`
}

// Chat controls reply behavior.
type Chat struct {
	// Overall talk frequency, 0 silences the bot, 1 is fully chatty.
	TalkValue float64 `koanf:"talk_value"`

	// Always reply when the bot is mentioned.
	MentionedReply bool `koanf:"mentioned_reply"`

	// Number of messages kept as conversation context.
	MaxContextSize int `koanf:"max_context_size"`

	// Thinking mode.
	//
	// - classic: lightweight replies without a recall step
	// - deep: always recall and reason before replying
	// - dynamic: the planner picks the level per message
	ThinkMode string `koanf:"think_mode"`

	// Apply the time-windowed talk frequency rules below.
	EnableTalkRules bool `koanf:"enable_talk_rules"`

	// Per-chat talk frequency overrides.
	TalkRules []TalkRule `koanf:"talk_rules"`
}

// Emoji controls sticker collection and usage.
type Emoji struct {
	// Base probability of sending a sticker with a reply.
	EmojiChance float64 `koanf:"emoji_chance"`

	// Maximum number of registered stickers.
	MaxRegNum int `koanf:"max_reg_num"`

	// Replace the oldest sticker once the registry is full.
	DoReplace bool `koanf:"do_replace"`

	// Sticker registry check interval in minutes.
	CheckInterval int `koanf:"check_interval"`

	// Collect stickers seen in chats into the registry.
	StealEmoji bool `koanf:"steal_emoji"`

	// Only keep stickers matching the filtration prompt.
	ContentFiltration bool `koanf:"content_filtration"`

	// Requirement a sticker must satisfy to be kept.
	FiltrationPrompt string `koanf:"filtration_prompt"`
}

// Provider describes one LLM API endpoint.
type Provider struct {
	// Provider name, referenced by model entries.
	Name string `koanf:"name"`

	// Base URL of the provider API.
	BaseURL string `koanf:"base_url"`

	// API key. Redacted in every rendered output.
	APIKey Secret `koanf:"api_key"`

	// Client dialect, openai or google.
	ClientType string `koanf:"client_type"`

	// Maximum retries for a failed call.
	MaxRetry int `koanf:"max_retry"`

	// Request timeout in seconds.
	Timeout int `koanf:"timeout"`

	// Seconds between retries.
	RetryInterval int `koanf:"retry_interval"`
}

// ModelInfo describes one model served by a provider.
type ModelInfo struct {
	// Identifier the provider API expects.
	ModelIdentifier string `koanf:"model_identifier"`

	// Local name, referenced by task model lists.
	Name string `koanf:"name"`

	// Name of the provider entry serving this model.
	APIProvider string `koanf:"api_provider"`

	// Input token price per million, for usage accounting.
	PriceIn float64 `koanf:"price_in"`

	// Output token price per million, for usage accounting.
	PriceOut float64 `koanf:"price_out"`

	// Model-level temperature override; task settings win otherwise.
	Temperature *float64 `koanf:"temperature"`

	// Model-level output token cap override.
	MaxTokens *int `koanf:"max_tokens"`

	// Force streamed responses for models without non-streaming support.
	ForceStreamMode bool `koanf:"force_stream_mode"`

	// Free-form extra request parameters passed to the provider.
	ExtraParams map[string]any `koanf:"extra_params"`
}

// Task selects models and sampling settings for one internal task.
type Task struct {
	// Model names this task may use, in preference order.
	ModelList []string `koanf:"model_list"`

	// Output token cap for the task.
	MaxTokens int `koanf:"max_tokens"`

	// Sampling temperature for the task.
	Temperature float64 `koanf:"temperature"`

	// Seconds after which a request is logged as slow.
	SlowThreshold float64 `koanf:"slow_threshold"`

	// Model pick strategy, balance or random.
	SelectionStrategy string `koanf:"selection_strategy"`
}
