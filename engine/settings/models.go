// Package settings declares the bot platform's configuration models against
// the schema engine and loads them from TOML files and the environment.
//
// Every model is a descriptor table: the single source of truth for field
// names, types, defaults, and documentation. Construction of any record runs
// the annotation grammar gate; value-level rules live in per-model
// post-construction hooks.
package settings

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/mochibot/mochibot/pkg/schema"
)

var validate = validator.New()

// Descriptor models, one per configuration section. RootModel nests them.
var (
	BotModel         = newBotModel()
	PersonalityModel = newPersonalityModel()
	TalkRuleModel    = newTalkRuleModel()
	ChatModel        = newChatModel()
	EmojiModel       = newEmojiModel()
	ProviderModel    = newProviderModel()
	ModelInfoModel   = newModelInfoModel()
	TaskModel        = newTaskModel()
	RootModel        = newRootModel()
)

// Models returns every registered configuration model, root last.
func Models() []*schema.Model {
	return []*schema.Model{
		BotModel,
		PersonalityModel,
		TalkRuleModel,
		ChatModel,
		EmojiModel,
		ProviderModel,
		ModelInfoModel,
		TaskModel,
		RootModel,
	}
}

func newBotModel() *schema.Model {
	m := schema.NewModel("Bot")
	m.Register(&schema.Field{
		Name: "platform",
		Type: schema.StringType(),
		Doc:  "Platform the bot account lives on.",
	})
	m.Register(&schema.Field{
		Name: "account",
		Type: schema.StringType(),
		Doc:  "Account identifier on the platform.",
	})
	m.Register(&schema.Field{
		Name:    "nickname",
		Type:    schema.StringType(),
		Default: "mochi",
		Doc:     "Display name used in chat.",
	})
	m.Register(&schema.Field{
		Name: "alias_names",
		Type: schema.ListOf(schema.StringType()),
		Doc:  "Alternative names the bot answers to.",
	})
	return m
}

func newPersonalityModel() *schema.Model {
	m := schema.NewModel("Personality", schema.WithPostCheck(checkPersonality))
	m.Register(&schema.Field{
		Name:    "persona",
		Type:    schema.StringType(),
		Default: "A friendly student who hangs out in group chats.",
		Doc:     "Persona description, identity and character traits. Keep it short.",
	})
	m.Register(&schema.Field{
		Name:    "reply_style",
		Type:    schema.StringType(),
		Default: "Casual and concise, like a regular forum user.",
		Doc:     "Default expression style: tone, habits, register.",
	})
	m.Register(&schema.Field{
		Name: "states",
		Type: schema.ListOf(schema.StringType()),
		DefaultFunc: func() any {
			return []any{
				"Scrolling social feeds between classes.",
				"In a chatty mood tonight.",
			}
		},
		Doc: "Alternative states that can randomly replace the persona.",
	})
	m.Register(&schema.Field{
		Name:    "state_probability",
		Type:    schema.FloatType(),
		Default: 0.3,
		Doc:     "Probability of replacing the persona with a random state, 0 to 1.",
	})
	return m
}

func checkPersonality(r *schema.Record) error {
	if err := validate.Var(r.GetFloat64("state_probability"), "gte=0,lte=1"); err != nil {
		return fmt.Errorf("state_probability must be between 0 and 1")
	}
	return nil
}

func newTalkRuleModel() *schema.Model {
	m := schema.NewModel("TalkRule", schema.WithPostCheck(checkTalkRule))
	m.Register(&schema.Field{
		Name: "platform",
		Type: schema.StringType(),
		Doc:  "Platform the rule applies to, empty for every platform.",
	})
	m.Register(&schema.Field{
		Name: "id",
		Type: schema.StringType(),
		Doc:  "Chat or user identifier the rule targets.",
	})
	m.Register(&schema.Field{
		Name:    "kind",
		Type:    schema.StringType(),
		Default: "group",
		Doc:     "Stream kind, group or private.",
	})
	m.Register(&schema.Field{
		Name: "time_range",
		Type: schema.StringType(),
		Doc: `
			Active window, formatted HH:MM-HH:MM.

			Windows may cross midnight.
		`,
	})
	m.Register(&schema.Field{
		Name:    "value",
		Type:    schema.FloatType(),
		Default: 0.5,
		Doc:     "Talk frequency inside the window, 0 to 1.",
	})
	return m
}

func checkTalkRule(r *schema.Record) error {
	if err := validate.Var(r.GetString("kind"), "oneof=group private"); err != nil {
		return fmt.Errorf("kind must be group or private, got %q", r.GetString("kind"))
	}
	if err := validate.Var(r.GetFloat64("value"), "gte=0,lte=1"); err != nil {
		return fmt.Errorf("value must be between 0 and 1")
	}
	return nil
}

func newChatModel() *schema.Model {
	m := schema.NewModel("Chat", schema.WithPostCheck(checkChat))
	m.Register(&schema.Field{
		Name:    "talk_value",
		Type:    schema.FloatType(),
		Default: 1.0,
		Doc:     "Overall talk frequency, 0 silences the bot, 1 is fully chatty.",
	})
	m.Register(&schema.Field{
		Name:    "mentioned_reply",
		Type:    schema.BoolType(),
		Default: true,
		Doc:     "Always reply when the bot is mentioned.",
	})
	m.Register(&schema.Field{
		Name:    "max_context_size",
		Type:    schema.IntType(),
		Default: 30,
		Doc:     "Number of messages kept as conversation context.",
	})
	m.Register(&schema.Field{
		Name:    "think_mode",
		Type:    schema.StringType(),
		Default: "dynamic",
		Doc: `
			Thinking mode.

			- classic: lightweight replies without a recall step
			- deep: always recall and reason before replying
			- dynamic: the planner picks the level per message
		`,
	})
	m.Register(&schema.Field{
		Name:    "enable_talk_rules",
		Type:    schema.BoolType(),
		Default: true,
		Doc:     "Apply the time-windowed talk frequency rules below.",
	})
	m.Register(&schema.Field{
		Name: "talk_rules",
		Type: schema.ListOf(schema.ModelOf(TalkRuleModel)),
		Doc:  "Per-chat talk frequency overrides.",
	})
	return m
}

func checkChat(r *schema.Record) error {
	if err := validate.Var(r.GetFloat64("talk_value"), "gte=0,lte=1"); err != nil {
		return fmt.Errorf("talk_value must be between 0 and 1")
	}
	if err := validate.Var(r.GetInt("max_context_size"), "min=1"); err != nil {
		return fmt.Errorf("max_context_size must be at least 1")
	}
	if err := validate.Var(r.GetString("think_mode"), "oneof=classic deep dynamic"); err != nil {
		return fmt.Errorf("think_mode must be classic, deep or dynamic, got %q", r.GetString("think_mode"))
	}
	return nil
}

func newEmojiModel() *schema.Model {
	m := schema.NewModel("Emoji", schema.WithPostCheck(checkEmoji))
	m.Register(&schema.Field{
		Name:    "emoji_chance",
		Type:    schema.FloatType(),
		Default: 0.4,
		Doc:     "Base probability of sending a sticker with a reply.",
	})
	m.Register(&schema.Field{
		Name:    "max_reg_num",
		Type:    schema.IntType(),
		Default: 100,
		Doc:     "Maximum number of registered stickers.",
	})
	m.Register(&schema.Field{
		Name:    "do_replace",
		Type:    schema.BoolType(),
		Default: true,
		Doc:     "Replace the oldest sticker once the registry is full.",
	})
	m.Register(&schema.Field{
		Name:    "check_interval",
		Type:    schema.IntType(),
		Default: 10,
		Doc:     "Sticker registry check interval in minutes.",
	})
	m.Register(&schema.Field{
		Name:    "steal_emoji",
		Type:    schema.BoolType(),
		Default: true,
		Doc:     "Collect stickers seen in chats into the registry.",
	})
	m.Register(&schema.Field{
		Name: "content_filtration",
		Type: schema.BoolType(),
		Doc:  "Only keep stickers matching the filtration prompt.",
	})
	m.Register(&schema.Field{
		Name:    "filtration_prompt",
		Type:    schema.StringType(),
		Default: "safe for a public chat",
		Doc:     "Requirement a sticker must satisfy to be kept.",
	})
	return m
}

func checkEmoji(r *schema.Record) error {
	if err := validate.Var(r.GetFloat64("emoji_chance"), "gte=0,lte=1"); err != nil {
		return fmt.Errorf("emoji_chance must be between 0 and 1")
	}
	if err := validate.Var(r.GetInt("max_reg_num"), "min=1"); err != nil {
		return fmt.Errorf("max_reg_num must be at least 1")
	}
	if err := validate.Var(r.GetInt("check_interval"), "min=1"); err != nil {
		return fmt.Errorf("check_interval must be at least 1")
	}
	return nil
}

func newProviderModel() *schema.Model {
	m := schema.NewModel("Provider", schema.WithPostCheck(checkProvider))
	m.Register(&schema.Field{
		Name: "name",
		Type: schema.StringType(),
		Doc:  "Provider name, referenced by model entries.",
	})
	m.Register(&schema.Field{
		Name: "base_url",
		Type: schema.StringType(),
		Doc:  "Base URL of the provider API.",
	})
	m.Register(&schema.Field{
		Name: "api_key",
		Type: schema.StringType(),
		Doc:  "API key. Redacted in every rendered output.",
	})
	m.Register(&schema.Field{
		Name:    "client_type",
		Type:    schema.StringType(),
		Default: "openai",
		Doc:     "Client dialect, openai or google.",
	})
	m.Register(&schema.Field{
		Name:    "max_retry",
		Type:    schema.IntType(),
		Default: 2,
		Doc:     "Maximum retries for a failed call.",
	})
	m.Register(&schema.Field{
		Name:    "timeout",
		Type:    schema.IntType(),
		Default: 10,
		Doc:     "Request timeout in seconds.",
	})
	m.Register(&schema.Field{
		Name:    "retry_interval",
		Type:    schema.IntType(),
		Default: 10,
		Doc:     "Seconds between retries.",
	})
	return m
}

func checkProvider(r *schema.Record) error {
	if r.GetString("name") == "" {
		return fmt.Errorf("provider name must not be empty")
	}
	if r.GetString("api_key") == "" {
		return fmt.Errorf("provider %q: api_key must not be empty", r.GetString("name"))
	}
	if r.GetString("base_url") == "" && r.GetString("client_type") != "google" {
		return fmt.Errorf("provider %q: base_url must not be empty", r.GetString("name"))
	}
	if err := validate.Var(r.GetString("client_type"), "oneof=openai google"); err != nil {
		return fmt.Errorf("provider %q: client_type must be openai or google", r.GetString("name"))
	}
	if err := validate.Var(r.GetInt("timeout"), "min=1"); err != nil {
		return fmt.Errorf("provider %q: timeout must be at least 1", r.GetString("name"))
	}
	return nil
}

// newModelInfoModel lowers the strictness flag: extra_params is a free-form
// parameter map passed through to the provider API, and the silence flag
// keeps startup logs clean.
func newModelInfoModel() *schema.Model {
	m := schema.NewModel("ModelInfo",
		schema.WithAllowAny(),
		schema.WithSilenceAny(),
		schema.WithPostCheck(checkModelInfo),
	)
	m.Register(&schema.Field{
		Name: "model_identifier",
		Type: schema.StringType(),
		Doc:  "Identifier the provider API expects.",
	})
	m.Register(&schema.Field{
		Name: "name",
		Type: schema.StringType(),
		Doc:  "Local name, referenced by task model lists.",
	})
	m.Register(&schema.Field{
		Name: "api_provider",
		Type: schema.StringType(),
		Doc:  "Name of the provider entry serving this model.",
	})
	m.Register(&schema.Field{
		Name: "price_in",
		Type: schema.FloatType(),
		Doc:  "Input token price per million, for usage accounting.",
	})
	m.Register(&schema.Field{
		Name: "price_out",
		Type: schema.FloatType(),
		Doc:  "Output token price per million, for usage accounting.",
	})
	m.Register(&schema.Field{
		Name: "temperature",
		Type: schema.Optional(schema.FloatType()),
		Doc:  "Model-level temperature override; task settings win otherwise.",
	})
	m.Register(&schema.Field{
		Name: "max_tokens",
		Type: schema.Optional(schema.IntType()),
		Doc:  "Model-level output token cap override.",
	})
	m.Register(&schema.Field{
		Name: "force_stream_mode",
		Type: schema.BoolType(),
		Doc:  "Force streamed responses for models without non-streaming support.",
	})
	m.Register(&schema.Field{
		Name: "extra_params",
		Type: schema.DictOf(schema.StringType(), schema.AnyType()),
		Doc:  "Free-form extra request parameters passed to the provider.",
	})
	return m
}

func checkModelInfo(r *schema.Record) error {
	if r.GetString("model_identifier") == "" {
		return fmt.Errorf("model_identifier must not be empty")
	}
	if r.GetString("name") == "" {
		return fmt.Errorf("model name must not be empty")
	}
	if r.GetString("api_provider") == "" {
		return fmt.Errorf("model %q: api_provider must not be empty", r.GetString("name"))
	}
	return nil
}

func newTaskModel() *schema.Model {
	m := schema.NewModel("Task", schema.WithPostCheck(checkTask))
	m.Register(&schema.Field{
		Name: "model_list",
		Type: schema.ListOf(schema.StringType()),
		Doc:  "Model names this task may use, in preference order.",
	})
	m.Register(&schema.Field{
		Name:    "max_tokens",
		Type:    schema.IntType(),
		Default: 1024,
		Doc:     "Output token cap for the task.",
	})
	m.Register(&schema.Field{
		Name:    "temperature",
		Type:    schema.FloatType(),
		Default: 0.3,
		Doc:     "Sampling temperature for the task.",
	})
	m.Register(&schema.Field{
		Name:    "slow_threshold",
		Type:    schema.FloatType(),
		Default: 15.0,
		Doc:     "Seconds after which a request is logged as slow.",
	})
	m.Register(&schema.Field{
		Name:    "selection_strategy",
		Type:    schema.StringType(),
		Default: "balance",
		Doc:     "Model pick strategy, balance or random.",
	})
	return m
}

func checkTask(r *schema.Record) error {
	if err := validate.Var(r.GetInt("max_tokens"), "min=1"); err != nil {
		return fmt.Errorf("max_tokens must be at least 1")
	}
	if err := validate.Var(r.GetFloat64("temperature"), "gte=0,lte=2"); err != nil {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if err := validate.Var(r.GetString("selection_strategy"), "oneof=balance random"); err != nil {
		return fmt.Errorf("selection_strategy must be balance or random")
	}
	return nil
}

func newRootModel() *schema.Model {
	m := schema.NewModel("Settings")
	m.Register(&schema.Field{
		Name: "bot",
		Type: schema.ModelOf(BotModel),
		Doc:  "Bot identity.",
	})
	m.Register(&schema.Field{
		Name: "personality",
		Type: schema.ModelOf(PersonalityModel),
		Doc:  "Persona and expression style.",
	})
	m.Register(&schema.Field{
		Name: "chat",
		Type: schema.ModelOf(ChatModel),
		Doc:  "Chat behavior.",
	})
	m.Register(&schema.Field{
		Name: "emoji",
		Type: schema.ModelOf(EmojiModel),
		Doc:  "Sticker behavior.",
	})
	m.Register(&schema.Field{
		Name: "providers",
		Type: schema.ListOf(schema.ModelOf(ProviderModel)),
		Doc:  "API providers, referenced by model entries.",
	})
	m.Register(&schema.Field{
		Name: "models",
		Type: schema.ListOf(schema.ModelOf(ModelInfoModel)),
		Doc:  "Models available to tasks.",
	})
	m.Register(&schema.Field{
		Name: "tasks",
		Type: schema.DictOf(schema.StringType(), schema.ModelOf(TaskModel)),
		Doc:  "Per-task model selection settings, keyed by task name.",
	})
	return m
}

// Default constructs the root settings record with every declared default.
func Default() (*schema.Record, error) {
	return RootModel.Build(nil)
}
