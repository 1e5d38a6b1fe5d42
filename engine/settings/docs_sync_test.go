package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mochibot/mochibot/pkg/docgen"
	"github.com/mochibot/mochibot/pkg/schema"
	"github.com/mochibot/mochibot/pkg/schema/srcdoc"
)

// The typed view structs in types.go must carry the same documentation as
// the descriptor models, field for field.
func TestTypedViewDocs(t *testing.T) {
	t.Run("Should match the descriptor docs", func(t *testing.T) {
		err := docgen.CheckSourceDocs(srcdoc.NewExtractor(), "types.go", map[string]*schema.Model{
			"Settings":    RootModel,
			"Bot":         BotModel,
			"Personality": PersonalityModel,
			"TalkRule":    TalkRuleModel,
			"Chat":        ChatModel,
			"Emoji":       EmojiModel,
			"Provider":    ProviderModel,
			"ModelInfo":   ModelInfoModel,
			"Task":        TaskModel,
		})
		assert.NoError(t, err)
	})

	t.Run("Should declare no methods besides the hook on view types", func(t *testing.T) {
		ex := srcdoc.NewExtractor()
		_, err := ex.ExtractFile("types.go", "Settings")
		assert.NoError(t, err)
	})
}
