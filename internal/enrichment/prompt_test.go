package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPrompt(t *testing.T) {
	template := "Extract projects from <content>. Known tags: <tags>. Author <author> <missing>"
	prompt := RenderPrompt(template, map[string]any{
		"content": "Uniswap ships v4",
		"tags":    []string{"DeFi", "DEX"},
		"author":  nil,
	})

	assert.Equal(t, `Extract projects from Uniswap ships v4. Known tags: ["DeFi","DEX"]. Author  <missing>`, prompt)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  map[string]any
	}{
		{
			name:  "plain object",
			reply: `{"project": ["Uniswap"]}`,
			want:  map[string]any{"project": []any{"Uniswap"}},
		},
		{
			name:  "think block and fence",
			reply: "<think>\nthe user wants {json}\n</think>\nSure:\n```JSON\n{\"token\": \"UNI\"}\n```",
			want:  map[string]any{"token": "UNI"},
		},
		{
			name:  "trailing commas",
			reply: "```json\n{\"tags\": [\"DeFi\", \"L2\",], \"n\": 1,}\n```",
			want:  map[string]any{"tags": []any{"DeFi", "L2"}, "n": float64(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.reply)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractJSON_Invalid(t *testing.T) {
	for _, reply := range []string{"not json", "[1, 2]", "null", "<think>{}</think>"} {
		_, err := ExtractJSON(reply)
		assert.Error(t, err, reply)
	}
}

func TestIsSelfHosted(t *testing.T) {
	assert.True(t, isSelfHosted("http://localhost:11434/v1"))
	assert.True(t, isSelfHosted("http://127.0.0.1:8000/v1"))
	assert.True(t, isSelfHosted("http://192.168.11.51:8000/v1"))
	assert.False(t, isSelfHosted("https://api.openai.com/v1"))
	assert.False(t, isSelfHosted("https://api.deepseek.com"))
}
