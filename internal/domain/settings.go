package domain

// DefaultSystemPrompt instructs the content generator. It is configurable
// per deployment through the settings record.
const DefaultSystemPrompt = `You write posts for a community cafe board.
Generate natural, readable post texts matching the user's request.

Rules:
1. Each post is roughly 200-500 characters.
2. Keep the tone casual, matching a community board.
3. Promotional content is acceptable.
4. Avoid repeating yourself across posts.
5. Output only the post text, no "Title:" or "Content:" labels.

Response format: one post per line.`

// Settings is the single persisted configuration record. The generator
// credential itself lives in the secret store; GeneratorSecretRef points
// at it.
type Settings struct {
	GeneratorSecretRef string
	SystemPrompt       string
}

func (s Settings) Prompt() string {
	if s.SystemPrompt == "" {
		return DefaultSystemPrompt
	}
	return s.SystemPrompt
}
