package models

// DisplayMode controls how the host lays out rendered suggestion capsules.
type DisplayMode string

const (
	DisplayModeWrap   DisplayMode = "wrap"
	DisplayModeScroll DisplayMode = "scroll"
)

// Valid reports whether m is one of the known display modes.
func (m DisplayMode) Valid() bool {
	return m == DisplayModeWrap || m == DisplayModeScroll
}

// PromptPreset is a named prompt template. The template may contain the
// placeholders {{user_last_reply}} and {{ai_last_reply}}, substituted at
// composition time with the two most recent conversation turns.
type PromptPreset struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Settings is the persisted configuration document. It is stored as a single
// JSON value under a fixed namespace key in the key-value store.
type Settings struct {
	APIKey            string         `json:"apiKey"`
	BaseURL           string         `json:"baseUrl"`
	Model             string         `json:"model"`
	ActivePromptIndex int            `json:"activePromptIndex"`
	DisplayMode       DisplayMode    `json:"displayMode"`
	CharacterBindings map[string]int `json:"characterBindings"`
	Prompts           []PromptPreset `json:"prompts"`
	// LastSeenVersion gates the one-time update notice shown after an
	// upgrade. Not part of the generation pipeline.
	LastSeenVersion string `json:"lastSeenScriptVersion,omitempty"`
}

const defaultPresetContent = `# 角色
你是一个AI角色扮演助写引擎。

# 任务
你的任务是根据最新的对话上下文，为“用户”生成三条简短、有效、符合其角色风格的回复建议。

# 核心指令
1.  分析下方提供的[AI的回复]和[用户的回复]，理解当前情境和用户的说话风格。
2.  从以下三个不同角度生成建议：
    - **一条行动建议**：促使角色做出具体动作，推动剧情。
    - **一条提问建议**：用于探索信息或试探对方。
    - **一条反应建议**：表达角色的情感、态度或立场。
3.  严格遵守以下格式要求：
    - 每条建议不超过10个汉字。
    - 模仿[用户的回复]中的语气和风格。

# 输出格式
你必须只响应一个不换行的单行文本。每条建议都必须用【】符号包裹。不要包含任何序号、JSON或其他多余字符。

---
### 正确输出示例：
【拔出我的长剑！】【它好像受伤了？】【先找地方躲起来！】
---

# 对话上下文
[用户的回复]：
{{user_last_reply}}

[AI的回复]：
{{ai_last_reply}}


# 开始生成建议：`

// DefaultSettings returns a fresh settings document for first run. Callers
// receive an independent copy; mutating it never affects later calls.
func DefaultSettings() Settings {
	return Settings{
		APIKey:            "YOUR_API_KEY_HERE",
		BaseURL:           "https://api.studio.nebius.com/v1",
		Model:             "google/gemma-3-27b-it-fast",
		ActivePromptIndex: 0,
		DisplayMode:       DisplayModeWrap,
		CharacterBindings: map[string]int{},
		Prompts: []PromptPreset{
			{
				Name:    "黄金三角建议 (【】符号)",
				Content: defaultPresetContent,
			},
		},
	}
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	out := s
	out.Prompts = make([]PromptPreset, len(s.Prompts))
	copy(out.Prompts, s.Prompts)
	out.CharacterBindings = make(map[string]int, len(s.CharacterBindings))
	for k, v := range s.CharacterBindings {
		out.CharacterBindings[k] = v
	}
	return out
}

// ValidPresetIndex reports whether idx addresses an existing preset.
func (s Settings) ValidPresetIndex(idx int) bool {
	return idx >= 0 && idx < len(s.Prompts)
}
