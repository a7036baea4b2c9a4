package config

// ToolPreset returns the launch configuration for a named CLI tool.
// If the name is not recognized, the "gemini" preset is returned.
func ToolPreset(name string) LaunchConfig {
	switch name {
	case "claude":
		return claudePreset()
	case "codex":
		return codexPreset()
	case "gemini":
		return geminiPreset()
	default:
		return geminiPreset()
	}
}

// PresetNames lists the known presets.
func PresetNames() []string {
	return []string{"gemini", "claude", "codex"}
}

// geminiPreset launches the Gemini CLI, falling back to npx.
func geminiPreset() LaunchConfig {
	return LaunchConfig{
		Preset:       "gemini",
		Tool:         "gemini",
		FallbackTool: "npx @google/gemini-cli",
		Title:        "Gemini CLI",
	}
}

func claudePreset() LaunchConfig {
	return LaunchConfig{
		Preset:       "claude",
		Tool:         "claude",
		FallbackTool: "npx @anthropic-ai/claude-code",
		Title:        "Claude CLI",
	}
}

func codexPreset() LaunchConfig {
	return LaunchConfig{
		Preset:       "codex",
		Tool:         "codex",
		FallbackTool: "npx @openai/codex",
		Title:        "Codex CLI",
	}
}

func knownPreset(name string) bool {
	for _, n := range PresetNames() {
		if n == name {
			return true
		}
	}
	return false
}
