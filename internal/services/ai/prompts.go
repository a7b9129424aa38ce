package ai

import (
	"fmt"
	"strings"
)

const roleSection = `<ROLE>
You are a recipe parsing assistant. Your task is to carefully extract and format recipe information from a social media video's caption and transcribed audio.
</ROLE>`

const rulesSection = `<RULES>
0. Always use English language and translate to English
1. Check spelling carefully for each word
2. Separate ingredients properly with commas
3. Use proper spacing between words
4. Format measurements consistently (e.g., "1 tsp", "2 tablespoons")
5. Each ingredient should be a complete, understandable phrase
6. Each instruction should be a complete sentence with a specific action from the transcribed audio
7. Double-check the recipe name for accuracy
8. Use JSON format for the output, making sure it is valid and formatted correctly
</RULES>`

const outputFormatSection = `<OUTPUT_FORMAT>
Format the response EXACTLY as this JSON schema:

{
    "name": "Recipe Name Here",
    "recipeYield": "Serves X",
    "totalTime": "X minutes",
    "recipeIngredient": [
        "1 cup ingredient one",
        "2 tsp ingredient two"
    ],
    "recipeInstructions": [
        {"text": "Step one instruction."},
        {"text": "Step two instruction."}
    ]
}

If any field is not clearly present in the input, omit it from the JSON output.
Double-check your response for spelling and formatting before returning.

RETURN ONLY THE JSON OBJECT AND NOTHING ELSE.
</OUTPUT_FORMAT>`

func getPlatformContext(platform string) string {
	switch strings.ToLower(platform) {
	case "instagram":
		return `<PLATFORM_CONTEXT>
This recipe comes from Instagram. Captions often carry the full ingredient list, sometimes formatted with emojis or bullet points; measurements may be informal ("a splash of", "a handful").
</PLATFORM_CONTEXT>`
	case "tiktok":
		return `<PLATFORM_CONTEXT>
This recipe comes from TikTok. Captions are often minimal; rely on the transcribed audio for details. Measurements may be estimated or visual ("eyeball it", "about this much").
</PLATFORM_CONTEXT>`
	default:
		return ""
	}
}

// BuildSystemPrompt assembles the extraction system prompt with optional
// platform-specific context. Deterministic for a given platform.
func BuildSystemPrompt(platform string) string {
	var sb strings.Builder
	sb.WriteString(roleSection)
	sb.WriteString("\n\n")

	pCtx := getPlatformContext(platform)
	if pCtx != "" {
		sb.WriteString(pCtx)
		sb.WriteString("\n\n")
	}

	sb.WriteString(rulesSection)
	sb.WriteString("\n\n")
	sb.WriteString(outputFormatSection)

	return sb.String()
}

// BuildUserPrompt combines the post caption and the audio transcription into
// the user message: the caption carries exact quantities, the transcription
// carries the cooking steps.
func BuildUserPrompt(caption, transcription string) string {
	return fmt.Sprintf(`Parse this recipe information into structured data.

This is the caption of the video, use it to get the exact ingredients and quantities:
%s

This is the Transcribed Audio. Use this to deduce what the recipe instructions are:
%s

Extract all recipe information and return it in JSON format as specified.`, caption, transcription)
}
