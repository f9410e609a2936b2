package ai

import "fmt"

const researchSystemPrompt = `You are a meticulous biography researcher. You dig up documented failures, tragedies and comebacks of famous people, always with concrete sources. You respond with STRICTLY VALID JSON: no duplicate keys, no trailing commas, no text before or after the object, double quotes for strings.`

const generationSystemPrompt = `You are a professional content writer specializing in viral biography articles. Your style:
- Dramatic and engaging storytelling
- Mix of tragedy and inspiration
- Conversational language
- Uses memes and pop culture references
- Structured with clear sections
- Includes memorable quotes
- Ends with motivation and success story`

const repairSystemPrompt = `You are a JSON repair specialist. Extract research data from malformed JSON and return valid JSON matching the expected structure.`

// researchJSONContract describes the payload shape providers must return.
const researchJSONContract = `{
  "teaser": {"known_for": "...", "hidden_drama": "...", "childhood_photo_hint": "..."},
  "failures": [{"number": 1, "title": "...", "age": "...", "year": "...", "description": "...", "outcome": "...", "severity": 3, "source": "...", "visual_suggestion": "..."}],
  "quotes": [{"text": "...", "context": "...", "source": "...", "page_or_timestamp": "...", "suitable_for_ending": true}],
  "success": {"peak_achievement": "...", "current_status": "...", "wealth": "...", "awards": [], "personal_life": "..."},
  "rare_sources": [{"type": "...", "title": "...", "author": "...", "year": "...", "url": "...", "key_facts": "..."}],
  "bonus_fact": "...",
  "timeline": "...",
  "sources": []
}`

func researchPrompt(celebrityName string) string {
	return fmt.Sprintf(`Research the documented life of %s. Find:
- 5-7 concrete failures, rejections or tragedies, each with a named source, the subject's age, the year, and a severity from 1 (setback) to 5 (life-changing)
- 3-5 exact quotes with provenance (book, interview or broadcast, with date and page or timecode)
- the peak achievement and current status, with figures
- rare sources few people know (autobiographies, archives, old interviews)
- a short worst-moment to triumph timeline

Prefer archival sources over Wikipedia. Every failure must have a concrete source.

Return ONLY valid JSON with this structure:
%s`, celebrityName, researchJSONContract)
}

func repairPrompt(brokenJSON, celebrityName string) string {
	const maxBroken = 15000
	if len(brokenJSON) > maxBroken {
		brokenJSON = brokenJSON[:maxBroken]
	}
	return fmt.Sprintf(`Fix this broken JSON about %s and return valid JSON with structure:
%s

Broken JSON:
%s`, celebrityName, researchJSONContract, brokenJSON)
}

func generationPrompt(celebrityName, researchJSON string, style GenerationStyle) string {
	tone := style.Tone
	if tone == "" {
		tone = "dramatic but warm"
	}
	points := style.PointsCount
	if points <= 0 {
		points = 5
	}
	language := style.Language
	if language == "" {
		language = "ru"
	}

	quotes := "Weave the researched quotes into the sections."
	if !style.IncludeQuotes {
		quotes = "Do not include direct quotes."
	}
	memes := "Add a short meme caption (memeText) to sections where it lands naturally."
	if !style.IncludeMemes {
		memes = "Do not add meme captions."
	}

	return fmt.Sprintf(`Write a biography article about %s based on this research:

%s

Requirements:
- Language: %s
- Tone: %s
- Exactly %d sections, ordered from the worst failure to the turning point
- %s
- %s
- Conclusion ties the failures to the eventual success
- Motivation is a short, direct takeaway for the reader

Return ONLY a valid JSON object:
{
  "title": "...",
  "subtitle": "...",
  "intro": "...",
  "sections": [{"id": "section-1", "order": 1, "title": "...", "content": "...", "quote": null, "memeText": "", "images": []}],
  "conclusion": "...",
  "motivation": "..."
}`, celebrityName, researchJSON, language, tone, points, quotes, memes)
}
