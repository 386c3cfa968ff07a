package prompt

import "fmt"

// DefinitionLanguage is the language vocabulary definitions are written in.
const DefinitionLanguage = "English"

// Translation asks for a translation into English for Chinese input and
// into simplified Chinese otherwise. The reply carries a "Translation" key.
func Translation(text string) string {
	target := "simplified Chinese"
	if DetectLanguage(text) == Chinese {
		target = "English"
	}

	return fmt.Sprintf(`
Translate the following sentence into %[1]s.

Input Sentence: %[2]s

Instructions:
1. **Translation:**
    *   Translate the entire sentence into accurate %[1]s.
    *   Maintain the original grammatical structure.
    *   Use precise %[1]s equivalents for technical terms.
    *   Output a JSON object that contains the translation as a single JSON string named "Translation".
`, target, text)
}

// Analysis asks for idioms, collocations and advanced vocabulary as a "Words" list.
func Analysis(text string) string {
	return fmt.Sprintf(`
Extract vocabulary from the following sentence.

Input Sentence: %[1]s

Output a JSON object as follows:

`+"```json"+`
{
"Words": [
    {"word": "word/phrase", "definition": "definition in %[2]s"},
    ...
]
}
`+"```"+`

Instructions:
1. **Vocabulary Extraction:**
    *   Identify and extract both:
        *   **Idioms and collocations:** (e.g., "in terms of", "kick the bucket").
        *   **Complex Words:** Vocabulary exceeding the CET-4 requirements.
    *   For each extracted word or phrase, create a JSON object within the "Words" array:
        *   "word": The word or phrase (string).
        *   "definition": Its %[2]s definition, considering the context (string).
`, text, DefinitionLanguage)
}

// GrammarCheck asks for a corrected sentence and a markdown correction guide.
func GrammarCheck(text string) string {
	return fmt.Sprintf(`
Correct any grammatical errors in the following sentence and provide a guide for correction.

Input Sentence: %s

Instructions:
1. **Correction:**
    *   Identify and correct any grammatical errors in the sentence.
    *   Maintain the original meaning and sentence structure as much as possible.
    *   If Chinese appears in the sentence, replace it with a suitable English expression.
2. **Guide**
    *   Provide specific guidance on the grammatical errors found and how they were corrected.
    *   Structure the guide using the following **markdown** format (not json):
        1.  **Error 1 Title (e.g., Spelling Error, Subject-Verb Agreement):**
            *   **Description:** Briefly describe the error.
            *   **Rule/Principle:** Explain the grammatical rule or principle involved.
            *   **Example:** (Optional) Provide an example of the correct usage.
        (Continue with numbered items for each error found)
3. **Output**
    *   Output a JSON object that contains the following:
        * "CorrectedSentence": The corrected sentence as a single JSON string. Bold the modified parts.
        * "CorrectionGuide": The guidance on the grammatical errors found as a single JSON string.
`, text)
}
