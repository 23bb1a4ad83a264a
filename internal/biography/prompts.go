package biography

const chapterPlanningPrompt = `Based on the following timeline and events, suggest appropriate chapter divisions for a life memoir.

TIMELINE:
%s

EVENTS:
%s

PEOPLE MENTIONED:
%s

PLACES MENTIONED:
%s

Suggest 3-8 chapters that would naturally organize this person's life story. Consider:
- Childhood and early life
- Education and formative years
- Career and professional life
- Marriage and family
- Major life changes and moves
- Reflections and wisdom

Return JSON only:
{
    "chapters": [
        {"number": 1, "title": "...", "time_period": "...", "summary": "..."}
    ]
}

JSON response:`

const narrativePrompt = `Write a chapter for someone's life memoir in first person, as if the person is telling their own story.

CHAPTER: %s
TIME PERIOD: %s

SOURCE TRANSCRIPTS (what they actually said):
"""
%s
"""

EXTRACTED EVENTS FOR THIS CHAPTER:
%s

STYLE: %s
- verbatim: Preserve their exact words and phrasing as much as possible. Minimal editing.
- polished: Clean up the prose but maintain their voice and personality.
- storybook: Simplify for younger readers while keeping the warmth and truth.

RULES:
1. ONLY use information from the transcripts - never invent details
2. Keep their actual phrases and expressions when they're powerful
3. Mark any uncertain dates with [approximately] or [around]
4. Write warm, engaging prose that feels like them talking
5. Each paragraph should naturally flow from one to the next

Write 3-6 paragraphs for this chapter. For each paragraph, note which transcript segments it draws from.

Return JSON only:
{
    "paragraphs": [
        {
            "text": "The paragraph text...",
            "source_segments": ["Transcript segment 1..."],
            "confidence_notes": ["Note about uncertain date"]
        }
    ]
}

JSON response:`
