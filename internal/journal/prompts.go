package journal

const entryPrompt = `Write a journal entry as if you were the person speaking. This entry is being reconstructed from their oral history recordings.

DATE: %s
GRANULARITY: %s

EVENTS THAT HAPPENED:
%s

ORIGINAL WORDS FROM RECORDINGS:
"""
%s
"""

PLACES MENTIONED: %s
PEOPLE MENTIONED: %s

Write a first-person journal entry for this date/period. Rules:
1. Write as if you are the person, using "I" and present tense
2. ONLY include information from the recordings - never invent
3. Capture their voice and personality
4. Keep it intimate and personal, like a real diary
5. Reference specific details they mentioned
6. Length: 2-4 paragraphs

Return JSON only:
{
    "entry_text": "The journal entry...",
    "key_moments": ["moment 1", "moment 2"],
    "emotional_tone": "hopeful|nostalgic|joyful|reflective|bittersweet|determined"
}

JSON response:`
