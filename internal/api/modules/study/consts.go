package study

// Prompt template for flash card generation. The model is asked for JSON but
// does not always comply, so a line-oriented fallback parser backs it up.
const flashcardsPromptTemplate = `Create flash cards from the following content. Generate 5-10 flash cards with clear front (question/keyword) and back (answer/explanation) pairs.

Content:
%s

Format the response as JSON with this structure:
{
    "flashcards": [
        {
            "front": "Question or keyword",
            "back": "Answer or explanation"
        }
    ]
}

Make sure the front side contains concise questions or key terms, and the back side contains detailed explanations or answers. Focus on the most important concepts.`

// Prompt template for MCQ generation
const mcqsPromptTemplate = `Create %d multiple choice questions from the following content. Each question should have 4 options (A, B, C, D) with only one correct answer.

Content:
%s

Format the response as JSON with this structure:
{
    "mcqs": [
        {
            "question": "Question text here",
            "options": ["Option A", "Option B", "Option C", "Option D"],
            "correct": 0
        }
    ]
}

Important:
- Generate exactly %d questions
- Each question must have exactly 4 options
- The "correct" field should be the index (0-3) of the correct option
- Make questions clear and relevant to the content
- Ensure options are plausible but only one is correct
- Focus on important concepts and key information`
