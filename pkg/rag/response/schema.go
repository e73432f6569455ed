package response

// DeckSchema describes the JSON the model must return: a list of chapters,
// each with question/answer cards.
func DeckSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "ARRAY",
		"description": "A list of chapters from the study material.",
		"items": map[string]interface{}{
			"type": "OBJECT",
			"properties": map[string]interface{}{
				"chapterTitle": map[string]interface{}{
					"type":        "STRING",
					"description": "The title of the chapter or main topic.",
				},
				"flashcards": map[string]interface{}{
					"type":        "ARRAY",
					"description": "A list of flashcards for this chapter.",
					"items": map[string]interface{}{
						"type": "OBJECT",
						"properties": map[string]interface{}{
							"question": map[string]interface{}{
								"type":        "STRING",
								"description": "The question or term for the front of the flashcard.",
							},
							"answer": map[string]interface{}{
								"type":        "STRING",
								"description": "The answer or definition for the back of the flashcard.",
							},
						},
						"required": []string{"question", "answer"},
					},
				},
			},
			"required": []string{"chapterTitle", "flashcards"},
		},
	}
}
