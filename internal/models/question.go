package models

// QuestionOptionCount — вопрос всегда ровно с четырьмя вариантами.
const QuestionOptionCount = 4

type Question struct {
	ID                 int64    `json:"id"`
	QuestionText       string   `json:"question_text"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correct_option_index"`
	CategoryID         int64    `json:"category_id"`
	TierID             int64    `json:"tier_id"`
	Rank               int      `json:"rank"`
}

// QuestionItem — один вопрос в батче создания, с вложенными переводами.
type QuestionItem struct {
	Question     string            `json:"question" binding:"required"`
	Options      []string          `json:"options" binding:"required"`
	CorrectIndex int               `json:"correct_index"`
	Translations []TranslationItem `json:"translations"`
}

type TranslationItem struct {
	LanguageCode string   `json:"language_code" binding:"required"`
	Question     string   `json:"question" binding:"required"`
	Options      []string `json:"options" binding:"required"`
}

type CreateQuestionsRequest struct {
	CategoryOrderRank int               `json:"category_order_rank" binding:"required"`
	Tier              CreateTierRequest `json:"tier" binding:"required"`
	Questions         []QuestionItem    `json:"questions" binding:"required,min=1"`
}

type UpdateQuestionRequest struct {
	QuestionText       *string  `json:"question_text"`
	Options            []string `json:"options"`
	CorrectOptionIndex *int     `json:"correct_option_index"`
}
