package models

// Translation уникальна по паре (question_id, language_code).
type Translation struct {
	ID           int64    `json:"id"`
	QuestionID   int64    `json:"question_id"`
	LanguageCode string   `json:"language_code"`
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
}

type UpdateTranslationRequest struct {
	QuestionText *string  `json:"question_text"`
	Options      []string `json:"options"`
}

// TranslationImportRequest — массовый импорт: блоки по (категория, уровень),
// вопросы матчатся по rank внутри пары.
type TranslationImportRequest struct {
	LanguageCode string                   `json:"language_code" binding:"required"`
	Translations []TranslationImportBlock `json:"translations" binding:"required,min=1"`
}

type TranslationImportBlock struct {
	Category  int                        `json:"category" binding:"required"`
	Tier      int                        `json:"tier" binding:"required"`
	Questions []TranslationImportedEntry `json:"questions"`
}

type TranslationImportedEntry struct {
	QuestionRank int      `json:"question_rank" binding:"required"`
	QuestionText string   `json:"question_text" binding:"required"`
	Options      []string `json:"options" binding:"required"`
}

// TranslationImportResult — частичный успех допустим и отчитывается.
type TranslationImportResult struct {
	Processed int      `json:"processed"`
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors"`
}
