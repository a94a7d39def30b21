package services

import (
	"errors"
	"fmt"
	"log"

	"quizarena/internal/models"
	"quizarena/internal/repositories"
)

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTierNotFound        = errors.New("tier not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrTranslationNotFound = errors.New("translation not found")

	ErrNameTaken      = errors.New("name already exists")
	ErrOrderRankTaken = errors.New("orderRank already exists")

	ErrValidation = errors.New("validation failed")
)

type QuizContentService interface {
	CreateCategory(req *models.CreateCategoryRequest) (*models.Category, error)
	ListCategories() ([]*models.Category, error)
	GetCategoryByRank(orderRank int) (*models.Category, error)
	UpdateCategory(orderRank int, req *models.UpdateCategoryRequest) (*models.Category, error)
	DeleteCategory(orderRank int) error

	CreateTier(req *models.CreateTierRequest) (*models.Tier, error)
	ListTiers() ([]*models.Tier, error)
	GetTierByRank(orderRank int) (*models.Tier, error)
	UpdateTier(orderRank int, req *models.UpdateTierRequest) (*models.Tier, error)

	CreateQuestions(req *models.CreateQuestionsRequest) ([]*models.Question, *models.Tier, error)
	ListQuestions(categoryRank, tierRank int) (*models.Category, *models.Tier, []*models.Question, error)
	UpdateQuestion(id int64, req *models.UpdateQuestionRequest) (*models.Question, error)
	DeleteQuestion(id int64) error

	GetTranslations(questionID int64) (*models.Question, []*models.Translation, error)
	UpdateTranslation(id int64, req *models.UpdateTranslationRequest) (*models.Translation, error)
	ImportTranslations(req *models.TranslationImportRequest) (*models.TranslationImportResult, error)

	CreatePayment(req *models.CreateUserPaymentRequest) (*models.UserPayment, error)
	ListPayments() ([]*models.UserPayment, error)
}

type quizContentService struct {
	categories   repositories.CategoryRepository
	tiers        repositories.TierRepository
	questions    repositories.QuestionRepository
	translations repositories.TranslationRepository
	payments     repositories.PaymentRepository
	users        repositories.UserRepository
}

func NewQuizContentService(
	categories repositories.CategoryRepository,
	tiers repositories.TierRepository,
	questions repositories.QuestionRepository,
	translations repositories.TranslationRepository,
	payments repositories.PaymentRepository,
	users repositories.UserRepository,
) QuizContentService {
	return &quizContentService{
		categories:   categories,
		tiers:        tiers,
		questions:    questions,
		translations: translations,
		payments:     payments,
		users:        users,
	}
}

// CreateCategory — обе проверки уникальности до INSERT, чтобы назвать
// нарушенное ограничение; unique-индекс в БД остаётся страховкой от гонки.
func (s *quizContentService) CreateCategory(req *models.CreateCategoryRequest) (*models.Category, error) {
	if existing, err := s.categories.GetByName(req.Name); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("category name %q: %w", req.Name, ErrNameTaken)
	}
	if existing, err := s.categories.GetByRank(req.OrderRank); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("category orderRank %d: %w", req.OrderRank, ErrOrderRankTaken)
	}

	category := &models.Category{Name: req.Name, Description: req.Description, OrderRank: req.OrderRank}
	if err := s.categories.Create(category); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, fmt.Errorf("category name/orderRank: %w", ErrOrderRankTaken)
		}
		return nil, err
	}
	return category, nil
}

func (s *quizContentService) ListCategories() ([]*models.Category, error) {
	return s.categories.List()
}

func (s *quizContentService) GetCategoryByRank(orderRank int) (*models.Category, error) {
	category, err := s.categories.GetByRank(orderRank)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// UpdateCategory — сначала разрешаем цель: для несуществующей категории
// ответ NotFound, конфликты имени/rank проверяются уже после.
func (s *quizContentService) UpdateCategory(orderRank int, req *models.UpdateCategoryRequest) (*models.Category, error) {
	current, err := s.categories.GetByRank(orderRank)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrCategoryNotFound
	}

	if req.Name != nil {
		if existing, err := s.categories.GetByName(*req.Name); err != nil {
			return nil, err
		} else if existing != nil && existing.ID != current.ID {
			return nil, fmt.Errorf("category name %q: %w", *req.Name, ErrNameTaken)
		}
	}
	if req.OrderRank != nil && *req.OrderRank != orderRank {
		if existing, err := s.categories.GetByRank(*req.OrderRank); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, fmt.Errorf("category orderRank %d: %w", *req.OrderRank, ErrOrderRankTaken)
		}
	}

	updated, err := s.categories.UpdateByRank(orderRank, req)
	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, fmt.Errorf("category name/orderRank: %w", ErrOrderRankTaken)
		}
		return nil, err
	}
	if updated == nil {
		return nil, ErrCategoryNotFound
	}
	return updated, nil
}

// DeleteCategory — вопросы категории и их переводы удаляются каскадом.
func (s *quizContentService) DeleteCategory(orderRank int) error {
	deleted, err := s.categories.DeleteByRank(orderRank)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCategoryNotFound
	}
	log.Printf("[content][category][delete] orderRank=%d (questions cascade)", orderRank)
	return nil
}

func (s *quizContentService) CreateTier(req *models.CreateTierRequest) (*models.Tier, error) {
	if existing, err := s.tiers.GetByRank(req.OrderRank); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("tier orderRank %d: %w", req.OrderRank, ErrOrderRankTaken)
	}

	tier := &models.Tier{Name: req.Name, Description: req.Description, IsPaid: req.IsPaid, OrderRank: req.OrderRank}
	if err := s.tiers.Create(tier); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, fmt.Errorf("tier orderRank %d: %w", req.OrderRank, ErrOrderRankTaken)
		}
		return nil, err
	}
	return tier, nil
}

func (s *quizContentService) ListTiers() ([]*models.Tier, error) {
	return s.tiers.List()
}

func (s *quizContentService) GetTierByRank(orderRank int) (*models.Tier, error) {
	tier, err := s.tiers.GetByRank(orderRank)
	if err != nil {
		return nil, err
	}
	if tier == nil {
		return nil, ErrTierNotFound
	}
	return tier, nil
}

func (s *quizContentService) UpdateTier(orderRank int, req *models.UpdateTierRequest) (*models.Tier, error) {
	current, err := s.tiers.GetByRank(orderRank)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrTierNotFound
	}

	if req.OrderRank != nil && *req.OrderRank != orderRank {
		if existing, err := s.tiers.GetByRank(*req.OrderRank); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, fmt.Errorf("tier orderRank %d: %w", *req.OrderRank, ErrOrderRankTaken)
		}
	}

	updated, err := s.tiers.UpdateByRank(orderRank, req)
	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, fmt.Errorf("tier orderRank: %w", ErrOrderRankTaken)
		}
		return nil, err
	}
	if updated == nil {
		return nil, ErrTierNotFound
	}
	return updated, nil
}

func validateQuestionItem(item *models.QuestionItem) error {
	if len(item.Options) != models.QuestionOptionCount {
		return fmt.Errorf("%w: exactly four options are required", ErrValidation)
	}
	if item.CorrectIndex < 0 || item.CorrectIndex >= len(item.Options) {
		return fmt.Errorf("%w: correct_index is out of bounds", ErrValidation)
	}
	return nil
}

// CreateQuestions — категория обязана существовать, уровень создаётся по
// ссылке при отсутствии; весь батч атомарен (см. QuestionRepository.CreateBatch).
func (s *quizContentService) CreateQuestions(req *models.CreateQuestionsRequest) ([]*models.Question, *models.Tier, error) {
	category, err := s.categories.GetByRank(req.CategoryOrderRank)
	if err != nil {
		return nil, nil, err
	}
	if category == nil {
		return nil, nil, ErrCategoryNotFound
	}

	for i := range req.Questions {
		if err := validateQuestionItem(&req.Questions[i]); err != nil {
			return nil, nil, fmt.Errorf("question #%d: %w", i+1, err)
		}
	}

	created, tier, err := s.questions.CreateBatch(category.ID, &req.Tier, req.Questions)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("[content][questions][create] category=%s tier=%s count=%d", category.Name, tier.Name, len(created))
	return created, tier, nil
}

func (s *quizContentService) ListQuestions(categoryRank, tierRank int) (*models.Category, *models.Tier, []*models.Question, error) {
	category, err := s.categories.GetByRank(categoryRank)
	if err != nil {
		return nil, nil, nil, err
	}
	if category == nil {
		return nil, nil, nil, ErrCategoryNotFound
	}
	tier, err := s.tiers.GetByRank(tierRank)
	if err != nil {
		return nil, nil, nil, err
	}
	if tier == nil {
		return nil, nil, nil, ErrTierNotFound
	}

	questions, err := s.questions.ListByCategoryAndTier(category.ID, tier.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	return category, tier, questions, nil
}

// UpdateQuestion — частичное обновление; границы индекса проверяются против
// вариантов, которые будут действовать после слияния.
func (s *quizContentService) UpdateQuestion(id int64, req *models.UpdateQuestionRequest) (*models.Question, error) {
	question, err := s.questions.GetByID(id)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	effectiveOptions := question.Options
	if req.Options != nil {
		if len(req.Options) != models.QuestionOptionCount {
			return nil, fmt.Errorf("%w: exactly four options are required", ErrValidation)
		}
		effectiveOptions = req.Options
	}
	effectiveIndex := question.CorrectOptionIndex
	if req.CorrectOptionIndex != nil {
		effectiveIndex = *req.CorrectOptionIndex
	}
	if effectiveIndex < 0 || effectiveIndex >= len(effectiveOptions) {
		return nil, fmt.Errorf("%w: correct_option_index is out of bounds", ErrValidation)
	}

	if req.QuestionText != nil {
		question.QuestionText = *req.QuestionText
	}
	question.Options = effectiveOptions
	question.CorrectOptionIndex = effectiveIndex

	if err := s.questions.Update(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *quizContentService) DeleteQuestion(id int64) error {
	deleted, err := s.questions.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrQuestionNotFound
	}
	return nil
}

func (s *quizContentService) GetTranslations(questionID int64) (*models.Question, []*models.Translation, error) {
	question, err := s.questions.GetByID(questionID)
	if err != nil {
		return nil, nil, err
	}
	if question == nil {
		return nil, nil, ErrQuestionNotFound
	}
	translations, err := s.translations.ListByQuestion(questionID)
	if err != nil {
		return nil, nil, err
	}
	return question, translations, nil
}

func (s *quizContentService) UpdateTranslation(id int64, req *models.UpdateTranslationRequest) (*models.Translation, error) {
	if req.Options != nil && len(req.Options) != models.QuestionOptionCount {
		return nil, fmt.Errorf("%w: exactly four options are required", ErrValidation)
	}
	updated, err := s.translations.Update(id, req)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrTranslationNotFound
	}
	return updated, nil
}

// ImportTranslations — частичный успех: нераспознанные категории/уровни/
// вопросы попадают в отчёт, удачные upsert-ы не откатываются.
func (s *quizContentService) ImportTranslations(req *models.TranslationImportRequest) (*models.TranslationImportResult, error) {
	result := &models.TranslationImportResult{Errors: []string{}}

	for _, block := range req.Translations {
		category, err := s.categories.GetByRank(block.Category)
		if err != nil {
			return nil, err
		}
		tier, err := s.tiers.GetByRank(block.Tier)
		if err != nil {
			return nil, err
		}
		if category == nil || tier == nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Category %d / Tier %d not found", block.Category, block.Tier))
			continue
		}

		questions, err := s.questions.ListByCategoryAndTier(category.ID, tier.ID)
		if err != nil {
			return nil, err
		}
		byRank := make(map[int]int64, len(questions))
		for _, q := range questions {
			byRank[q.Rank] = q.ID
		}

		for _, entry := range block.Questions {
			result.Processed++

			questionID, ok := byRank[entry.QuestionRank]
			if !ok {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("Question %d not found", entry.QuestionRank))
				continue
			}

			created, err := s.translations.Upsert(questionID, req.LanguageCode, entry.QuestionText, entry.Options)
			if err != nil {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("Question %d: %v", entry.QuestionRank, err))
				continue
			}
			if created {
				result.Created++
			} else {
				result.Updated++
			}
		}
	}

	log.Printf("[content][translations][import] processed=%d created=%d updated=%d skipped=%d",
		result.Processed, result.Created, result.Updated, result.Skipped)
	return result, nil
}

func (s *quizContentService) CreatePayment(req *models.CreateUserPaymentRequest) (*models.UserPayment, error) {
	user, err := s.users.GetByID(req.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	tier, err := s.tiers.GetByID(req.TierID)
	if err != nil {
		return nil, err
	}
	if tier == nil {
		return nil, ErrTierNotFound
	}

	payment := &models.UserPayment{
		UserID:     req.UserID,
		TierID:     req.TierID,
		Amount:     req.Amount,
		Currency:   req.Currency,
		ExpiryDate: req.ExpiryDate,
	}
	if err := s.payments.Create(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *quizContentService) ListPayments() ([]*models.UserPayment, error) {
	return s.payments.List()
}
