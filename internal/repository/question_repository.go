package repository

import (
	"context"

	"quiz_portal_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// 答案按录入顺序返回
func orderedAnswers(db *gorm.DB) *gorm.DB {
	return db.Order("position asc, id asc")
}

func (r *QuestionRepository) ListByCategoryID(ctx context.Context, categoryID uint) ([]model.QuestionRecord, error) {
	var questions []model.QuestionRecord
	err := r.DB.WithContext(ctx).
		Preload("Answers", orderedAnswers).
		Preload("Category").
		Where("category_id = ?", categoryID).
		Order("id asc").
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (*model.QuestionRecord, error) {
	var question model.QuestionRecord
	err := r.DB.WithContext(ctx).
		Preload("Answers", orderedAnswers).
		Preload("Category").
		First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// Create 创建题目，Answers 一并写入
func (r *QuestionRepository) Create(ctx context.Context, question *model.QuestionRecord) error {
	return r.DB.WithContext(ctx).Omit("Category").Create(question).Error
}

// Replace 更新题目正文和分类，并整体替换答案列表
func (r *QuestionRepository) Replace(ctx context.Context, question *model.QuestionRecord) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.QuestionRecord{}).Where("id = ?", question.ID).Updates(map[string]interface{}{
			"text":        question.Text,
			"category_id": question.CategoryID,
		}).Error
		if err != nil {
			return err
		}
		if err := tx.Unscoped().Where("question_id = ?", question.ID).Delete(&model.AnswerRecord{}).Error; err != nil {
			return err
		}
		for i := range question.Answers {
			question.Answers[i].ID = 0
			question.Answers[i].QuestionID = question.ID
		}
		if len(question.Answers) == 0 {
			return nil
		}
		return tx.Create(&question.Answers).Error
	})
}

// Delete 物理删除题目及答案，返回删除的题目数
func (r *QuestionRepository) Delete(ctx context.Context, id uint) (int64, error) {
	var deleted int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("question_id = ?", id).Delete(&model.AnswerRecord{}).Error; err != nil {
			return err
		}
		res := tx.Unscoped().Delete(&model.QuestionRecord{}, id)
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}
