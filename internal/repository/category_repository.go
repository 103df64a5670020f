package repository

import (
	"context"

	"quiz_portal_backend/internal/model"

	"gorm.io/gorm"
)

type CategoryRepository struct {
	DB *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]model.CategoryRecord, error) {
	var categories []model.CategoryRecord
	err := r.DB.WithContext(ctx).Order("id asc").Find(&categories).Error
	return categories, err
}

// FindBySlug 按 slug 查找分类，不存在时返回 gorm.ErrRecordNotFound
func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*model.CategoryRecord, error) {
	var category model.CategoryRecord
	err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uint) (*model.CategoryRecord, error) {
	var category model.CategoryRecord
	err := r.DB.WithContext(ctx).First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.CategoryRecord{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.CategoryRecord) error {
	return r.DB.WithContext(ctx).Create(category).Error
}

func (r *CategoryRepository) Update(ctx context.Context, category *model.CategoryRecord) error {
	return r.DB.WithContext(ctx).Save(category).Error
}

// DeleteBySlug 物理删除分类及其题目和答案，返回删除的分类数
func (r *CategoryRepository) DeleteBySlug(ctx context.Context, slug string) (int64, error) {
	var deleted int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category model.CategoryRecord
		if err := tx.Where("slug = ?", slug).First(&category).Error; err != nil {
			return err
		}

		questionIDs := tx.Model(&model.QuestionRecord{}).Select("id").Where("category_id = ?", category.ID)
		if err := tx.Unscoped().Where("question_id IN (?)", questionIDs).Delete(&model.AnswerRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("category_id = ?", category.ID).Delete(&model.QuestionRecord{}).Error; err != nil {
			return err
		}

		res := tx.Unscoped().Delete(&category)
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}
