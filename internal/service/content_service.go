package service

import (
	"context"

	"quiz_portal_backend/internal/model"
)

// ContentReader is the CMS surface used by the content pages.
type ContentReader interface {
	FetchHomePage(ctx context.Context) model.HomePage
	FetchAllTestLocations(ctx context.Context) []model.TestLocation
	FetchTestLocationByID(ctx context.Context, id string) (model.TestLocation, error)
	FetchAllScreenshots(ctx context.Context) []model.Screenshot
}

type ContentService struct {
	CMS ContentReader
}

func NewContentService(cms ContentReader) *ContentService {
	return &ContentService{CMS: cms}
}

func (s *ContentService) HomePage(ctx context.Context) model.HomePage {
	return s.CMS.FetchHomePage(ctx)
}

func (s *ContentService) TestLocations(ctx context.Context) []model.TestLocation {
	return s.CMS.FetchAllTestLocations(ctx)
}

func (s *ContentService) TestLocation(ctx context.Context, id string) (model.TestLocation, error) {
	return s.CMS.FetchTestLocationByID(ctx, id)
}

func (s *ContentService) Screenshots(ctx context.Context) []model.Screenshot {
	return s.CMS.FetchAllScreenshots(ctx)
}
