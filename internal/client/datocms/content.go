package datocms

import (
	"context"

	"quiz_portal_backend/internal/model"
)

const homePageQuery = `
query HomePage {
  homepage {
    title
    subtitle
    description
    headerimage {
      url
      alt
      width
      height
    }
  }
}`

const allScreenshotsQuery = `
query AllScreenshots {
  allScreenshots {
    id
    _createdAt
    myndir {
      id
      url
      alt
      title
      width
      height
      responsiveImage(imgixParams: { fit: max, w: 800, h: 600, auto: format, q: 80 }) {
        src
        width
        height
        alt
        base64
      }
    }
  }
}`

// PlaceholderHomePage is served whenever the homepage record cannot be read.
func PlaceholderHomePage() model.HomePage {
	return model.HomePage{
		Title:       "Quiz App - Mani Eiðsson",
		Subtitle:    "Spurningar - Eitthvað random smíða á DatoCMS",
		Description: "veldu flokk til að byrja",
	}
}

func (c *Client) FetchHomePage(ctx context.Context) model.HomePage {
	var data struct {
		HomePage *struct {
			Title       string       `json:"title"`
			Subtitle    string       `json:"subtitle"`
			Description string       `json:"description"`
			HeaderImage *model.Image `json:"headerimage"`
		} `json:"homepage"`
	}
	if err := c.Request(ctx, Params{Query: homePageQuery}, &data); err != nil || data.HomePage == nil {
		return PlaceholderHomePage()
	}
	return model.HomePage{
		Title:       data.HomePage.Title,
		Subtitle:    data.HomePage.Subtitle,
		Description: data.HomePage.Description,
		HeaderImage: data.HomePage.HeaderImage,
	}
}

func (c *Client) FetchAllScreenshots(ctx context.Context) []model.Screenshot {
	var data struct {
		AllScreenshots []struct {
			ID        string            `json:"id"`
			CreatedAt string            `json:"_createdAt"`
			Myndir    []model.FileField `json:"myndir"`
		} `json:"allScreenshots"`
	}
	if err := c.Request(ctx, Params{Query: allScreenshotsQuery}, &data); err != nil {
		return []model.Screenshot{}
	}
	out := make([]model.Screenshot, 0, len(data.AllScreenshots))
	for _, s := range data.AllScreenshots {
		images := s.Myndir
		if images == nil {
			images = []model.FileField{}
		}
		out = append(out, model.Screenshot{ID: s.ID, Images: images, CreatedAt: s.CreatedAt})
	}
	return out
}
